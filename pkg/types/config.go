// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Provider identifies the LLM transport used by a crew.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// LLMConfig holds shared settings for every stage that calls a language model.
type LLMConfig struct {
	// Provider selects the backend: gemini, anthropic, or openai (OpenAI-compatible).
	Provider Provider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model"`

	// BaseURL overrides the provider endpoint. Empty uses the provider default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Temperature is the sampling temperature sent with every request.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retry attempts for a failed task (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CurriculumConfig holds settings for the curriculum command.
type CurriculumConfig struct {
	LLMConfig `yaml:",inline"`

	// APIKeyEnv names the environment variable holding the credential.
	APIKeyEnv string `json:"api_key_env" yaml:"api_key_env"`

	// Duration is the course length handed to the outline task (default "8 weeks").
	Duration string `json:"duration" yaml:"duration"`

	// OutputDir receives the JSON and DOCX artifacts.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// SpecDir optionally overrides the embedded crew definition.
	SpecDir string `json:"spec_dir,omitempty" yaml:"spec_dir,omitempty"`
}

// ReportConfig holds settings for the report command.
type ReportConfig struct {
	LLMConfig `yaml:",inline"`

	// APIKeyEnv names the environment variable holding the credential.
	APIKeyEnv string `json:"api_key_env" yaml:"api_key_env"`

	// OutputDir receives the JSON and Markdown artifacts.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// SpecDir optionally overrides the embedded crew definition.
	SpecDir string `json:"spec_dir,omitempty" yaml:"spec_dir,omitempty"`
}
