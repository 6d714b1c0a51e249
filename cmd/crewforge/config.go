// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/crewforge/internal/crew"
	"github.com/pdiddy/crewforge/internal/history"
	"github.com/pdiddy/crewforge/internal/llm"
	"github.com/pdiddy/crewforge/internal/secrets"
	"github.com/pdiddy/crewforge/internal/tools"
	"github.com/pdiddy/crewforge/pkg/types"
)

func setDefaults() {
	viper.SetDefault("output_dir", "output")
	viper.SetDefault("secrets_dir", ".secrets/")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("crews_dir", "")
	viper.SetDefault("history.db", "")

	viper.SetDefault("llm.provider", string(types.ProviderGemini))
	viper.SetDefault("llm.model", "gemini-2.5-flash")
	viper.SetDefault("llm.base_url", "")
	viper.SetDefault("llm.timeout", 120*time.Second)
	viper.SetDefault("llm.max_retries", 3)

	viper.SetDefault("curriculum.temperature", 0.8)
	viper.SetDefault("curriculum.duration", "8 weeks")
	viper.SetDefault("curriculum.api_key_env", "GOOGLE_API_KEY")

	viper.SetDefault("report.temperature", 0.7)
	viper.SetDefault("report.api_key_env", "GEMINI_API_KEY")
}

func llmConfig(temperatureKey string) types.LLMConfig {
	return types.LLMConfig{
		Provider:    types.Provider(viper.GetString("llm.provider")),
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		Temperature: viper.GetFloat64(temperatureKey),
		Timeout:     viper.GetDuration("llm.timeout"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
	}
}

func curriculumConfig(cmd *cobra.Command) types.CurriculumConfig {
	cfg := types.CurriculumConfig{
		LLMConfig: llmConfig("curriculum.temperature"),
		APIKeyEnv: viper.GetString("curriculum.api_key_env"),
		Duration:  viper.GetString("curriculum.duration"),
		OutputDir: viper.GetString("output_dir"),
		SpecDir:   viper.GetString("crews_dir"),
	}
	if d, _ := cmd.Flags().GetString("duration"); d != "" {
		cfg.Duration = d
	}
	return cfg
}

func reportConfig() types.ReportConfig {
	return types.ReportConfig{
		LLMConfig: llmConfig("report.temperature"),
		APIKeyEnv: viper.GetString("report.api_key_env"),
		OutputDir: viper.GetString("output_dir"),
		SpecDir:   viper.GetString("crews_dir"),
	}
}

// crewOptions resolves the credential and builds the model backend. It
// fails before any network call when the credential is missing.
func crewOptions(cfg types.LLMConfig, apiKeyEnv string, callback func(crew.TaskOutput)) (crew.Options, error) {
	key, err := secrets.Resolve(apiKeyEnv, loadedSecrets)
	if err != nil {
		return crew.Options{}, err
	}
	backend, err := llm.New(cfg, key)
	if err != nil {
		return crew.Options{}, err
	}
	slog.Debug("model backend",
		slog.String("provider", backend.Name()),
		slog.String("model", cfg.Model),
		slog.Float64("temperature", cfg.Temperature))

	return crew.Options{
		Backend:     backend,
		Tools:       tools.Default(),
		Temperature: cfg.Temperature,
		MaxRetries:  cfg.MaxRetries,
		Callback:    callback,
	}, nil
}

func historyPath() string {
	if p := viper.GetString("history.db"); p != "" {
		return p
	}
	return filepath.Join(viper.GetString("output_dir"), history.DefaultFile)
}

// recordRun appends r to the run ledger. Ledger failures are logged and do
// not fail the command.
func recordRun(cmd *cobra.Command, r types.Run) {
	store, err := history.Open(historyPath())
	if err != nil {
		slog.Warn("run not recorded", slog.Any("error", err))
		return
	}
	defer store.Close()

	if err := store.Record(cmd.Context(), r); err != nil {
		slog.Warn("run not recorded", slog.Any("error", err))
		return
	}
	slog.Debug("run recorded", slog.String("id", r.ID), slog.String("ledger", historyPath()))
}

func checkOutputDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	return nil
}
