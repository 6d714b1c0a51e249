// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// A key file is named after the environment variable it stands in for, in
// lower-kebab form: GOOGLE_API_KEY is read from google-api-key.
package secrets

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrMissingCredential is returned when neither the environment nor the
// secrets directory supplies a required key.
var ErrMissingCredential = errors.New("credential not found")

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", slog.String("name", name), slog.String("error", err.Error()))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// KeyFileName maps an environment variable name to its key file name.
func KeyFileName(env string) string {
	return strings.ReplaceAll(strings.ToLower(env), "_", "-")
}

// Resolve returns the credential for env. The process environment wins over
// the loaded secrets; a blank value counts as missing.
func Resolve(env string, loaded map[string]string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v, nil
	}
	if v, ok := loaded[KeyFileName(env)]; ok && v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%s: %w (set it in the environment, .env, or .secrets/%s)", env, ErrMissingCredential, KeyFileName(env))
}
