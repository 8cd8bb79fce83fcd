// Package config reads and writes persistent user settings.
//
// Settings live in a key=value file at $XDG_CONFIG_HOME/studynotes/config
// (or ~/.config/studynotes/config). Keys missing from the file fall back to
// environment variables.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// appName names the configuration directory.
const appName = "studynotes"

// Config keys.
const (
	KeyOutputDir = "output-dir"
	KeyProvider  = "provider"
	KeyModel     = "model"
	KeyPDFEngine = "pdf-engine"
	KeyLogLevel  = "log-level"
	KeyTheme     = "theme"
)

// Environment variable fallbacks.
const (
	EnvOutputDir = "STUDYNOTES_OUTPUT_DIR"
	EnvProvider  = "STUDYNOTES_PROVIDER"
	EnvModel     = "STUDYNOTES_MODEL"
	EnvPDFEngine = "STUDYNOTES_PDF_ENGINE"
	EnvLogLevel  = "STUDYNOTES_LOG_LEVEL"
	EnvTheme     = "STUDYNOTES_THEME"
)

// ErrUnknownKey indicates a key the config file does not support.
var ErrUnknownKey = errors.New("unknown config key")

// envFallbacks maps each supported key to its environment variable.
var envFallbacks = map[string]string{
	KeyOutputDir: EnvOutputDir,
	KeyProvider:  EnvProvider,
	KeyModel:     EnvModel,
	KeyPDFEngine: EnvPDFEngine,
	KeyLogLevel:  EnvLogLevel,
	KeyTheme:     EnvTheme,
}

// Keys returns the supported keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(envFallbacks))
	for k := range envFallbacks {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// CheckKey returns ErrUnknownKey for unsupported keys.
func CheckKey(key string) error {
	if _, ok := envFallbacks[key]; !ok {
		return fmt.Errorf("%w: %q (valid keys: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	return nil
}

// EnvVar returns the environment variable that backs key, or "".
func EnvVar(key string) string {
	return envFallbacks[key]
}

// Config holds user configuration.
type Config struct {
	OutputDir string
	Provider  string
	Model     string
	PDFEngine string
	LogLevel  string
	Theme     string
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/studynotes.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variable fallbacks.
// Returns an empty Config if the file doesn't exist (not an error).
func Load() (Config, error) {
	p, err := path()
	if err != nil {
		return Config{}, err
	}

	data, err := parseFile(p)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		data = map[string]string{}
	}

	value := func(key string) string {
		if v := data[key]; v != "" {
			return v
		}
		return os.Getenv(envFallbacks[key])
	}

	return Config{
		OutputDir: value(KeyOutputDir),
		Provider:  value(KeyProvider),
		Model:     value(KeyModel),
		PDFEngine: value(KeyPDFEngine),
		LogLevel:  value(KeyLogLevel),
		Theme:     value(KeyTheme),
	}, nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid syntax at line %d: %q", lineNum, line)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return data, nil
}

// Save writes a single key=value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing key=value pairs but discards comments.
func Save(key, value string) error {
	if err := CheckKey(key); err != nil {
		return err
	}
	p, err := path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, _ := parseFile(p)
	if existing == nil {
		existing = make(map[string]string)
	}
	existing[key] = value

	return writeFile(p, existing)
}

// writeFile writes the config map to a file, keys sorted.
func writeFile(p string, data map[string]string) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, data[k])
	}

	// #nosec G306 -- config file with standard permissions
	if err := os.WriteFile(p, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	if err := CheckKey(key); err != nil {
		return "", err
	}
	data, err := List()
	if err != nil {
		return "", err
	}
	return data[key], nil
}

// List returns all config file values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	return data, nil
}

// ResolveOutputPath resolves the final output path using the following precedence:
//  1. If output is absolute, use it as-is
//  2. If output is relative and outputDir is set, join them
//  3. If output is empty, use defaultName in outputDir (or cwd if no outputDir)
func ResolveOutputPath(output, outputDir, defaultName string) string {
	if output != "" && filepath.IsAbs(output) {
		return filepath.Clean(output)
	}
	if output != "" {
		if outputDir != "" {
			return filepath.Clean(filepath.Join(outputDir, output))
		}
		return filepath.Clean(output)
	}
	if outputDir != "" {
		return filepath.Clean(filepath.Join(outputDir, defaultName))
	}
	return filepath.Clean(defaultName)
}

// ValidOutputDir checks that d is a writable directory, creating it if missing.
func ValidOutputDir(d string) error {
	if d == "" {
		return fmt.Errorf("output-dir cannot be empty")
	}
	d = ExpandPath(d)

	info, err := os.Stat(d)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user output dir
				return fmt.Errorf("cannot create directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", d)
	}

	f, err := os.CreateTemp(d, ".studynotes-write-test-*")
	if err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}

// Dir returns the configuration directory path.
func Dir() (string, error) {
	return dir()
}
