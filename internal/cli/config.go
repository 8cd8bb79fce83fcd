package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/alnah/studynotes/internal/config"
	"github.com/alnah/studynotes/internal/llm"
	"github.com/alnah/studynotes/internal/logger"
	"github.com/alnah/studynotes/internal/render"
)

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/studynotes/config.
Settings can also be overridden via environment variables.

Supported settings:
  output-dir    Default directory for output files (env: STUDYNOTES_OUTPUT_DIR)
  provider      Model provider: gemini, openai, deepseek (env: STUDYNOTES_PROVIDER)
  model         Model name for the provider (env: STUDYNOTES_MODEL)
  pdf-engine    Path to weasyprint or wkhtmltopdf (env: STUDYNOTES_PDF_ENGINE)
  log-level     debug, info, warn, error (env: STUDYNOTES_LOG_LEVEL)
  theme         YAML theme file (env: STUDYNOTES_THEME)`,
		Example: `  studynotes config set output-dir ~/Documents/notes
  studynotes config set provider deepseek
  studynotes config get provider
  studynotes config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Values are validated before they are saved: output-dir must be a writable
directory (created if missing), provider must be known, theme must parse.`,
		Example: `  studynotes config set output-dir ~/Documents/notes
  studynotes config set log-level debug`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  studynotes config get output-dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable overrides.`,
		Example: `  studynotes config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if err := config.CheckKey(key); err != nil {
		return err
	}

	// Key-specific validation.
	switch key {
	case config.KeyOutputDir:
		expanded := config.ExpandPath(value)
		if err := config.ValidOutputDir(expanded); err != nil {
			return fmt.Errorf("invalid output-dir: %w", err)
		}
		value = expanded
	case config.KeyProvider:
		if _, err := llm.ParseProvider(value); err != nil {
			return err
		}
	case config.KeyLogLevel:
		if !logger.ValidLevel(value) {
			return fmt.Errorf("invalid log-level %q (use debug, info, warn or error)", value)
		}
	case config.KeyTheme:
		expanded := config.ExpandPath(value)
		if _, err := render.LoadTheme(expanded); err != nil {
			return fmt.Errorf("invalid theme: %w", err)
		}
		value = expanded
	}

	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if err := config.CheckKey(key); err != nil {
		return err
	}

	value, err := config.Get(key)
	if err != nil {
		return err
	}

	// Check environment variable fallback.
	if value == "" {
		value = env.Getenv(config.EnvVar(key))
	}

	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}

	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	// Add environment variable values for completeness.
	for _, key := range config.Keys() {
		if _, ok := data[key]; ok {
			continue
		}
		if envVal := env.Getenv(config.EnvVar(key)); envVal != "" {
			data[key] = envVal + " (from env)"
		}
	}

	if len(data) == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range config.Keys() {
			fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	for _, key := range slices.Sorted(maps.Keys(data)) {
		fmt.Fprintf(env.Stdout, "%s=%s\n", key, data[key])
	}

	return nil
}
