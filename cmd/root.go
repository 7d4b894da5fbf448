package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/specgen/internal/config"
	"github.com/conneroisu/specgen/internal/errors"
	"github.com/conneroisu/specgen/internal/logging"
	"github.com/conneroisu/specgen/internal/services"
)

// configFileEnv names a configuration file outside the working directory.
const configFileEnv = "SPECGEN_CONFIG_FILE"

var (
	cfgFile string

	// configLoaded is set once viper has read a configuration file.
	configLoaded bool

	logger logging.Logger = logging.Discard()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "specgen",
	Short: "Generate and validate structured specification documents",
	Long: `specgen creates specification documents from MDX templates and checks
that templates and generated documents keep their required structure.

Key Features:
  • Placeholder substitution from flags, files or prompts
  • Structural validation of templates and specifications
  • Repair of legacy <!-- --> comment syntax
  • Template discovery and terminal preview

Quick Start:
  specgen init                         Create a configuration and starter templates
  specgen list                         Show configured template types
  specgen generate sprint sprint-1     Create a specification
  specgen validate all                 Check every template and specification

Command Aliases (for faster typing):
  generate (g), validate (v), list (l), watch (w)`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		errors.NewErrorHandler(logger).Handle(context.Background(), err)
		newPrinter(os.Stderr).fail("%s", errors.FormatError(err))
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .specgen.yml, can also use SPECGEN_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	AddFlagValidation(rootCmd.PersistentFlags(), "log-level", func(level string) error {
		_, err := logging.ParseLevel(level)
		return err
	})
	AddFlagValidation(rootCmd.PersistentFlags(), "log-format", func(format string) error {
		return ValidateChoice("log-format", format, []string{"text", "json"})
	})
}

// initConfig loads .env, then the configuration file.
//
// Configuration file priority (highest to lowest):
//  1. --config flag
//  2. SPECGEN_CONFIG_FILE environment variable
//  3. .specgen.yml in the current directory
//
// Every key can be overridden with a SPECGEN_ variable, for example
// SPECGEN_PATHS_OUTPUT_ROOT=build/specs.
func initConfig() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
		}
	}

	if path := configPath(); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(strings.TrimSuffix(config.DefaultFileName, ".yml"))
	}

	viper.SetEnvPrefix("SPECGEN")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		configLoaded = true
	}
}

// configPath returns the explicitly requested configuration file, if any.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return os.Getenv(configFileEnv)
}

func configPathOrDefault() string {
	if path := configPath(); path != "" {
		return path
	}
	return config.DefaultFileName
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid, err.Error())
	}

	logger = logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: viper.GetString("logging.format"),
		Output: os.Stderr,
	})
	return nil
}

// ensureConfig writes the default configuration when none was found and
// loads it, so a fresh directory works without running init first.
func ensureConfig(cmd *cobra.Command) error {
	if configLoaded {
		return nil
	}

	path := configPathOrDefault()
	switch err := config.WriteDefault(path); {
	case err == nil:
		newPrinter(cmd.ErrOrStderr()).info("Created default configuration at %s", path)
	case errors.IsOutputCollision(err):
	default:
		return err
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfigIncomplete, errors.ErrCodeConfigInvalid,
			"failed to read configuration").WithPath(path)
	}
	configLoaded = true
	return nil
}

// loadService builds the spec service for the active configuration.
func loadService(cmd *cobra.Command) (*services.SpecService, error) {
	if err := ensureConfig(cmd); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	return services.NewSpecService(cfg, logger)
}

// commandContext returns the context cobra attached to cmd, or a background one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
