package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/specgen/internal/config"
	"github.com/conneroisu/specgen/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage specgen configuration",
	Long: `Manage the specgen configuration file.

This command provides subcommands for:
- Writing the default configuration
- Showing the effective configuration, defaults included
- Validating the configuration against its schema and the file system

Examples:
  specgen config init                       # Write .specgen.yml
  specgen config show --format json         # Show effective configuration
  specgen config validate                   # Validate current configuration
  specgen config validate --config ci.yml   # Validate a specific file`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var configShowFlags *OutputFlags

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configValidateCmd)

	configShowFlags = AddOutputFlags(configShowCmd, "yaml", "json")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPathOrDefault()
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	newPrinter(cmd.OutOrStdout()).success("Wrote default configuration to %s", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if err := ensureConfig(cmd); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if configShowFlags.Format == "json" {
		return writeJSON(w, cfg)
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := newPrinter(cmd.OutOrStdout())
	if !configLoaded {
		return errors.NewResourceMissingError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("no configuration file found (looked for %s)", configPathOrDefault()), nil)
	}

	schemaErrors, err := config.ValidateSchema(viper.AllSettings())
	if err != nil {
		return err
	}
	for _, msg := range schemaErrors {
		out.fail("✗ schema: %s", msg)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	details := config.ValidateConfigWithDetails(cfg)
	if report := strings.TrimSpace(details.String()); report != "" {
		fmt.Fprintln(cmd.OutOrStdout(), report)
	}

	if len(schemaErrors) > 0 || details.HasErrors() {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("configuration %s is invalid", viper.ConfigFileUsed()))
	}
	out.success("Configuration %s is valid", viper.ConfigFileUsed())
	return nil
}
