package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/devbush/yt2transcript/internal/config"
)

// NewConfigCmd creates the config subcommand
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		RunE:  runConfigShow,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings (API key redacted)",
		RunE:  runConfigShow,
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Long:  "Change a setting. Valid keys: " + strings.Join(config.Keys, ", "),
		Args:  cobra.ExactArgs(2),
		RunE:  runConfigSet,
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	}

	cmd.AddCommand(showCmd, setCmd, pathCmd)
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(appFS, configPath())
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, string(data))

	_, source := cfg.ResolveAPIKey(apiKeyFlag, os.Getenv)
	if source == config.KeySourceAbsent {
		fmt.Fprintln(out, "# api key: not set")
	} else {
		fmt.Fprintf(out, "# api key from: %s\n", source)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := configPath()
	cfg, err := config.Load(appFS, path)
	if err != nil {
		return err
	}

	if err := cfg.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := cfg.Save(appFS, path); err != nil {
		return err
	}

	value := args[1]
	if args[0] == "api.key" {
		value = config.RedactKey(value)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], value)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), configPath())
	return nil
}
