package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/gitask/internal/app"
	"github.com/runoshun/gitask/internal/domain"
	"github.com/runoshun/gitask/internal/usecase"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigTemplateCommand(c))
	cmd.AddCommand(newConfigPathCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	var format string
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective configuration, including credentials read
from the environment. Tokens are masked unless --reveal is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{Reveal: reveal})
			if err != nil {
				return err
			}
			printHint(cmd.ErrOrStderr(), "# "+out.Path)
			return writeConfig(cmd.OutOrStdout(), out.Config, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, toml or yaml")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print tokens unmasked")

	return cmd
}

// newConfigTemplateCommand creates the config template subcommand.
func newConfigTemplateCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print the configuration template",
		Long:  `Print the template written by "gitask configure" without touching any file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowConfigTemplateUseCase().Execute(cmd.Context(), usecase.ShowConfigTemplateInput{})
			if err != nil {
				return err
			}
			if format == "json" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Template)
				return nil
			}
			return writeConfig(cmd.OutOrStdout(), out.Config, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, toml or yaml")

	return cmd
}

// newConfigPathCommand creates the config path subcommand.
func newConfigPathCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), c.ConfigLoader.Path())
			return nil
		},
	}
}

func writeConfig(w io.Writer, cfg *domain.Config, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "toml":
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(cfg)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (supported: json, toml, yaml)", format)
	}
}
