package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/runoshun/gitask/internal/app"
	"github.com/runoshun/gitask/internal/domain"
	"github.com/runoshun/gitask/internal/usecase"
)

// newConfigureCommand creates the configure command.
func newConfigureCommand(c *app.Container) *cobra.Command {
	var autoComplete, force bool

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Create a configuration template",
		Long: fmt.Sprintf(`Create a configuration template.

The template is written to $%s, or to
$XDG_CONFIG_HOME/gitask/config.json when it is unset. Edit it to match
your tracker's statuses. Credentials are read from the environment:

  %s, %s, %s
  %s, %s

With --auto-complete, print how to enable shell completion instead.`,
			domain.EnvConfigPath,
			domain.EnvPMTURL, domain.EnvPMTToken, domain.EnvPMTUser,
			domain.EnvGitURL, domain.EnvGitToken),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if autoComplete {
				printCompletionHelp(w, cmd.Root().Name())
				return nil
			}

			out, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{Force: force})
			if errors.Is(err, domain.ErrConfigExists) {
				return fmt.Errorf("%w (use --force to overwrite)", err)
			}
			if err != nil {
				return err
			}

			printSuccess(w, "Created configuration template at "+out.Path)
			printHint(w, fmt.Sprintf("Set %s and %s before running workflow commands.", domain.EnvPMTToken, domain.EnvGitToken))
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoComplete, "auto-complete", false, "Print shell completion setup instructions")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	return cmd
}

func printCompletionHelp(w io.Writer, name string) {
	_, _ = fmt.Fprintf(w, `Enable shell completion by adding one of these to your shell profile:

  bash:  source <(%[1]s completion bash)
  zsh:   source <(%[1]s completion zsh)
  fish:  %[1]s completion fish | source
`, name)
}
