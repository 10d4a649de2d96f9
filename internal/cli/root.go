// Package cli provides the command-line interface for gitask.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/runoshun/gitask/internal/app"
	"github.com/runoshun/gitask/internal/domain"
)

// Command group IDs.
const (
	groupWorkflow = "workflow"
	groupSetup    = "setup"
)

// NewRootCommand creates the root command for gitask.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:   "gitask",
		Short: "Move tickets through their workflow and open pull requests",
		Long: `gitask keeps your ticket tracker in step with your git work.

Each workflow command resolves the ticket you are working on with the
configured current-ticket script, moves it to the first reachable status
configured for that phase, and runs the pre/post hooks configured for
the command. submit-to-review also opens a merge request for the
current branch.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "Log to stderr and print full error details")

	root.AddGroup(
		&cobra.Group{ID: groupWorkflow, Title: "Workflow Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	// Workflow commands
	openCmd := newTransitionCommand(c, domain.ActionOpen, domain.PhaseToDo,
		"Move the current ticket back to to-do")
	openCmd.GroupID = groupWorkflow

	startCmd := newTransitionCommand(c, domain.ActionStartWorking, domain.PhaseInProgress,
		"Move the current ticket to in-progress")
	startCmd.GroupID = groupWorkflow

	submitCmd := newSubmitToReviewCommand(c)
	submitCmd.GroupID = groupWorkflow

	doneCmd := newTransitionCommand(c, domain.ActionDone, domain.PhaseDone,
		"Move the current ticket to done")
	doneCmd.GroupID = groupWorkflow

	// Setup commands
	configureCmd := newConfigureCommand(c)
	configureCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	root.AddCommand(
		openCmd,
		startCmd,
		submitCmd,
		doneCmd,
		configureCmd,
		configCmd,
	)

	return root
}

// HasDebugFlag reports whether args request debug output.
// main needs this before cobra parses flags to build the logger.
func HasDebugFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "--debug" || arg == "--debug=true" {
			return true
		}
	}
	return false
}
