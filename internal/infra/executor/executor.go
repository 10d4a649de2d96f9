// Package executor provides command execution functionality.
package executor

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/runoshun/gitask/internal/domain"
)

// Client implements domain.CommandExecutor interface.
type Client struct{}

// NewClient creates a new command executor client.
func NewClient() *Client {
	return &Client{}
}

// Ensure Client implements domain.CommandExecutor interface.
var _ domain.CommandExecutor = (*Client)(nil)

// Execute runs the command and returns its standard output.
// On a non-zero exit the error is an *exec.ExitError whose Stderr is populated.
func (c *Client) Execute(ctx context.Context, cmd *domain.ExecCommand) ([]byte, error) {
	// #nosec G204 - cmd.Program and cmd.Args come from user configuration by design of the tool
	execCmd := c.build(ctx, cmd)
	return execCmd.Output()
}

// ExecuteWithContext runs a command with context and custom stdout/stderr writers.
func (c *Client) ExecuteWithContext(ctx context.Context, cmd *domain.ExecCommand, stdout, stderr io.Writer) error {
	execCmd := c.build(ctx, cmd)
	execCmd.Stdout = stdout
	execCmd.Stderr = stderr
	return execCmd.Run()
}

func (c *Client) build(ctx context.Context, cmd *domain.ExecCommand) *exec.Cmd {
	// #nosec G204 - cmd.Program and cmd.Args come from trusted UseCase code
	execCmd := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	if cmd.Dir != "" {
		execCmd.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		execCmd.Env = append(os.Environ(), cmd.Env...)
	}
	return execCmd
}
