// Package hooks runs user-configured pre/post scripts around workflow commands.
package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/runoshun/gitask/internal/domain"
)

const tracerName = "github.com/runoshun/gitask/hooks"

// Runner implements domain.HookRunner by invoking scripts through an interpreter
// chosen from the file extension.
type Runner struct {
	executor       domain.CommandExecutor
	tracerProvider trace.TracerProvider
	stdout         io.Writer
	stderr         io.Writer
	pmt            domain.Credentials
	git            domain.Credentials
	python         string
	bash           string
}

// Ensure Runner implements domain.HookRunner interface.
var _ domain.HookRunner = (*Runner)(nil)

// NewRunner creates a Runner that passes the given credentials to every script.
// Script output is streamed to stdout and stderr.
func NewRunner(executor domain.CommandExecutor, pmt, git domain.Credentials, stdout, stderr io.Writer) *Runner {
	return &Runner{
		executor: executor,
		pmt:      pmt,
		git:      git,
		stdout:   stdout,
		stderr:   stderr,
		python:   "python3",
		bash:     "bash",
	}
}

// WithTracerProvider sets the tracer provider used for hook spans.
func (r *Runner) WithTracerProvider(tp trace.TracerProvider) *Runner {
	r.tracerProvider = tp
	return r
}

// WithInterpreters overrides the python and bash executables.
func (r *Runner) WithInterpreters(python, bash string) *Runner {
	if python != "" {
		r.python = python
	}
	if bash != "" {
		r.bash = bash
	}
	return r
}

func (r *Runner) tracer() trace.Tracer {
	if r.tracerProvider != nil {
		return r.tracerProvider.Tracer(tracerName)
	}
	return otel.Tracer(tracerName)
}

// Run executes the hook script synchronously.
func (r *Runner) Run(ctx context.Context, inv domain.HookInvocation) (retErr error) {
	ctx, span := r.tracer().Start(ctx, "hook.exec",
		trace.WithAttributes(
			attribute.String("hook.action", inv.Action),
			attribute.String("hook.phase", inv.Phase),
			attribute.String("hook.path", inv.ScriptPath),
			attribute.String("gitask.ticket", inv.TicketID),
		),
	)
	defer func() {
		if retErr != nil {
			span.RecordError(retErr)
			span.SetStatus(codes.Error, retErr.Error())
		}
		span.End()
	}()

	cmd, err := r.buildCommand(inv)
	if err != nil {
		return err
	}

	err = r.executor.ExecuteWithContext(ctx, cmd, r.stdout, r.stderr)
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		span.SetAttributes(attribute.Int("hook.exit_code", exitErr.ExitCode()))
		return fmt.Errorf("%w: %s %s hook %s exited with status %d",
			domain.ErrHookExecutionFailed, inv.Action, inv.Phase, inv.ScriptPath, exitErr.ExitCode())
	}
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %s: %w", domain.ErrHookPermissionDenied, inv.ScriptPath, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrHookExecutionFailed, inv.ScriptPath, err)
}

// buildCommand validates the script and assembles interpreter argv.
func (r *Runner) buildCommand(inv domain.HookInvocation) (*domain.ExecCommand, error) {
	path := inv.ScriptPath
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrHookNotFound, path)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrHookPermissionDenied, path, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrHookExecutionFailed, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrHookNotFound, path)
	}

	var program string
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".py":
		program = r.python
	case ".sh":
		program = r.bash
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedHookType, path)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrHookPermissionDenied, path, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrHookExecutionFailed, path, err)
	}
	_ = f.Close()

	args := []string{
		path,
		"--pmt-url=" + r.pmt.URL,
		"--pmt-token=" + r.pmt.Token,
		"--git-url=" + r.git.URL,
		"--git-token=" + r.git.Token,
		"--issue-key=" + inv.TicketID,
	}
	if ext == ".py" {
		params := inv.Params
		if params == nil {
			params = domain.NewHookParams(nil, nil)
		}
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encode hook params: %w", err)
		}
		args = append(args, "--command-params="+string(encoded))
	}

	return domain.NewCommand(program, args, ""), nil
}
