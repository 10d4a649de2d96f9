package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/runoshun/gitask/internal/domain"
	"github.com/runoshun/gitask/internal/infra/executor"
	"github.com/runoshun/gitask/internal/testutil"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows")
	}
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func newTestRunner(stdout, stderr *bytes.Buffer) *Runner {
	return NewRunner(
		executor.NewClient(),
		domain.Credentials{URL: "https://jira.example.com", Token: "pmt-tok"},
		domain.Credentials{URL: "https://gitlab.example.com", Token: "git-tok"},
		stdout, stderr,
	)
}

func TestRunner_Run_ShellScript(t *testing.T) {
	skipOnWindows(t)

	// Setup
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	script := writeScript(t, dir, "pre.sh", `printf '%s\n' "$@" > `+argsFile+`
echo "hook says hi"
echo "hook warns" >&2
`)
	var stdout, stderr bytes.Buffer
	runner := newTestRunner(&stdout, &stderr)

	// Execute
	err := runner.Run(context.Background(), domain.HookInvocation{
		Action:     domain.ActionStartWorking,
		Phase:      domain.HookPre,
		ScriptPath: script,
		TicketID:   "PROJ-9",
		Params:     domain.NewHookParams(nil, nil),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "hook says hi\n", stdout.String())
	assert.Equal(t, "hook warns\n", stderr.String())

	content, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"--pmt-url=https://jira.example.com",
		"--pmt-token=pmt-tok",
		"--git-url=https://gitlab.example.com",
		"--git-token=git-tok",
		"--issue-key=PROJ-9",
	}, strings.Split(strings.TrimSpace(string(content)), "\n"))
}

func TestRunner_Run_PythonScriptGetsCommandParams(t *testing.T) {
	skipOnWindows(t)

	// Setup: run the .py file with bash so the test does not depend on python.
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	script := writeScript(t, dir, "post.py", `printf '%s\n' "$@" > `+argsFile+"\n")
	var stdout, stderr bytes.Buffer
	runner := newTestRunner(&stdout, &stderr).WithInterpreters("bash", "")

	// Execute
	err := runner.Run(context.Background(), domain.HookInvocation{
		Action:     domain.ActionSubmitToReview,
		Phase:      domain.HookPost,
		ScriptPath: script,
		TicketID:   "PROJ-9",
		Params:     domain.NewHookParams(nil, map[string]any{"title": "Fix it", "pr_only": false}),
	})

	// Assert
	require.NoError(t, err)
	content, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 6)

	last := lines[5]
	require.True(t, strings.HasPrefix(last, "--command-params="))
	var params map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(last, "--command-params=")), &params))
	assert.Equal(t, "Fix it", params["title"])
	assert.Equal(t, false, params["pr_only"])
	assert.Equal(t, []any{}, params["args"])
}

func TestRunner_Run_Errors(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	failing := writeScript(t, dir, "fail.sh", "exit 3\n")
	exits126 := writeScript(t, dir, "exits126.sh", "exit 126\n")
	unsupported := writeScript(t, dir, "hook.rb", "puts 1\n")

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing script", filepath.Join(dir, "nope.sh"), domain.ErrHookNotFound},
		{"directory", dir, domain.ErrHookNotFound},
		{"unsupported extension", unsupported, domain.ErrUnsupportedHookType},
		{"non-zero exit", failing, domain.ErrHookExecutionFailed},
		{"script exiting 126", exits126, domain.ErrHookExecutionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := newTestRunner(&stdout, &stderr).Run(context.Background(), domain.HookInvocation{
				Action:     domain.ActionOpen,
				Phase:      domain.HookPre,
				ScriptPath: tt.path,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr == domain.ErrHookExecutionFailed {
				assert.NotErrorIs(t, err, domain.ErrHookPermissionDenied)
			}
		})
	}
}

func TestRunner_Run_UnreadableScript(t *testing.T) {
	skipOnWindows(t)
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}

	dir := t.TempDir()
	script := writeScript(t, dir, "secret.sh", "echo hi\n")
	require.NoError(t, os.Chmod(script, 0o000))
	t.Cleanup(func() { _ = os.Chmod(script, 0o600) })

	var stdout, stderr bytes.Buffer
	err := newTestRunner(&stdout, &stderr).Run(context.Background(), domain.HookInvocation{ScriptPath: script})

	assert.ErrorIs(t, err, domain.ErrHookPermissionDenied)
}

func TestRunner_Run_InterpreterMissing(t *testing.T) {
	// Setup
	dir := t.TempDir()
	script := writeScript(t, dir, "pre.sh", "echo hi\n")
	exec := &testutil.MockCommandExecutor{ExecuteErr: assert.AnError}
	runner := NewRunner(exec, domain.Credentials{}, domain.Credentials{}, nil, nil)

	// Execute
	err := runner.Run(context.Background(), domain.HookInvocation{ScriptPath: script, TicketID: "A-1"})

	// Assert
	assert.ErrorIs(t, err, domain.ErrHookExecutionFailed)
	require.NotNil(t, exec.ExecutedCmd)
	assert.Equal(t, "bash", exec.ExecutedCmd.Program)
	assert.Equal(t, script, exec.ExecutedCmd.Args[0])
	assert.Contains(t, exec.ExecutedCmd.Args, "--issue-key=A-1")
}

func TestRunner_Run_RecordsSpan(t *testing.T) {
	skipOnWindows(t)

	// Setup
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	dir := t.TempDir()
	ok := writeScript(t, dir, "ok.sh", "exit 0\n")
	bad := writeScript(t, dir, "bad.sh", "exit 1\n")
	var stdout, stderr bytes.Buffer
	runner := newTestRunner(&stdout, &stderr).WithTracerProvider(tp)

	// Execute
	require.NoError(t, runner.Run(context.Background(), domain.HookInvocation{
		Action: domain.ActionDone, Phase: domain.HookPre, ScriptPath: ok, TicketID: "A-1",
	}))
	require.Error(t, runner.Run(context.Background(), domain.HookInvocation{
		Action: domain.ActionDone, Phase: domain.HookPost, ScriptPath: bad, TicketID: "A-1",
	}))

	// Assert
	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "hook.exec", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)

	attrs := map[string]string{}
	for _, kv := range spans[1].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, domain.ActionDone, attrs["hook.action"])
	assert.Equal(t, domain.HookPost, attrs["hook.phase"])
	assert.Equal(t, "A-1", attrs["gitask.ticket"])
	assert.Equal(t, "1", attrs["hook.exit_code"])
}
