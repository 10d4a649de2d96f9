package resolver

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/runoshun/gitask/internal/domain"
	"github.com/runoshun/gitask/internal/infra/executor"
	"github.com/runoshun/gitask/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellResolver_Resolve(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows")
	}

	tests := []struct {
		name    string
		script  string
		want    string
		wantErr error
	}{
		{"trims output", "printf '  PROJ-42 \\n'", "PROJ-42", nil},
		{"empty output", "true", "", domain.ErrEmptyTicket},
		{"whitespace output", "echo '   '", "", domain.ErrEmptyTicket},
		{"failing script", "echo nope >&2; exit 2", "", domain.ErrTicketResolution},
		{"no script", "", "", domain.ErrConfiguration},
		{"multiple lines", "printf 'A-1\\nA-2\\n'", "", domain.ErrInvalidTicket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(executor.NewClient(), tt.script, t.TempDir())

			got, err := r.Resolve(context.Background())

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShellResolver_StderrInError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows")
	}

	r := New(executor.NewClient(), "echo 'no branch' >&2; exit 1", "")

	_, err := r.Resolve(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no branch")
}

func TestShellResolver_Memoized(t *testing.T) {
	// Setup
	exec := &testutil.MockCommandExecutor{Output: []byte("ABC-1\n")}
	r := New(exec, "whatever", "")

	// Execute
	first, err := r.Resolve(context.Background())
	require.NoError(t, err)
	second, err := r.Resolve(context.Background())
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "ABC-1", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, exec.ExecuteCount)
	require.NotNil(t, exec.ExecutedCmd)
	assert.Equal(t, "sh", exec.ExecutedCmd.Program)
	assert.Equal(t, []string{"-c", "whatever"}, exec.ExecutedCmd.Args)
}

func TestShellResolver_MemoizesFailure(t *testing.T) {
	exec := &testutil.MockCommandExecutor{Output: []byte("")}
	r := New(exec, "whatever", "")

	_, err1 := r.Resolve(context.Background())
	_, err2 := r.Resolve(context.Background())

	assert.ErrorIs(t, err1, domain.ErrEmptyTicket)
	assert.ErrorIs(t, err2, domain.ErrEmptyTicket)
	assert.Equal(t, 1, exec.ExecuteCount)
}
