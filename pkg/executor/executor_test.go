package executor

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx := context.Background()
	e := New()

	tests := []struct {
		name       string
		script     string
		wantOut    string
		wantErrSub string
	}{
		{"stdout captured", "echo hello", "hello\n", ""},
		{"stderr in error", "echo broken >&2; exit 3", "", "broken"},
		{"no stderr", "exit 1", "", "command 'sh' failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.Execute(ctx, "sh", "-c", tt.script)
			if tt.wantErrSub != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErrSub) {
					t.Fatalf("Execute() error = %v, want containing %q", err, tt.wantErrSub)
				}
				var exitErr *exec.ExitError
				if !errors.As(err, &exitErr) {
					t.Errorf("Execute() error does not wrap *exec.ExitError: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if out != tt.wantOut {
				t.Errorf("Execute() = %q, want %q", out, tt.wantOut)
			}
		})
	}
}

func TestExecuteInDir(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()

	out, err := New().ExecuteInDir(context.Background(), dir, "sh", "-c", "pwd -P")
	if err != nil {
		t.Fatalf("ExecuteInDir() error = %v", err)
	}
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != want {
		t.Errorf("ExecuteInDir() ran in %q, want %q", got, want)
	}
}

func TestTail(t *testing.T) {
	if got := tail("abcdef", 3); got != "...def" {
		t.Errorf("tail() = %q, want %q", got, "...def")
	}
	if got := tail("ab", 3); got != "ab" {
		t.Errorf("tail() = %q, want %q", got, "ab")
	}
}
