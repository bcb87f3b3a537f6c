package video

import (
	"context"
	"fmt"
	"os/exec"
)

// Runner invokes the external rendering tool. Commands are always structured
// argument lists, never shell strings. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	LookPath(name string) error
}

type execRunner struct{}

// NewExecRunner returns the exec-backed Runner used in production
func NewExecRunner() Runner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, tail(out, 300))
	}
	return nil
}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (execRunner) LookPath(name string) error {
	_, err := exec.LookPath(name)
	return err
}

func tail(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[len(b)-n:])
}

// RenderError marks a terminal rendering failure: every candidate command
// for the named step was attempted and the last one failed with Err.
type RenderError struct {
	Step string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render step %s failed: %v", e.Step, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
