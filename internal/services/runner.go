package services

import (
	"context"
	"io"
	"os/exec"
)

// Runner executes an external command and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands with os/exec. Process output goes to Output, or
// is discarded when Output is nil.
type ExecRunner struct {
	Output io.Writer
}

func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Output
	cmd.Stderr = r.Output
	return cmd.Run()
}
