package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Result is the outcome of a binary execution.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// DecodeJSON decodes the stdout JSON into v.
func (r Result) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Stdout, v); err != nil {
		return fmt.Errorf("invalid JSON output %q: %w", r.Stdout, err)
	}
	return nil
}

// Runner executes a binary with a fixed set of global arguments.
type Runner struct {
	Binary string
	// GlobalArgs are set before the command arguments.
	GlobalArgs []string
	// Env is added on top of the current environment, the last duplicated key wins.
	Env []string
}

// Run executes the binary with the arguments. A non zero exit code is returned as
// an error along the result.
func (r Runner) Run(ctx context.Context, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, r.Binary, append(append([]string{}, r.GlobalArgs...), args...)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = append(os.Environ(), r.Env...)

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, fmt.Errorf("exit code %d: %s", res.ExitCode, bytes.TrimSpace(res.Stderr))
	}
	if err != nil {
		return res, fmt.Errorf("could not run %s: %w", r.Binary, err)
	}

	return res, nil
}
