// Package svgo adapts the external svgo optimizer as a pipeline stage. The
// binary is consumed as an opaque subprocess: SVG text on stdin, optimized
// SVG text on stdout, exit code zero on success. Its absence or failure is
// meant to be non-fatal; callers keep the previous content.
package svgo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// ErrNotFound is returned by Find when no svgo executable is in PATH.
var ErrNotFound = errors.New("svgo executable not found in PATH")

// ProcessError is returned when the subprocess fails to run, exits non-zero
// or times out.
type ProcessError struct {
	Err    error
	Stderr []byte
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	if len(e.Stderr) != 0 {
		return fmt.Sprintf("svgo: %v: %s", e.Err, bytes.TrimSpace(e.Stderr))
	}
	return "svgo: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// DefaultArgs make svgo read from stdin and write to stdout.
var DefaultArgs = []string{"--input", "-", "--output", "-"}

// Optimizer invokes an external optimizer binary over stdin/stdout.
type Optimizer struct {
	Path    string        // path to the executable
	Args    []string      // command line arguments
	Timeout time.Duration // kills the subprocess when exceeded, zero means no limit
}

// Find locates svgo in PATH.
func Find() (*Optimizer, error) {
	path, err := exec.LookPath("svgo")
	if err != nil {
		return nil, ErrNotFound
	}
	return &Optimizer{Path: path, Args: DefaultArgs}, nil
}

// Optimize runs the subprocess, feeding it r and writing its output to w.
// Output reaches w only when the subprocess exits with status zero.
func (o *Optimizer) Optimize(w io.Writer, r io.Reader) error {
	ctx := context.Background()
	if 0 < o.Timeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, o.Path, o.Args...)
	cmd.Stdin = r
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &ProcessError{err, stderr.Bytes()}
	}
	_, err := w.Write(stdout.Bytes())
	return err
}

// Bytes runs the subprocess over b.
func (o *Optimizer) Bytes(b []byte) ([]byte, error) {
	var w bytes.Buffer
	if err := o.Optimize(&w, bytes.NewReader(b)); err != nil {
		return b, err
	}
	return w.Bytes(), nil
}
