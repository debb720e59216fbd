// Package media shells out to ffmpeg and inspects source files.
package media

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
)

// RunOptions adjust how an external command is executed.
type RunOptions struct {
	// Dir is the working directory. Relative paths inside concat lists
	// resolve against it.
	Dir string
	// Env entries are appended to the parent environment.
	Env []string
	// Stdout and Stderr, when set, receive that stream directly and the
	// matching RunResult field stays empty. Renders route ffmpeg chatter
	// to a log file this way instead of holding it in memory.
	Stdout io.Writer
	Stderr io.Writer
}

// RunResult holds whatever output was not already streamed via RunOptions.
type RunResult struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes external commands. Render and pipeline tests substitute a
// fake so no ffmpeg binary is needed.
type Runner interface {
	Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error)
}

// CmdRunner runs commands with os/exec.
type CmdRunner struct{}

var _ Runner = CmdRunner{}

func (CmdRunner) Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = pickWriter(opts.Stdout, &outBuf)
	cmd.Stderr = pickWriter(opts.Stderr, &errBuf)

	err := cmd.Run()
	return RunResult{Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes()}, err
}

func pickWriter(preferred io.Writer, fallback *bytes.Buffer) io.Writer {
	if preferred != nil {
		return preferred
	}
	return fallback
}
