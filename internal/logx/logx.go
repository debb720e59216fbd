// Package logx wires the per-run project file logger.
package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/paths"
)

// New creates a logger writing to a timestamped file under the project logs
// directory, named after the command that produced it. The returned closer
// owns the file handle.
func New(pp paths.ProjectPaths, command string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(pp.LogsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create logs dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s.log", command, time.Now().Format("20060102-150405"))
	path := filepath.Join(pp.LogsDir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	logger := log.New(file, "", log.LstdFlags|log.Lmicroseconds)
	return logger, file, nil
}

// Nop returns a logger that discards everything.
func Nop() *log.Logger {
	return log.New(io.Discard, "", 0)
}
