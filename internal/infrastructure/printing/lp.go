// Package printing dispatches generated invoices to the local print
// spooler.
package printing

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/outvoice/backend/internal/domain/shared"
)

const (
	defaultBinary  = "lp"
	defaultTimeout = 30 * time.Second
)

// LpDispatcher submits files to the system print spooler via the lp
// command. The job is handed off to the spooler; completion of the
// physical print is not tracked.
type LpDispatcher struct {
	binaryPath string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewLpDispatcher creates a dispatcher for the given spooler binary.
// A bare binary name is resolved via PATH at dispatch time.
func NewLpDispatcher(binary string, timeout time.Duration, logger *zap.Logger) *LpDispatcher {
	if binary == "" {
		binary = defaultBinary
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &LpDispatcher{
		binaryPath: binary,
		timeout:    timeout,
		logger:     logger.Named("printing"),
	}
}

// Print submits the file at path to the spooler.
func (d *LpDispatcher) Print(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return shared.NewDomainError("DELIVERY_FAILED",
			fmt.Sprintf("File %q is not readable for printing: %v", path, err))
	}

	binary, err := d.resolveBinary()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, path)
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return shared.NewDomainError("DELIVERY_FAILED",
			fmt.Sprintf("Print dispatch failed: %s", detail))
	}

	d.logger.Info("Print job dispatched",
		zap.String("file", path),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// resolveBinary locates the spooler binary, via PATH for bare names.
func (d *LpDispatcher) resolveBinary() (string, error) {
	if strings.ContainsRune(d.binaryPath, os.PathSeparator) {
		if _, err := os.Stat(d.binaryPath); err != nil {
			return "", shared.NewDomainError("DELIVERY_FAILED",
				fmt.Sprintf("Print spooler binary %q is not available: %v", d.binaryPath, err))
		}
		return d.binaryPath, nil
	}

	resolved, err := exec.LookPath(d.binaryPath)
	if err != nil {
		return "", shared.NewDomainError("DELIVERY_FAILED",
			fmt.Sprintf("Print spooler binary %q not found in PATH: %v", d.binaryPath, err))
	}
	return resolved, nil
}
