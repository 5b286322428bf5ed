// Package driver executes the version-control executable against a
// working directory and hands its captured stdout back for parsing.
package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/deployrt/scmcore/internal/observability"
	apperrors "github.com/deployrt/scmcore/pkg/errors"
)

// Driver is the minimal command-execution contract the rest of the
// core depends on. Implementations perform their own argument
// escaping; the core only ever passes already-split argv slices.
type Driver interface {
	Execute(ctx context.Context, workingDir string, args ...string) (string, error)
}

// ExecDriver runs the real executable via os/exec, forcing an
// invariant locale into the child environment so the tool's textual
// output (commit dates in particular) always uses the fixed English
// month/day-of-week abbreviations the parser expects.
type ExecDriver struct {
	// ExecutablePath is the binary to invoke, e.g. "git".
	ExecutablePath string
	// LocaleOverride, when non-empty, replaces the invariant "C" locale
	// forced onto the child process's LC_ALL/LANG. Leave empty in
	// production.
	LocaleOverride string
}

// NewExecDriver returns a Driver that shells out to executablePath,
// forcing the invariant "C" locale unless localeOverride is set.
func NewExecDriver(executablePath, localeOverride string) *ExecDriver {
	return &ExecDriver{ExecutablePath: executablePath, LocaleOverride: localeOverride}
}

// Execute runs the executable with args in workingDir and returns its
// stdout. A non-zero exit is reported as ErrDriverFailed with stderr
// attached for diagnostics.
func (d *ExecDriver) Execute(ctx context.Context, workingDir string, args ...string) (string, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, d.ExecutablePath, args...)
	cmd.Dir = workingDir
	cmd.Env = d.invariantLocaleEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		observability.RecordDriverInvocation(time.Since(start), true)
		op := strings.Join(args, " ")
		if ctx.Err() != nil {
			return "", apperrors.GitError(op, fmt.Errorf("%w: %v", apperrors.ErrDriverFailed, ctx.Err()))
		}
		return "", apperrors.GitError(op, fmt.Errorf("%w: %v: %s", apperrors.ErrDriverFailed, err, stderr.String()))
	}

	observability.RecordDriverInvocation(time.Since(start), false)
	return stdout.String(), nil
}

// invariantLocaleEnv copies the current process environment and
// overrides LC_ALL/LANG so the child process's locale-sensitive output
// is deterministic regardless of the host's configured locale. When
// LocaleOverride is set, it replaces "C" as the forced locale, letting
// tests exercise non-invariant-locale failure modes deliberately.
func (d *ExecDriver) invariantLocaleEnv() []string {
	locale := "C"
	if d.LocaleOverride != "" {
		locale = d.LocaleOverride
	}

	env := os.Environ()
	filtered := make([]string, 0, len(env)+2)
	for _, kv := range env {
		if strings.HasPrefix(kv, "LC_ALL=") || strings.HasPrefix(kv, "LANG=") {
			continue
		}
		filtered = append(filtered, kv)
	}
	filtered = append(filtered, "LC_ALL="+locale, "LANG="+locale)
	return filtered
}
