package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nholding/kundli-view/internal/apperrors"
	chart "github.com/nholding/kundli-view/internal/chart/domain"
)

// ExecEngine runs an engine executable once per chart. The birth data is
// passed as flags and the result is read as JSON from stdout.
type ExecEngine struct {
	Path string
	// Args are placed before the birth-data flags.
	Args []string
	// Env is appended to the current process environment.
	Env []string
	Log zerolog.Logger
}

// NewExecEngine returns an ExecEngine for the executable at path.
func NewExecEngine(path string, log zerolog.Logger) *ExecEngine {
	return &ExecEngine{
		Path: path,
		Log:  log.With().Str("component", "engine").Logger(),
	}
}

func (e *ExecEngine) buildArgs(in BirthData) []string {
	args := make([]string, 0, len(e.Args)+18)
	args = append(args, e.Args...)
	return append(args, in.args()...)
}

// ComputeChart runs the engine and decodes its output.
func (e *ExecEngine) ComputeChart(ctx context.Context, in BirthData) (*chart.Result, error) {
	args := e.buildArgs(in)

	cmd := exec.CommandContext(ctx, e.Path, args...)
	cmd.Env = append(os.Environ(), e.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.Log.Debug().Str("path", e.Path).Strs("args", args).Msg("running chart engine")

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		e.Log.Error().Err(err).Str("stderr", msg).Msg("chart engine failed")
		if msg != "" {
			return nil, apperrors.NewEngineError("run", fmt.Errorf("%w: %s", err, msg))
		}
		return nil, apperrors.NewEngineError("run", err)
	}

	res, err := Decode(&stdout)
	if err != nil {
		e.Log.Error().Err(err).Int("bytes", stdout.Len()).Msg("chart engine output rejected")
		return nil, err
	}
	return res, nil
}

// Validate checks that the engine executable can be found.
func (e *ExecEngine) Validate() error {
	if _, err := exec.LookPath(e.Path); err != nil {
		return fmt.Errorf("chart engine not found at %q: %w", e.Path, err)
	}
	return nil
}
