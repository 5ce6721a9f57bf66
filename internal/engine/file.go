package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/nholding/kundli-view/internal/apperrors"
	chart "github.com/nholding/kundli-view/internal/chart/domain"
)

// FileEngine replays a result the engine printed earlier. The birth data is
// ignored; it exists for offline rendering and fixtures.
type FileEngine struct {
	Path string
}

// ComputeChart decodes the file at e.Path.
func (e *FileEngine) ComputeChart(ctx context.Context, _ BirthData) (*chart.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewEngineError("open", err)
	}

	f, err := os.Open(e.Path)
	if err != nil {
		return nil, apperrors.NewEngineError("open", err)
	}
	defer f.Close()

	res, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("replaying %s: %w", e.Path, err)
	}
	return res, nil
}
