package remux

import (
	"context"

	"github.com/ytget/ytpick/internal/model"
)

// Remuxer defines the interface for the remux service.
type Remuxer interface {
	// Remux copies the streams of inputPath into container and returns the
	// new file path. The input file is removed on success.
	Remux(ctx context.Context, inputPath, container string, onProgress model.ProgressFunc) (string, error)
}
