package pipeline

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// NewScratch creates a per-run scratch directory for staged inputs and
// intermediate overlays. The cleanup func removes it; pass keep=true to
// leave it behind for debugging.
func NewScratch(base string, keep bool) (string, func(), error) {
	if base != "" {
		if err := os.MkdirAll(base, 0o755); err != nil {
			return "", nil, eris.Wrapf(err, "pipeline: create scratch base %s", base)
		}
	}

	dir, err := os.MkdirTemp(base, "poemtok-")
	if err != nil {
		return "", nil, eris.Wrap(err, "pipeline: create scratch dir")
	}

	cleanup := func() {
		if keep {
			zap.L().Info("keeping scratch dir", zap.String("dir", dir))
			return
		}
		if err := os.RemoveAll(dir); err != nil {
			zap.L().Warn("failed to remove scratch dir",
				zap.String("dir", dir),
				zap.Error(err),
			)
		}
	}
	return dir, cleanup, nil
}
