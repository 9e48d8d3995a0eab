package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/ports"
)

// FileName is the config file searched for by Finder.
const FileName = "studytrack.yaml"

// Finder locates a studytrack root by searching for studytrack.yaml upward.
type Finder struct {
	ConfigFile string // defaults to "studytrack.yaml"
}

func NewFinder() *Finder {
	return &Finder{ConfigFile: FileName}
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "config.findroot",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("startDir is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "config.findroot",
			Kind: domain.KindInvalidConfig,
			Path: startDir,
			Err:  err,
		}
	}

	// A file path means its directory.
	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	name := f.ConfigFile
	if name == "" {
		name = FileName
	}

	cur := filepath.Clean(abs)
	for {
		if _, err := os.Stat(filepath.Join(cur, name)); err == nil {
			return cur, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &domain.OpError{
				Op:   "config.findroot",
				Kind: domain.KindNotFound,
				Path: abs,
				Err:  domain.ErrNotFound,
			}
		}
		cur = parent
	}
}
