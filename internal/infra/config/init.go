package config

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/ports"
)

//go:embed templates/studytrack.yaml
var templatesFS embed.FS

type Initializer struct{}

func NewInitializer() *Initializer {
	return &Initializer{}
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init writes a starter studytrack.yaml and .gitignore entries into root.
// An existing config is kept unless force is set.
func (i *Initializer) Init(root string, force bool) error {
	root = filepath.Clean(root)
	if err := os.MkdirAll(filepath.Join(root, ".studytrack", "logs"), 0o755); err != nil {
		return &domain.OpError{Op: "config.init", Kind: domain.KindStorage, Path: root, Err: err}
	}

	dst := filepath.Join(root, FileName)
	if !force {
		if _, err := os.Stat(dst); err == nil {
			return &domain.OpError{
				Op:   "config.init",
				Kind: domain.KindConflict,
				Path: dst,
				Err:  fmt.Errorf("%s already exists (use --force to overwrite): %w", FileName, fs.ErrExist),
			}
		}
	}

	b, err := fs.ReadFile(templatesFS, "templates/"+FileName)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, b, 0o644); err != nil {
		return &domain.OpError{Op: "config.init", Kind: domain.KindStorage, Path: dst, Err: err}
	}

	return ensureGitignore(root)
}

func ensureGitignore(root string) error {
	const header = "# studytrack"
	entries := []string{
		".studytrack/",
		".env",
	}

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			present[trimmed] = true
		}
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}
