package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"formctl/internal/model"
)

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteForm renders snap into <toDir>/<form-id>.md.
func WriteForm(snap model.Snapshot, toDir string, opt WriteOptions) (WriteResult, error) {
	formID := strings.TrimSpace(snap.FormID)
	if formID == "" {
		return WriteResult{}, errors.New("missing form id")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	outPath := filepath.Join(toDir, formID+".md")
	if err := writeFile(outPath, []byte(RenderFormMarkdown(snap)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
