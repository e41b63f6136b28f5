package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// writeOutput writes data to path, creating parent directories
func writeOutput(fs afero.Fs, path, data string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := afero.WriteFile(fs, path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
