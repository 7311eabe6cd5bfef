package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog/log"
)

// Read a whole file as a string.
func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Write text to path, creating missing parent directories first.
func writeFile(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(text)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Remove the output directory and create it again empty.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// Copy every file below src into dst, keeping the relative layout.
// A missing src is not an error.
func copyTree(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		log.Debug().Str("path", src).Msg("No static directory, skipping copy")
		return nil
	}

	return filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if f.IsDir() {
			return os.MkdirAll(target, os.ModePerm)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		log.Debug().Str("path", path).Str("target", target).Msg("Copying static file")
		return os.WriteFile(target, data, f.Mode().Perm())
	})
}
