// Package idhash computes deterministic identifiers for preview output.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ComputePreviewDigest hashes the preview files in order.
// Formula: SHA256(base(path_1)|content_1|...|base(path_n)|content_n)
// Returns hex-encoded hash (64 characters). Two runs over the same inputs with
// the same row limit produce the same digest regardless of output directory.
func ComputePreviewDigest(paths []string) (string, error) {
	h := sha256.New()
	for _, path := range paths {
		if err := hashFile(h, path); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open preview %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintf(w, "%s|", filepath.Base(path))
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("hash preview %s: %w", path, err)
	}
	io.WriteString(w, "|")
	return nil
}
