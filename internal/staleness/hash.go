// Package staleness computes content digests of pipeline input files so
// already-processed maps can be skipped when nothing changed.
package staleness

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// HashFile returns the hex BLAKE2b-256 digest of the file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("creating hasher: %w", err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashFiles digests every path, keyed by path. Missing files are reported,
// not skipped: a vanished input means the map must be reprocessed anyway,
// and the caller decides that.
func HashFiles(paths []string) (map[string]string, error) {
	digests := make(map[string]string, len(paths))
	for _, p := range paths {
		d, err := HashFile(p)
		if err != nil {
			return nil, err
		}
		digests[p] = d
	}
	return digests, nil
}
