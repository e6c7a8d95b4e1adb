// Package fileid derives stable profile IDs for resume files.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "resume:"

// ResumeID returns a stable profile ID for the given absolute resume path.
// The same path always yields the same ID, so re-ingesting an updated resume
// replaces the profile it produced earlier.
func ResumeID(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:])
}
