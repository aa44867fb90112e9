// Package digest computes the BLAKE3 fingerprints that identify passages
// in the practice history.
package digest

import (
	"encoding/hex"
	"io"

	"github.com/zeebo/blake3"
)

// Size is the length in bytes of a fingerprint before hex encoding.
const Size = 32

// Bytes returns the hex-encoded BLAKE3-256 hash of data.
func Bytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Passage fingerprints a passage by its rendered reference and its text.
// The same passage loaded from a text file or an OSIS document yields the
// same fingerprint as long as both spell the reference the same way.
func Passage(reference, text string) string {
	h := blake3.New()
	// blake3.Hasher.Write never returns an error.
	_, _ = io.WriteString(h, reference)
	_, _ = io.WriteString(h, "\n")
	_, _ = io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil))
}

// Valid reports whether s looks like a fingerprint produced by this package.
func Valid(s string) bool {
	if len(s) != Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
