package loyalty

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

// codeAlphabet holds the characters used in the random code suffix.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// codeSuffixLength is the number of random characters after the prefix.
const codeSuffixLength = 6

// newCode builds a pickup code of the form {CATEGORY}-{6 random uppercase
// alphanumerics}, e.g. "DISCOUNT-7KQ2M9". The prefix keeps only letters so
// the code stays uppercase-letters-dash-alphanumerics even when the stored
// category carries spaces or digits. Collisions within a store are handled
// by the caller retrying against the unique (store, code) index.
func newCode(category string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(category) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	prefix := b.String()
	if prefix == "" {
		prefix = "OTHER"
	}

	buf := make([]byte, codeSuffixLength)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return prefix + "-" + string(buf), nil
}
