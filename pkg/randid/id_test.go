package randid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGUID(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{32}$`)

	a, b := GUID(), GUID()
	assert.Regexp(t, pattern, a)
	assert.Regexp(t, pattern, b)
	assert.NotEqual(t, a, b)
}

func TestGUID_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		seen[GUID()] = true
	}

	assert.Len(t, seen, 100, "GUID produced duplicates in 100 calls")
}
