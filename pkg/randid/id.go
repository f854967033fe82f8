// Package randid generates random identifiers.
package randid

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// GUID returns a random (version 4) UUID as 32 lowercase hex characters, the
// format Unity writes to .meta files.
func GUID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
