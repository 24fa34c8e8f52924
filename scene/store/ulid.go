// ABOUTME: ULID generation for document ids and save revisions.
// ABOUTME: Uses crypto/rand entropy so ids are unique across processes.
package store

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// NewRevision returns a fresh ULID string.
func NewRevision() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
