package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PostUUID is the stable identity of a post, used as feed entry GUID.
func PostUUID(postID string) uuid.UUID {
	return UUID("go-folio:post:" + strings.TrimSpace(postID))
}

// PostURN renders PostUUID as an Atom/RSS friendly URN.
func PostURN(postID string) string {
	id := PostUUID(postID)
	if id == uuid.Nil {
		return ""
	}
	return id.URN()
}

// ShortHash returns the first eight hex characters of the key's UUID. It is
// used where a readable slug cannot be derived.
func ShortHash(key string) string {
	id := UUID("go-folio:slug:" + key)
	if id == uuid.Nil {
		return ""
	}
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
