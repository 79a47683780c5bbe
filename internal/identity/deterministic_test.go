package identity

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestPostUUIDIsStable(t *testing.T) {
	first := PostUUID("2024-05-25-part-1")
	second := PostUUID("2024-05-25-part-1")
	if first == uuid.Nil {
		t.Fatalf("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected stable uuid, got %s and %s", first, second)
	}
	if other := PostUUID("2024-05-26-part-2"); other == first {
		t.Fatalf("expected distinct ids to produce distinct uuids")
	}
}

func TestPostURN(t *testing.T) {
	urn := PostURN("2024-05-25-part-1")
	if !strings.HasPrefix(urn, "urn:uuid:") {
		t.Fatalf("expected urn prefix, got %q", urn)
	}
	if PostURN("  ") != "" {
		t.Fatalf("expected empty urn for blank id")
	}
}

func TestShortHash(t *testing.T) {
	hash := ShortHash("日本語")
	if len(hash) != 8 {
		t.Fatalf("expected 8 characters, got %q", hash)
	}
	if hash != ShortHash("日本語") {
		t.Fatalf("expected deterministic hash")
	}
}
