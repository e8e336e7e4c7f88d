package mongo

import (
	"testing"

	"github.com/linkvault/linkvault/internal/core/domain"
)

func TestObjectIDs(t *testing.T) {
	ids := ObjectIDs{}

	a, b := ids.NewID(), ids.NewID()
	if a == b {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}
	if !ids.Valid(a) {
		t.Fatalf("expected generated id %s to be valid", a)
	}
	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		if ids.Valid(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}

func TestToMongoSections_RejectsForeignIDs(t *testing.T) {
	if _, err := toMongoSections(nil); err != nil {
		t.Fatalf("unexpected error for empty tree: %v", err)
	}

	sections := []domain.Section{{ID: "s1", Name: "Work"}}
	if _, err := toMongoSections(sections); err == nil {
		t.Fatalf("expected error for non-ObjectID section id")
	}

	id := ObjectIDs{}.NewID()
	sections = []domain.Section{{ID: id, Name: "Work", Links: []domain.Link{{ID: "l1"}}}}
	if _, err := toMongoSections(sections); err == nil {
		t.Fatalf("expected error for non-ObjectID link id")
	}
}

func TestMongoUser_ToDomainKeepsEmptyLinks(t *testing.T) {
	doc := mongoUser{Sections: []mongoSection{{Name: "Work"}}}
	u := doc.toDomain()
	if u.Sections[0].Links == nil {
		t.Fatalf("expected non-nil links slice")
	}
}
