package domain

import (
	"testing"
	"time"
)

func TestContentRecord_Resolvable(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		rec  ContentRecord
		want bool
	}{
		{
			name: "published with no window",
			rec:  ContentRecord{Status: StatusPublished},
			want: true,
		},
		{
			name: "published inside window",
			rec:  ContentRecord{Status: StatusPublished, PublishedAt: &past, ExpiresAt: &future},
			want: true,
		},
		{
			name: "draft is never resolvable",
			rec:  ContentRecord{Status: StatusDraft},
			want: false,
		},
		{
			name: "archived is never resolvable",
			rec:  ContentRecord{Status: StatusArchived},
			want: false,
		},
		{
			name: "not yet published",
			rec:  ContentRecord{Status: StatusPublished, PublishedAt: &future},
			want: false,
		},
		{
			name: "expired",
			rec:  ContentRecord{Status: StatusPublished, ExpiresAt: &past},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Resolvable(now); got != tt.want {
				t.Errorf("Resolvable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContentRecord_SnapshotRoundTrip(t *testing.T) {
	rec := &ContentRecord{
		Title:    "Ouvrir un compte",
		Body:     "corps",
		Metadata: Metadata{"cta": "signup"},
	}

	snap := rec.Snapshot()

	// Mutating the record must not leak into the captured snapshot.
	rec.Title = "changed"
	rec.Metadata["cta"] = "changed"

	if snap.Title != "Ouvrir un compte" {
		t.Errorf("snapshot title mutated: %q", snap.Title)
	}
	if snap.Metadata["cta"] != "signup" {
		t.Errorf("snapshot metadata mutated: %q", snap.Metadata["cta"])
	}

	rec.ApplySnapshot(snap)
	if rec.Title != "Ouvrir un compte" || rec.Metadata["cta"] != "signup" {
		t.Errorf("ApplySnapshot did not restore content fields: %+v", rec)
	}
}

func TestContentPatch_Empty(t *testing.T) {
	if !(ContentPatch{}).Empty() {
		t.Error("zero patch should be empty")
	}

	title := "t"
	if (ContentPatch{Title: &title}).Empty() {
		t.Error("patch with title should not be empty")
	}
	if (ContentPatch{Metadata: Metadata{}}).Empty() {
		t.Error("patch with non-nil metadata should not be empty")
	}
}

func TestContentStatus_Valid(t *testing.T) {
	for _, s := range []ContentStatus{StatusDraft, StatusPublished, StatusArchived} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ContentStatus("deleted").Valid() {
		t.Error("unknown status should be invalid")
	}
}
