package ddi

import (
	"errors"
	"testing"
)

func TestEntityLookup_FirstWriteWins(t *testing.T) {
	l := NewEntityLookup(false)

	if !l.InsertIfAbsent(Entity{ID: "e0", Text: "Aspirin", Type: "drug"}) {
		t.Fatal("expected first insert to be stored")
	}
	if l.InsertIfAbsent(Entity{ID: "e0", Text: "Warfarin", Type: "brand"}) {
		t.Error("expected duplicate insert to be dropped")
	}

	got, err := l.Resolve("e0")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := EntityInfo{Name: "Aspirin", Type: "drug"}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
	if l.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", l.Dropped())
	}
}

func TestEntityLookup_Lowercase(t *testing.T) {
	tests := []struct {
		name      string
		lowercase bool
		want      EntityInfo
	}{
		{name: "lowercased", lowercase: true, want: EntityInfo{Name: "mao inhibitors", Type: "group"}},
		{name: "raw case", lowercase: false, want: EntityInfo{Name: "MAO Inhibitors", Type: "Group"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewEntityLookup(tt.lowercase)
			l.InsertIfAbsent(Entity{ID: "e0", Text: "MAO Inhibitors", Type: "Group"})

			got, err := l.Resolve("e0")
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEntityLookup_Unresolved(t *testing.T) {
	l := NewEntityLookup(true)
	_, err := l.Resolve("missing")
	if !errors.Is(err, ErrUnresolvedEntity) {
		t.Errorf("expected ErrUnresolvedEntity, got: %v", err)
	}
}
