package ddi

import (
	"fmt"
	"strings"
)

// EntityInfo is the name and type recorded for an entity id.
type EntityInfo struct {
	Name string
	Type string
}

// EntityLookup maps entity ids to their name and type within one split.
// Entity ids are only unique per split, so a lookup must never be shared
// between train and test.
type EntityLookup struct {
	entries   map[string]EntityInfo
	lowercase bool
	dropped   int
}

// NewEntityLookup returns an empty lookup. When lowercase is set, names and
// types are stored lowercased.
func NewEntityLookup(lowercase bool) *EntityLookup {
	return &EntityLookup{
		entries:   make(map[string]EntityInfo),
		lowercase: lowercase,
	}
}

// InsertIfAbsent records e under its id unless the id is already known.
// The first value stored for an id wins; it returns false when e was dropped.
func (l *EntityLookup) InsertIfAbsent(e Entity) bool {
	if _, ok := l.entries[e.ID]; ok {
		l.dropped++
		return false
	}

	info := EntityInfo{Name: e.Text, Type: e.Type}
	if l.lowercase {
		info.Name = strings.ToLower(info.Name)
		info.Type = strings.ToLower(info.Type)
	}
	l.entries[e.ID] = info
	return true
}

// Resolve returns the info stored for id, or an error wrapping ErrUnresolvedEntity.
func (l *EntityLookup) Resolve(id string) (EntityInfo, error) {
	info, ok := l.entries[id]
	if !ok {
		return EntityInfo{}, fmt.Errorf("%w: %q", ErrUnresolvedEntity, id)
	}
	return info, nil
}

// Len returns the number of distinct ids.
func (l *EntityLookup) Len() int {
	return len(l.entries)
}

// Dropped returns how many inserts were ignored because the id was already present.
func (l *EntityLookup) Dropped() int {
	return l.dropped
}
