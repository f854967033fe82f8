package todo

import (
	"maps"
	"slices"
)

// Entry pairs an item with the GUID it is stored under.
type Entry struct {
	GUID string
	Item *Item
}

// List is a set of items keyed by caller-supplied GUIDs. It is not safe for
// concurrent use.
type List struct {
	items map[string]*Item
}

// NewList returns an empty list.
func NewList() *List {
	return &List{items: make(map[string]*Item)}
}

// Insert stores item under guid, replacing any existing entry.
func (l *List) Insert(guid string, item *Item) {
	if l.items == nil {
		l.items = make(map[string]*Item)
	}
	l.items[guid] = item
}

// Add stores item under guid unless the GUID is already taken, in which case
// it returns ErrDuplicate and leaves the list unchanged.
func (l *List) Add(guid string, item *Item) error {
	if l.Contains(guid) {
		return ErrDuplicate
	}
	l.Insert(guid, item)
	return nil
}

// Contains reports whether guid is present.
func (l *List) Contains(guid string) bool {
	_, ok := l.items[guid]
	return ok
}

// Get returns the item stored under guid. The returned item is owned by the
// list; mutations are visible to the next save.
func (l *List) Get(guid string) (*Item, bool) {
	item, ok := l.items[guid]
	return item, ok
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}

// Remove deletes the entry for guid.
func (l *List) Remove(guid string) error {
	if !l.Contains(guid) {
		return &NotFoundError{GUID: guid}
	}
	delete(l.items, guid)
	return nil
}

// UpdateStatus sets both status and info on the item stored under guid.
func (l *List) UpdateStatus(guid, status, info string) error {
	item, ok := l.items[guid]
	if !ok {
		return &NotFoundError{GUID: guid}
	}
	item.SetStatus(status)
	item.SetInfo(info)
	return nil
}

// MarkDone marks guid as Done with DefaultDoneInfo.
func (l *List) MarkDone(guid string) error {
	return l.MarkDoneWith(guid, DefaultDoneInfo)
}

// MarkDoneWith marks guid as Done with the given info message.
func (l *List) MarkDoneWith(guid, info string) error {
	return l.UpdateStatus(guid, StatusDone, info)
}

// Entries returns every entry sorted by GUID.
func (l *List) Entries() []Entry {
	entries := make([]Entry, 0, len(l.items))
	for _, guid := range slices.Sorted(maps.Keys(l.items)) {
		entries = append(entries, Entry{GUID: guid, Item: l.items[guid]})
	}
	return entries
}

// Summary counts items per status. Empty statuses count as Open.
func (l *List) Summary() map[string]int {
	counts := make(map[string]int)
	for _, item := range l.items {
		counts[item.StatusOrDefault()]++
	}
	return counts
}
