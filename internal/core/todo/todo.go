// Package todo defines the conversion task domain model: typed items keyed by
// GUID, collected into a list that persists as a single YAML document.
package todo

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hay-kot/criterio"
)

// Kind classifies the asset a conversion task is about.
type Kind string

const (
	KindShader    Kind = "Shader"
	KindMaterial  Kind = "Material"
	KindPrefab    Kind = "Prefab"
	KindAnimation Kind = "Animation"
	KindScript    Kind = "Script"
	KindOther     Kind = "Other"
)

var allKinds = []Kind{KindShader, KindMaterial, KindPrefab, KindAnimation, KindScript, KindOther}

// Kinds returns every known kind in declaration order.
func Kinds() []Kind {
	return slices.Clone(allKinds)
}

// ParseKind returns the Kind named by s. Matching is case-sensitive.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", &ValidationError{Kind: s, Err: fmt.Errorf("unknown kind %q", s)}
	}
	return k, nil
}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindShader, KindMaterial, KindPrefab, KindAnimation, KindScript, KindOther:
		return true
	default:
		return false
	}
}

// RequiredFields returns the keys that must be present and non-empty for k.
func (k Kind) RequiredFields() []string {
	switch k {
	case KindShader, KindMaterial:
		return []string{FieldUnityPath, FieldGodotPath, FieldInstruction}
	default:
		return []string{FieldUnityPath, FieldGodotPath}
	}
}

func (k Kind) requires(key string) bool {
	return slices.Contains(k.RequiredFields(), key)
}

// Field keys used in the persisted document.
const (
	FieldType        = "type"
	FieldUnityPath   = "unity_path"
	FieldGodotPath   = "godot_path"
	FieldInstruction = "instruction"
	FieldStatus      = "status"
	FieldReason      = "reason"
	FieldInfo        = "info"
)

// knownFields is the emit order for the typed keys.
var knownFields = []string{
	FieldType,
	FieldUnityPath,
	FieldGodotPath,
	FieldInstruction,
	FieldStatus,
	FieldReason,
	FieldInfo,
}

func isKnownField(key string) bool {
	return slices.Contains(knownFields, key)
}

// Status values. The status field is free-form; these are the values the
// helpers write.
const (
	StatusOpen   = "Open"
	StatusDone   = "Done"
	StatusFailed = "Failed"
)

// DefaultReason is the reason assigned to new items.
const DefaultReason = "New conversion task"

// DefaultDoneInfo is the info message written by List.MarkDone.
const DefaultDoneInfo = "✅ Conversion verified in Godot"

// Item is a single conversion task.
type Item struct {
	Kind        Kind
	UnityPath   string
	GodotPath   string
	Instruction string
	Status      string
	Reason      string
	Info        string

	// Extra holds keys this package does not interpret. They are written back
	// unchanged.
	Extra map[string]string
}

// NewItem builds an item of the given kind from fields, applying defaults for
// status, reason and info. A "type" entry in fields is ignored in favour of
// kind. Every missing or empty required key is reported in a single
// *ValidationError.
func NewItem(kind string, fields map[string]string) (*Item, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}

	item := newDefaultItem(k)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		if key == FieldType {
			continue
		}
		item.set(key, fields[key])
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

func newDefaultItem(k Kind) *Item {
	return &Item{
		Kind:   k,
		Status: StatusOpen,
		Reason: DefaultReason,
		Info:   "",
	}
}

// Validate checks that every required key for the item's kind is non-empty.
// Items are only validated on construction and parse; mutators do not call it.
func (it *Item) Validate() error {
	if !it.Kind.IsValid() {
		return &ValidationError{Kind: string(it.Kind), Err: fmt.Errorf("unknown kind %q", it.Kind)}
	}

	var (
		errs    criterio.FieldErrorsBuilder
		missing []string
	)
	for _, key := range it.Kind.RequiredFields() {
		if it.value(key) == "" {
			missing = append(missing, key)
			errs = errs.Append(key, errors.New("required"))
		}
	}

	if len(missing) == 0 {
		return nil
	}

	return &ValidationError{Kind: string(it.Kind), Missing: missing, Err: errs.ToError()}
}

// Get returns the value stored under key. Optional keys that were never set
// report false.
func (it *Item) Get(key string) (string, bool) {
	switch key {
	case FieldType:
		return string(it.Kind), true
	case FieldUnityPath:
		return it.UnityPath, true
	case FieldGodotPath:
		return it.GodotPath, true
	case FieldInstruction:
		if it.Instruction == "" && !it.Kind.requires(FieldInstruction) {
			return "", false
		}
		return it.Instruction, true
	case FieldStatus:
		return it.Status, true
	case FieldReason:
		return it.Reason, true
	case FieldInfo:
		return it.Info, true
	}

	v, ok := it.Extra[key]
	return v, ok
}

// Set writes key. The kind cannot be changed through Set.
func (it *Item) Set(key, value string) error {
	switch key {
	case "":
		return errors.New("field key cannot be empty")
	case FieldType:
		return fmt.Errorf("field %q cannot be changed", FieldType)
	}
	it.set(key, value)
	return nil
}

func (it *Item) set(key, value string) {
	switch key {
	case FieldType:
		it.Kind = Kind(value)
	case FieldUnityPath:
		it.UnityPath = value
	case FieldGodotPath:
		it.GodotPath = value
	case FieldInstruction:
		it.Instruction = value
	case FieldStatus:
		it.Status = value
	case FieldReason:
		it.Reason = value
	case FieldInfo:
		it.Info = value
	default:
		if it.Extra == nil {
			it.Extra = make(map[string]string)
		}
		it.Extra[key] = value
	}
}

func (it *Item) value(key string) string {
	v, _ := it.Get(key)
	return v
}

// Fields returns the item as a flat key/value mapping, including extras.
func (it *Item) Fields() map[string]string {
	fields := make(map[string]string, len(knownFields)+len(it.Extra))
	for _, key := range it.Keys() {
		fields[key] = it.value(key)
	}
	return fields
}

// Keys returns the keys present on the item in document order: typed keys
// first, then extras sorted.
func (it *Item) Keys() []string {
	keys := make([]string, 0, len(knownFields)+len(it.Extra))
	for _, key := range knownFields {
		if _, ok := it.Get(key); ok {
			keys = append(keys, key)
		}
	}
	return append(keys, slices.Sorted(maps.Keys(it.Extra))...)
}

// StatusOrDefault returns the status, or StatusOpen when it is empty.
func (it *Item) StatusOrDefault() string {
	if it.Status == "" {
		return StatusOpen
	}
	return it.Status
}

// SetStatus writes the status field. Any string is accepted.
func (it *Item) SetStatus(status string) {
	it.Status = status
}

// MarkDone sets the status to Done.
func (it *Item) MarkDone() { it.SetStatus(StatusDone) }

// MarkFailed sets the status to Failed.
func (it *Item) MarkFailed() { it.SetStatus(StatusFailed) }

// Reopen sets the status back to Open.
func (it *Item) Reopen() { it.SetStatus(StatusOpen) }

// SetInfo writes the info field.
func (it *Item) SetInfo(msg string) {
	it.Info = msg
}

// String renders the item as "[<kind>] → <godot_path> (<status>)".
func (it *Item) String() string {
	path := it.GodotPath
	if path == "" {
		path = "<no path>"
	}
	return fmt.Sprintf("[%s] → %s (%s)", it.Kind, path, it.StatusOrDefault())
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() *Item {
	c := *it
	if it.Extra != nil {
		c.Extra = maps.Clone(it.Extra)
	}
	return &c
}
