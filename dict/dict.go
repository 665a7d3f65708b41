package dict

import stderrors "errors"

// ErrUnknownKey is returned by Lookup when a code does not resolve in the
// inverse table -- either out of range, or a sparse deleted placeholder.
// A record referencing such a code is unreadable.
var ErrUnknownKey = stderrors.New("dict: code does not resolve in dictionary")

// PassCode is the pre-populated code for the filter ID "PASS", occupying
// slot zero before any header line is processed.
const PassCode = 0

// Entry is the inverse-table payload for one dictionary code: its string
// name plus whatever header metadata the core consumes for it (declared
// Number/Type cardinality for INFO/FORMAT/FILTER IDs; empty for contig and
// sample entries).
type Entry struct {
	Name   string
	Number string
	Type   string
}

// Dict is one of the three dictionaries (contig, id, sample): a forward
// map from name to code, and a sparse inverse table from code to Entry.
type Dict struct {
	forward map[string]int32
	inverse []*Entry
}

// New returns an empty dictionary.
func New() *Dict {
	return &Dict{forward: make(map[string]int32)}
}

// NewIDDict returns an id dictionary with "PASS" pre-populated at code 0,
// before any header line is processed.
func NewIDDict() *Dict {
	d := New()
	d.Put("PASS", Entry{Name: "PASS"})
	return d
}

// Put appends name at the next available code and returns that code. If
// name is already present, it returns the existing code without adding a
// duplicate entry -- header lines may legitimately repeat a declaration.
func (d *Dict) Put(name string, entry Entry) int32 {
	if code, ok := d.forward[name]; ok {
		return code
	}
	code := int32(len(d.inverse))
	entryCopy := entry
	entryCopy.Name = name
	d.inverse = append(d.inverse, &entryCopy)
	d.forward[name] = code
	return code
}

// PutAt inserts name at an explicit code (as declared by a header line's
// IDX= field), padding any skipped positions with sparse nil placeholders.
// It is an error to place two different names at the same code.
func (d *Dict) PutAt(code int32, name string, entry Entry) error {
	for int32(len(d.inverse)) <= code {
		d.inverse = append(d.inverse, nil)
	}
	if existing := d.inverse[code]; existing != nil && existing.Name != name {
		return stderrors.New("dict: IDX= collision for code " + name)
	}
	entryCopy := entry
	entryCopy.Name = name
	d.inverse[code] = &entryCopy
	d.forward[name] = code
	return nil
}

// Code returns the forward-table code for name.
func (d *Dict) Code(name string) (int32, bool) {
	code, ok := d.forward[name]
	return code, ok
}

// Lookup resolves a code to its Entry. It fails with ErrUnknownKey if code
// is out of range or lands on a sparse deleted placeholder.
func (d *Dict) Lookup(code int32) (*Entry, error) {
	if code < 0 || int(code) >= len(d.inverse) || d.inverse[code] == nil {
		return nil, ErrUnknownKey
	}
	return d.inverse[code], nil
}

// Len returns the number of codes assigned, including sparse placeholders.
func (d *Dict) Len() int { return len(d.inverse) }

// Names returns every non-placeholder name in code order, used when
// re-serializing a header's dictionaries deterministically.
func (d *Dict) Names() []string {
	out := make([]string, 0, len(d.inverse))
	for _, e := range d.inverse {
		if e != nil {
			out = append(out, e.Name)
		}
	}
	return out
}
