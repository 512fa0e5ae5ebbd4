/*package mapobj provides a small in-memory key/value object with an attached
user-metadata string and an XML serialization, used to hand named collections
of lattice objects between subsystems and to persist them in job metadata.
*/
package mapobj

import (
	"encoding/xml"
	"fmt"
	"io"
)

// MapObject is an in-memory key/value store. Keys keep their insertion
// order, so serializing the same object twice produces the same bytes.
type MapObject[K comparable, V any] struct {
	data     map[K]V
	keys     []K
	userData string
}

// New creates an empty MapObject.
func New[K comparable, V any]() *MapObject[K, V] {
	return &MapObject[K, V]{data: map[K]V{}}
}

// InsertUserdata attaches a user metadata string to the object.
func (m *MapObject[K, V]) InsertUserdata(userData string) {
	m.userData = userData
}

// Userdata returns the attached user metadata string.
func (m *MapObject[K, V]) Userdata() string { return m.userData }

// Insert adds a key/value pair, overwriting the value if the key already
// exists.
func (m *MapObject[K, V]) Insert(key K, val V) {
	if _, ok := m.data[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.data[key] = val
}

// Get returns the value stored under key and whether the key exists.
func (m *MapObject[K, V]) Get(key K) (V, bool) {
	val, ok := m.data[key]
	return val, ok
}

// Exist returns true if the key is present.
func (m *MapObject[K, V]) Exist(key K) bool {
	_, ok := m.data[key]
	return ok
}

// Erase removes a key, if present.
func (m *MapObject[K, V]) Erase(key K) {
	if _, ok := m.data[key]; !ok {
		return
	}
	delete(m.data, key)
	for i := range m.keys {
		if m.keys[i] == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Clear removes every key/value pair but keeps the user metadata.
func (m *MapObject[K, V]) Clear() {
	m.data = map[K]V{}
	m.keys = nil
}

// Size returns the number of stored pairs.
func (m *MapObject[K, V]) Size() int { return len(m.data) }

// Keys returns the keys in insertion order.
func (m *MapObject[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// KeysAndValues returns the keys in insertion order along with their values.
func (m *MapObject[K, V]) KeysAndValues() ([]K, []V) {
	keys := m.Keys()
	vals := make([]V, len(keys))
	for i := range keys {
		vals[i] = m.data[keys[i]]
	}
	return keys, vals
}

type xmlElem[K comparable, V any] struct {
	XMLName xml.Name `xml:"elem"`
	Key     K        `xml:"Key"`
	Val     V        `xml:"Val"`
}

type xmlMap[K comparable, V any] struct {
	XMLName  xml.Name
	Userdata string          `xml:"Userdata,omitempty"`
	Elems    []xmlElem[K, V] `xml:"elem"`
}

// WriteXML serializes the object under a top-level element named path.
func (m *MapObject[K, V]) WriteXML(w io.Writer, path string) error {
	if path == "" {
		return fmt.Errorf("An XML path must not be empty.")
	}

	out := xmlMap[K, V]{
		XMLName:  xml.Name{Local: path},
		Userdata: m.userData,
		Elems:    make([]xmlElem[K, V], 0, len(m.keys)),
	}
	for _, key := range m.keys {
		out.Elems = append(out.Elems,
			xmlElem[K, V]{Key: key, Val: m.data[key]})
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Flush()
}

// ReadXML deserializes pairs written by WriteXML into the object, inserting
// them one by one on top of whatever it already holds.
func (m *MapObject[K, V]) ReadXML(r io.Reader) error {
	in := xmlMap[K, V]{}
	if err := xml.NewDecoder(r).Decode(&in); err != nil {
		return err
	}

	if in.Userdata != "" {
		m.userData = in.Userdata
	}
	for i := range in.Elems {
		m.Insert(in.Elems[i].Key, in.Elems[i].Val)
	}
	return nil
}
