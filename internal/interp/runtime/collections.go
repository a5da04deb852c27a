package runtime

// MapEntry is one key/value pair, kept in insertion order to satisfy
// Map/Set's iteration-order guarantee (spec.md §6).
type MapEntry struct {
	Key   Value
	Value Value
}

// MapValue implements the JS Map built-in: arbitrary-value keys compared
// with SameValueZero semantics, insertion-ordered iteration. Grounded on
// the teacher's SetValue's ordered multi-storage strategy (set.go),
// generalized from enumerant/range storage to a plain ordered entry list
// since tsx key types are unconstrained.
type MapValue struct {
	entries []*MapEntry
}

func NewMapValue() *MapValue {
	return &MapValue{}
}

func (m *MapValue) TypeOf() string { return "object" }
func (m *MapValue) String() string { return "[object Map]" }

func (m *MapValue) find(key Value) *MapEntry {
	for _, e := range m.entries {
		if sameValueZero(e.Key, key) {
			return e
		}
	}
	return nil
}

func (m *MapValue) Get(key Value) (Value, bool) {
	if e := m.find(key); e != nil {
		return e.Value, true
	}
	return UndefinedValue, false
}

func (m *MapValue) Set(key, value Value) {
	if e := m.find(key); e != nil {
		e.Value = value
		return
	}
	m.entries = append(m.entries, &MapEntry{Key: key, Value: value})
}

func (m *MapValue) Has(key Value) bool { return m.find(key) != nil }

func (m *MapValue) Delete(key Value) bool {
	for i, e := range m.entries {
		if sameValueZero(e.Key, key) {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (m *MapValue) Clear() { m.entries = nil }
func (m *MapValue) Size() int { return len(m.entries) }

func (m *MapValue) Entries() []*MapEntry { return m.entries }

func (m *MapValue) Iterator() Iterator {
	return &mapIterator{m: m}
}

type mapIterator struct {
	m   *MapValue
	pos int
}

func (it *mapIterator) Next() (Value, bool) {
	if it.pos >= len(it.m.entries) {
		return UndefinedValue, true
	}
	e := it.m.entries[it.pos]
	it.pos++
	return NewArray(e.Key, e.Value), false
}

// SetValue implements the JS Set built-in: an insertion-ordered collection
// of unique values under SameValueZero equality.
type SetValue struct {
	values []Value
}

func NewSetValue() *SetValue { return &SetValue{} }

func (s *SetValue) TypeOf() string { return "object" }
func (s *SetValue) String() string { return "[object Set]" }

func (s *SetValue) Add(v Value) {
	if s.Has(v) {
		return
	}
	s.values = append(s.values, v)
}

func (s *SetValue) Has(v Value) bool {
	for _, existing := range s.values {
		if sameValueZero(existing, v) {
			return true
		}
	}
	return false
}

func (s *SetValue) Delete(v Value) bool {
	for i, existing := range s.values {
		if sameValueZero(existing, v) {
			s.values = append(s.values[:i], s.values[i+1:]...)
			return true
		}
	}
	return false
}

func (s *SetValue) Clear() { s.values = nil }
func (s *SetValue) Size() int { return len(s.values) }
func (s *SetValue) Values() []Value { return s.values }

func (s *SetValue) Iterator() Iterator {
	return &setIterator{s: s}
}

type setIterator struct {
	s   *SetValue
	pos int
}

func (it *setIterator) Next() (Value, bool) {
	if it.pos >= len(it.s.values) {
		return UndefinedValue, true
	}
	v := it.s.values[it.pos]
	it.pos++
	return v, false
}

// WeakMapValue/WeakSetValue hold only object-typed keys without preventing
// their garbage collection; Go's GC already reclaims unreferenced entries
// once the *Object key itself becomes unreachable, so no finalizer
// machinery is needed the way a native WeakMap requires.
type WeakMapValue struct {
	entries map[*Object]Value
}

func NewWeakMapValue() *WeakMapValue {
	return &WeakMapValue{entries: make(map[*Object]Value)}
}

func (w *WeakMapValue) TypeOf() string { return "object" }
func (w *WeakMapValue) String() string { return "[object WeakMap]" }

func (w *WeakMapValue) Get(key *Object) (Value, bool) { v, ok := w.entries[key]; return v, ok }
func (w *WeakMapValue) Set(key *Object, value Value)  { w.entries[key] = value }
func (w *WeakMapValue) Has(key *Object) bool           { _, ok := w.entries[key]; return ok }
func (w *WeakMapValue) Delete(key *Object) bool {
	if _, ok := w.entries[key]; !ok {
		return false
	}
	delete(w.entries, key)
	return true
}

type WeakSetValue struct {
	members map[*Object]bool
}

func NewWeakSetValue() *WeakSetValue {
	return &WeakSetValue{members: make(map[*Object]bool)}
}

func (w *WeakSetValue) TypeOf() string { return "object" }
func (w *WeakSetValue) String() string { return "[object WeakSet]" }

func (w *WeakSetValue) Add(key *Object)    { w.members[key] = true }
func (w *WeakSetValue) Has(key *Object) bool { return w.members[key] }
func (w *WeakSetValue) Delete(key *Object) bool {
	if !w.members[key] {
		return false
	}
	delete(w.members, key)
	return true
}

// sameValueZero implements the SameValueZero comparison Map/Set keys use:
// identical to ===, except NaN equals NaN.
func sameValueZero(a, b Value) bool {
	if an, ok := a.(Number); ok {
		if bn, ok := b.(Number); ok {
			if an != an && bn != bn { // both NaN
				return true
			}
		}
	}
	if cmp, ok := a.(ComparableValue); ok {
		return cmp.StrictEquals(b)
	}
	return a == b
}
