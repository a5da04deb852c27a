package runtime

// Accessor holds a getter and/or setter pair for a computed property.
type Accessor struct {
	Get *Function
	Set *Function
}

// propSlot is one stored property: either a plain data value or an
// accessor pair, tracking JS's per-property enumerable/writable/
// configurable descriptor bits (spec.md §4.2's object literal/class-field
// semantics; defaults match Object.defineProperty's false/false/false,
// overridden to true/true/true for literal- and field-created properties).
type propSlot struct {
	value       Value
	accessor    *Accessor
	writable    bool
	enumerable  bool
	configurable bool
}

// Object is the runtime representation of a plain object, array backing
// store, or class instance's own-property bag. Properties are kept in an
// ordered slice (insertion order, per the ECMAScript OwnPropertyKeys
// ordering for string keys) with a name index for O(1) lookup, grounded on
// the teacher's ObjectInstance field-map model generalized from a fixed
// class schema to fully dynamic property bags.
type Object struct {
	keys    []string
	props   map[string]*propSlot
	symbols map[*Symbol]Value

	Proto      *Object // the object this one inherits from, nil for Object.prototype-less
	Class      *ClassInfo
	Extensible bool
	frozen     bool
	sealed     bool
}

func NewObject() *Object {
	return &Object{
		props:      make(map[string]*propSlot),
		symbols:    make(map[*Symbol]Value),
		Extensible: true,
	}
}

func (o *Object) TypeOf() string { return "object" }
func (o *Object) String() string { return "[object Object]" }

// Get resolves a named property, walking the prototype chain and invoking
// an accessor's getter with `this` bound to the receiver.
func (o *Object) Get(name string, receiver Value) (Value, bool) {
	for cur := o; cur != nil; cur = cur.Proto {
		if slot, ok := cur.props[name]; ok {
			if slot.accessor != nil {
				if slot.accessor.Get == nil {
					return UndefinedValue, true
				}
				v, err := slot.accessor.Get.Call(receiver, nil)
				if err != nil {
					return UndefinedValue, true
				}
				return v, true
			}
			return slot.value, true
		}
	}
	return UndefinedValue, false
}

// Set assigns a named property, preferring an inherited setter if one
// exists, otherwise creating/overwriting an own data property.
func (o *Object) Set(name string, val Value, receiver Value) error {
	for cur := o; cur != nil; cur = cur.Proto {
		slot, ok := cur.props[name]
		if ok && slot.accessor != nil {
			if slot.accessor.Set == nil {
				return nil // silently ignored, matching sloppy-mode semantics
			}
			_, err := slot.accessor.Set.Call(receiver, []Value{val})
			return err
		}
		if ok && cur == o {
			if !slot.writable {
				return nil
			}
			slot.value = val
			return nil
		}
	}
	if o.frozen || (o.sealed) || !o.Extensible {
		return nil
	}
	o.defineData(name, val, true, true, true)
	return nil
}

func (o *Object) defineData(name string, val Value, writable, enumerable, configurable bool) {
	if _, exists := o.props[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.props[name] = &propSlot{value: val, writable: writable, enumerable: enumerable, configurable: configurable}
}

// DefineData is the exported form used by object-literal/class-field
// construction and Object.defineProperty.
func (o *Object) DefineData(name string, val Value, writable, enumerable, configurable bool) {
	o.defineData(name, val, writable, enumerable, configurable)
}

// DefineAccessor installs a getter/setter pair for name.
func (o *Object) DefineAccessor(name string, get, set *Function, enumerable, configurable bool) {
	if _, exists := o.props[name]; !exists {
		o.keys = append(o.keys, name)
	}
	existing := o.props[name]
	if existing != nil && existing.accessor != nil {
		if get != nil {
			existing.accessor.Get = get
		}
		if set != nil {
			existing.accessor.Set = set
		}
		return
	}
	o.props[name] = &propSlot{accessor: &Accessor{Get: get, Set: set}, enumerable: enumerable, configurable: configurable}
}

// Delete removes an own property, respecting configurability.
func (o *Object) Delete(name string) bool {
	slot, ok := o.props[name]
	if !ok {
		return true
	}
	if !slot.configurable {
		return false
	}
	delete(o.props, name)
	for i, k := range o.keys {
		if k == name {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Has reports own-or-inherited property presence.
func (o *Object) Has(name string) bool {
	for cur := o; cur != nil; cur = cur.Proto {
		if _, ok := cur.props[name]; ok {
			return true
		}
	}
	return false
}

// HasOwn reports own-property presence only.
func (o *Object) HasOwn(name string) bool {
	_, ok := o.props[name]
	return ok
}

// OwnKeys returns enumerable own string keys in insertion order
// (Object.keys/for-in iteration order).
func (o *Object) OwnKeys() []string {
	out := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		if slot := o.props[k]; slot != nil && slot.enumerable {
			out = append(out, k)
		}
	}
	return out
}

// GetSymbol/SetSymbol store Symbol-keyed members (well-known symbols like
// Symbol.iterator, and user-created unique symbols).
func (o *Object) GetSymbol(sym *Symbol) (Value, bool) {
	for cur := o; cur != nil; cur = cur.Proto {
		if v, ok := cur.symbols[sym]; ok {
			return v, true
		}
	}
	return UndefinedValue, false
}

func (o *Object) SetSymbol(sym *Symbol, val Value) {
	o.symbols[sym] = val
}

// Freeze/Seal implement Object.freeze/Object.seal: freeze additionally
// marks every own data property non-writable.
func (o *Object) Freeze() {
	o.sealed = true
	o.frozen = true
	o.Extensible = false
	for _, slot := range o.props {
		slot.writable = false
		slot.configurable = false
	}
}

func (o *Object) Seal() {
	o.sealed = true
	o.Extensible = false
	for _, slot := range o.props {
		slot.configurable = false
	}
}

func (o *Object) IsFrozen() bool { return o.frozen }
func (o *Object) IsSealed() bool { return o.sealed }

// GetIndex/SetIndex implement IndexableValue for plain objects (computed
// member access `obj[key]` with a string-coerced key).
func (o *Object) GetIndex(index Value) (Value, bool) {
	v, ok := o.Get(index.String(), o)
	return v, ok
}

func (o *Object) SetIndex(index Value, val Value) error {
	return o.Set(index.String(), val, o)
}
