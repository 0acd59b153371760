// This file is part of tbasic - https://github.com/sl001/tbasic
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package basic

import (
	"sort"

	"github.com/samber/lo"
)

// ObjKind tags the kind of object bound to a name in the Heap.
type ObjKind byte

const (
	ObjScalar ObjKind = iota
	ObjArray
	ObjString
	ObjFunction
)

// object is the Go-native representation of a heap-resident value. Its
// estimated byte footprint is charged against the Arena via AllocHeap so
// that OUTOFMEMORY accounting stays faithful to §3.1 without a full
// byte-level marshalling layer for every kind of object.
type object struct {
	kind ObjKind
	size int // bytes charged to the arena

	scalar Value

	elemKind ValueKind
	origin   int // 0 or 1, captured at DIM time
	dim1     int // allocated element count, first dimension
	dim2     int // allocated element count, second dimension (0 if 1-D)
	data     []Value

	strCap int
	str    string

	params   []string
	bodyLine uint16
}

// Heap is the interpreter's name table: every scalar, array, string buffer
// and user-defined function lives here, keyed by its BASIC name. It charges
// and releases space against an Arena as objects are created and discarded.
type Heap struct {
	arena   *Arena
	objects map[string]*object
}

// NewHeap creates a Heap backed by arena.
func NewHeap(arena *Arena) *Heap {
	return &Heap{arena: arena, objects: make(map[string]*object)}
}

const (
	scalarFootprint = 16
	arrayHeader     = 24
	stringHeader    = 8
)

// Scalar returns the current value bound to name, creating it (zero-valued,
// per kind implied by the name's sigil) on first reference.
func (h *Heap) Scalar(name string, kind ValueKind) (Value, error) {
	obj, ok := h.objects[name]
	if !ok {
		if _, err := h.arena.AllocHeap(scalarFootprint); err != nil {
			return Value{}, err
		}
		obj = &object{kind: ObjScalar, size: scalarFootprint, scalar: zeroValue(kind)}
		h.objects[name] = obj
		return obj.scalar, nil
	}
	if obj.kind != ObjScalar {
		return Value{}, newError(KindType, "%s is not a scalar", name)
	}
	return obj.scalar, nil
}

// SetScalar assigns v to name, creating the binding if it does not exist.
func (h *Heap) SetScalar(name string, v Value) error {
	obj, ok := h.objects[name]
	if !ok {
		if _, err := h.arena.AllocHeap(scalarFootprint); err != nil {
			return err
		}
		obj = &object{kind: ObjScalar, size: scalarFootprint}
		h.objects[name] = obj
	} else if obj.kind != ObjScalar {
		return newError(KindType, "%s is not a scalar", name)
	}
	obj.scalar = v
	return nil
}

// DimArray allocates an array object bound to name. origin is 0 or 1 per the
// engine's array-origin feature; dims holds the declared bound(s) as written
// in the DIM statement (DIM A(10) declares bound 10, not a count).
//
// The allocated element count already folds in the MS-compatible +1 when
// origin is 0, so that a single bounds check - [origin, origin+dimN-1] -
// is correct regardless of which origin convention is active.
func (h *Heap) DimArray(name string, elemKind ValueKind, origin int, dims ...int) error {
	if len(dims) < 1 || len(dims) > 2 {
		return newError(KindSyntax, "array %s: 1 or 2 dimensions only", name)
	}
	if _, exists := h.objects[name]; exists {
		return newError(KindSyntax, "%s already dimensioned", name)
	}
	d1 := dims[0] + 1
	if origin == 1 {
		d1 = dims[0]
	}
	d2 := 0
	if len(dims) == 2 {
		d2 = dims[1] + 1
		if origin == 1 {
			d2 = dims[1]
		}
	}
	count := d1
	if d2 > 0 {
		count *= d2
	}
	if count <= 0 {
		return newError(KindRange, "%s: invalid array bound", name)
	}
	size := arrayHeader + count*int(unsafeValueSize)
	if _, err := h.arena.AllocHeap(size); err != nil {
		return err
	}
	h.objects[name] = &object{
		kind:     ObjArray,
		size:     size,
		elemKind: elemKind,
		origin:   origin,
		dim1:     d1,
		dim2:     d2,
		data:     make([]Value, count),
	}
	return nil
}

const unsafeValueSize = 32

// arrayIndex validates (i, j) against the array's bounds and returns its
// flat offset into data. j is ignored for a 1-D array.
func (h *Heap) arrayIndex(name string, i, j int) (int, error) {
	obj, ok := h.objects[name]
	if !ok || obj.kind != ObjArray {
		return 0, newError(KindType, "%s is not an array", name)
	}
	lo, hi := obj.origin, obj.origin+obj.dim1-1
	if i < lo || i > hi {
		return 0, newError(KindRange, "%s(%d): subscript out of range", name, i)
	}
	if obj.dim2 == 0 {
		return i - obj.origin, nil
	}
	lo2, hi2 := obj.origin, obj.origin+obj.dim2-1
	if j < lo2 || j > hi2 {
		return 0, newError(KindRange, "%s(%d,%d): subscript out of range", name, i, j)
	}
	return (i-obj.origin)*obj.dim2 + (j - obj.origin), nil
}

// ArrayGet returns the element at (i, j) of the array bound to name.
func (h *Heap) ArrayGet(name string, i, j int) (Value, error) {
	idx, err := h.arrayIndex(name, i, j)
	if err != nil {
		return Value{}, err
	}
	return h.objects[name].data[idx], nil
}

// ArraySet stores v at (i, j) of the array bound to name.
func (h *Heap) ArraySet(name string, i, j int, v Value) error {
	idx, err := h.arrayIndex(name, i, j)
	if err != nil {
		return err
	}
	h.objects[name].data[idx] = v
	return nil
}

// String returns the current contents of the string buffer bound to name.
func (h *Heap) String(name string) (string, error) {
	obj, ok := h.objects[name]
	if !ok {
		return "", nil
	}
	if obj.kind != ObjString && obj.kind != ObjScalar {
		return "", newError(KindType, "%s is not a string", name)
	}
	if obj.kind == ObjString {
		return obj.str, nil
	}
	return obj.scalar.Str, nil
}

// SetString assigns s to the string buffer bound to name, allocating it on
// first use and charging any growth past its prior capacity to the arena.
func (h *Heap) SetString(name, s string) error {
	obj, ok := h.objects[name]
	if !ok {
		size := stringHeader + len(s)
		if _, err := h.arena.AllocHeap(size); err != nil {
			return err
		}
		h.objects[name] = &object{kind: ObjString, size: size, strCap: len(s), str: s}
		return nil
	}
	if obj.kind != ObjString {
		return newError(KindType, "%s is not a string", name)
	}
	if len(s) > obj.strCap {
		grow := len(s) - obj.strCap
		if _, err := h.arena.AllocHeap(grow); err != nil {
			return err
		}
		obj.strCap = len(s)
		obj.size += grow
	}
	obj.str = s
	return nil
}

// Function binds a DEF FN-style user function: a parameter list and the
// line number of its body expression.
func (h *Heap) Function(name string, params []string, bodyLine uint16) error {
	size := arrayHeader + len(params)*8
	if _, err := h.arena.AllocHeap(size); err != nil {
		return err
	}
	h.objects[name] = &object{kind: ObjFunction, size: size, params: params, bodyLine: bodyLine}
	return nil
}

// LookupFunction returns the parameter list and body line bound to name.
func (h *Heap) LookupFunction(name string) ([]string, uint16, bool) {
	obj, ok := h.objects[name]
	if !ok || obj.kind != ObjFunction {
		return nil, 0, false
	}
	return obj.params, obj.bodyLine, true
}

// Forget removes name from the heap. It does not reclaim its arena space:
// like the C original, memory is only truly recovered by CLR/NEW resetting
// the whole heap area at once.
func (h *Heap) Forget(name string) {
	delete(h.objects, name)
}

// Reset discards every binding and the heap area behind them (CLR, NEW).
func (h *Heap) Reset() {
	h.objects = make(map[string]*object)
	h.arena.ResetHeap()
}

// Names returns every bound name in sorted order, e.g. for a VARS listing.
func (h *Heap) Names() []string {
	names := lo.Keys(h.objects)
	sort.Strings(names)
	return names
}

// Kind reports the ObjKind bound to name and whether name is bound at all.
func (h *Heap) Kind(name string) (ObjKind, bool) {
	obj, ok := h.objects[name]
	if !ok {
		return 0, false
	}
	return obj.kind, true
}

func zeroValue(kind ValueKind) Value {
	switch kind {
	case VString:
		return StringValue("")
	case VFloat:
		return FloatValue(0)
	default:
		return IntValue(0)
	}
}
