// Package encode implements the mirror of the decode engine: it walks a
// typed value and emits its compact JSON form through the token writer.
package encode

import (
	"encoding"
	stdjson "encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"time"
	"unsafe"

	"github.com/viant/typedjson/internal/fold"
	"github.com/viant/typedjson/token"
	"github.com/viant/xunsafe"
)

// TokenMarshaler lets a type take over its own encoding at the token level.
type TokenMarshaler interface {
	MarshalJSONTokens(w *token.Writer) error
}

var (
	timeType           = reflect.TypeOf(time.Time{})
	emptyStructType    = reflect.TypeOf(struct{}{})
	tokenMarshalerType = reflect.TypeOf((*TokenMarshaler)(nil)).Elem()
	jsonMarshalerType  = reflect.TypeOf((*stdjson.Marshaler)(nil)).Elem()
	textMarshalerType  = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Engine encodes typed values into compact JSON.
type Engine struct {
	omitEmpty     bool
	nilSliceEmpty bool
	timeLayout    string
	caseKey       string
	compileName   func(string) string
}

func New(omitEmpty bool, nilSliceEmpty bool, timeLayout string, caseKey string, compileName func(string) string) *Engine {
	if timeLayout == "" {
		timeLayout = time.RFC3339
	}
	return &Engine{
		omitEmpty:     omitEmpty,
		nilSliceEmpty: nilSliceEmpty,
		timeLayout:    timeLayout,
		caseKey:       caseKey,
		compileName:   compileName,
	}
}

type session struct {
	writer *token.Writer
}

var sessions = sync.Pool{
	New: func() interface{} {
		return &session{writer: token.NewWriter(make([]byte, 0, 512))}
	},
}

// Marshal returns the compact JSON encoding of v.
func (e *Engine) Marshal(v interface{}) ([]byte, error) {
	s := sessions.Get().(*session)
	defer sessions.Put(s)
	s.writer.Reset(s.writer.Bytes()[:0])
	if err := e.encodeRoot(s.writer, v); err != nil {
		return nil, err
	}
	data := s.writer.Bytes()
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// MarshalTo appends the encoding of v to dst.
func (e *Engine) MarshalTo(dst []byte, v interface{}) ([]byte, error) {
	w := token.NewWriter(dst)
	if err := e.encodeRoot(w, v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Encode writes the encoding of v to w.
func (e *Engine) Encode(w io.Writer, v interface{}) error {
	data, err := e.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (e *Engine) encodeRoot(w *token.Writer, v interface{}) error {
	if v == nil {
		w.Null()
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			w.Null()
			return nil
		}
		return e.encodeValue(w, unsafe.Pointer(rv.Pointer()), rv.Type().Elem())
	case reflect.Map, reflect.Chan, reflect.Func:
		// Pointer-shaped values live directly in the interface data word,
		// so they need a copy to get an addressable slot.
		tmp := reflect.New(rv.Type())
		tmp.Elem().Set(rv)
		return e.encodeValue(w, unsafe.Pointer(tmp.Pointer()), rv.Type())
	}
	return e.encodeValue(w, xunsafe.AsPointer(v), rv.Type())
}

func (e *Engine) encodeValue(w *token.Writer, ptr unsafe.Pointer, rt reflect.Type) error {
	if handled, err := e.tryCustomMarshal(w, ptr, rt); handled {
		return err
	}
	if rt == timeType {
		w.String(xunsafe.AsTimePtr(ptr).Format(e.timeLayout))
		return nil
	}
	switch rt.Kind() {
	case reflect.Ptr:
		target := *(*unsafe.Pointer)(ptr)
		if target == nil {
			w.Null()
			return nil
		}
		return e.encodeValue(w, target, rt.Elem())
	case reflect.Bool:
		w.Bool(*xunsafe.AsBoolPtr(ptr))
		return nil
	case reflect.String:
		w.String(*xunsafe.AsStringPtr(ptr))
		return nil
	case reflect.Int:
		w.Int(int64(*xunsafe.AsIntPtr(ptr)))
		return nil
	case reflect.Int8:
		w.Int(int64(*xunsafe.AsInt8Ptr(ptr)))
		return nil
	case reflect.Int16:
		w.Int(int64(*xunsafe.AsInt16Ptr(ptr)))
		return nil
	case reflect.Int32:
		w.Int(int64(*xunsafe.AsInt32Ptr(ptr)))
		return nil
	case reflect.Int64:
		w.Int(*xunsafe.AsInt64Ptr(ptr))
		return nil
	case reflect.Uint:
		w.Uint(uint64(*xunsafe.AsUintPtr(ptr)))
		return nil
	case reflect.Uint8:
		w.Uint(uint64(*xunsafe.AsUint8Ptr(ptr)))
		return nil
	case reflect.Uint16:
		w.Uint(uint64(*xunsafe.AsUint16Ptr(ptr)))
		return nil
	case reflect.Uint32:
		w.Uint(uint64(*xunsafe.AsUint32Ptr(ptr)))
		return nil
	case reflect.Uint64:
		w.Uint(*xunsafe.AsUint64Ptr(ptr))
		return nil
	case reflect.Float32:
		return w.Float32(*xunsafe.AsFloat32Ptr(ptr))
	case reflect.Float64:
		return w.Float(*xunsafe.AsFloat64Ptr(ptr))
	case reflect.Struct:
		return e.encodeStruct(w, ptr, rt)
	case reflect.Slice:
		return e.encodeSlice(w, ptr, rt)
	case reflect.Array:
		return e.encodeArray(w, ptr, rt)
	case reflect.Map:
		if rt.Elem() == emptyStructType {
			return e.encodeSet(w, ptr, rt)
		}
		return e.encodeMap(w, ptr, rt)
	case reflect.Interface:
		v := reflect.NewAt(rt, ptr).Elem()
		if v.IsNil() {
			w.Null()
			return nil
		}
		inner := v.Elem()
		tmp := reflect.New(inner.Type())
		tmp.Elem().Set(inner)
		return e.encodeValue(w, unsafe.Pointer(tmp.Pointer()), inner.Type())
	default:
		return fmt.Errorf("unsupported type: %s", rt)
	}
}

func (e *Engine) tryCustomMarshal(w *token.Writer, ptr unsafe.Pointer, rt reflect.Type) (bool, error) {
	if isTimeTypeOrPtr(rt) {
		return false, nil
	}
	// Nil pointers render as null even when the type carries a marshaler.
	if rt.Kind() == reflect.Ptr && *(*unsafe.Pointer)(ptr) == nil {
		return false, nil
	}
	prt := reflect.PointerTo(rt)
	if prt.Implements(tokenMarshalerType) {
		m := reflect.NewAt(rt, ptr).Interface().(TokenMarshaler)
		return true, m.MarshalJSONTokens(w)
	}
	if prt.Implements(jsonMarshalerType) {
		m := reflect.NewAt(rt, ptr).Interface().(stdjson.Marshaler)
		data, err := m.MarshalJSON()
		if err != nil {
			return true, err
		}
		w.Raw(data)
		return true, nil
	}
	if prt.Implements(textMarshalerType) {
		m := reflect.NewAt(rt, ptr).Interface().(encoding.TextMarshaler)
		text, err := m.MarshalText()
		if err != nil {
			return true, err
		}
		w.String(string(text))
		return true, nil
	}
	return false, nil
}

func isTimeTypeOrPtr(rt reflect.Type) bool {
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	return rt == timeType
}

func (e *Engine) encodeStruct(w *token.Writer, ptr unsafe.Pointer, rt reflect.Type) error {
	plan := planFor(rt, e.caseKey, e.compileName)
	if plan.err != nil {
		return plan.err
	}
	if plan.union != nil {
		return e.encodeUnion(w, ptr, rt, plan)
	}
	w.BeginObject()
	for _, fp := range plan.fields {
		if fp.ignore {
			continue
		}
		fptr := fp.resolve(ptr)
		if fptr == nil {
			continue
		}
		if (fp.omitEmpty || e.omitEmpty) && isEmptyValue(reflect.NewAt(fp.rType, fptr).Elem()) {
			continue
		}
		w.Key(fp.name)
		if err := e.encodeValue(w, fptr, fp.rType); err != nil {
			return err
		}
	}
	w.EndObject()
	return nil
}

// encodeUnion writes the discriminant pair first and then only the fields of
// the active variant.
func (e *Engine) encodeUnion(w *token.Writer, ptr unsafe.Pointer, rt reflect.Type, plan *typePlan) error {
	u := plan.union
	value := *xunsafe.AsStringPtr(u.discriminant.resolve(ptr))
	variant := fold.Normalize(value)
	if _, ok := u.variants[variant]; !ok {
		return fmt.Errorf("unknown variant %q for %s", value, rt)
	}
	w.BeginObject()
	w.Key(u.discriminant.name)
	w.String(value)
	for _, fp := range plan.fields[1:] {
		if fp.ignore || !fp.allowsVariant(variant) {
			continue
		}
		fptr := fp.resolve(ptr)
		if fptr == nil {
			continue
		}
		if (fp.omitEmpty || e.omitEmpty) && isEmptyValue(reflect.NewAt(fp.rType, fptr).Elem()) {
			continue
		}
		w.Key(fp.name)
		if err := e.encodeValue(w, fptr, fp.rType); err != nil {
			return err
		}
	}
	w.EndObject()
	return nil
}

func (e *Engine) encodeSlice(w *token.Writer, ptr unsafe.Pointer, rt reflect.Type) error {
	v := reflect.NewAt(rt, ptr).Elem()
	if v.IsNil() && !e.nilSliceEmpty {
		w.Null()
		return nil
	}
	return e.encodeElements(w, v, rt.Elem())
}

func (e *Engine) encodeArray(w *token.Writer, ptr unsafe.Pointer, rt reflect.Type) error {
	v := reflect.NewAt(rt, ptr).Elem()
	return e.encodeElements(w, v, rt.Elem())
}

func (e *Engine) encodeElements(w *token.Writer, v reflect.Value, elemType reflect.Type) error {
	w.BeginArray()
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if err := e.encodeValue(w, unsafe.Pointer(elem.Addr().Pointer()), elemType); err != nil {
			return err
		}
	}
	w.EndArray()
	return nil
}

// encodeSet writes a map[K]struct{} as a JSON array with deterministic
// element order.
func (e *Engine) encodeSet(w *token.Writer, ptr unsafe.Pointer, rt reflect.Type) error {
	v := reflect.NewAt(rt, ptr).Elem()
	if v.IsNil() {
		if e.nilSliceEmpty {
			w.BeginArray()
			w.EndArray()
			return nil
		}
		w.Null()
		return nil
	}
	keys := sortedKeys(v)
	keyType := rt.Key()
	w.BeginArray()
	for _, key := range keys {
		tmp := reflect.New(keyType)
		tmp.Elem().Set(key)
		if err := e.encodeValue(w, unsafe.Pointer(tmp.Pointer()), keyType); err != nil {
			return err
		}
	}
	w.EndArray()
	return nil
}

func (e *Engine) encodeMap(w *token.Writer, ptr unsafe.Pointer, rt reflect.Type) error {
	v := reflect.NewAt(rt, ptr).Elem()
	if v.IsNil() {
		w.Null()
		return nil
	}
	keys := sortedKeys(v)
	elemType := rt.Elem()
	w.BeginObject()
	for _, key := range keys {
		name, err := keyString(key)
		if err != nil {
			return err
		}
		w.Key(name)
		elem := v.MapIndex(key)
		tmp := reflect.New(elemType)
		tmp.Elem().Set(elem)
		if err := e.encodeValue(w, unsafe.Pointer(tmp.Pointer()), elemType); err != nil {
			return err
		}
	}
	w.EndObject()
	return nil
}

func sortedKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	switch v.Type().Key().Kind() {
	case reflect.String:
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Int() < keys[j].Int() })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Uint() < keys[j].Uint() })
	}
	return keys
}

func keyString(key reflect.Value) (string, error) {
	switch key.Kind() {
	case reflect.String:
		return key.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(key.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(key.Uint(), 10), nil
	default:
		return "", fmt.Errorf("unsupported map key kind: %s", key.Kind())
	}
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
