// Package decode implements the type-directed decode engine: it consumes
// the tokens of one JSON value from a cursor and builds a value of the
// target type, with no intermediate tree on typed paths.
package decode

import (
	"encoding"
	stdjson "encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"
	"unsafe"

	"github.com/viant/typedjson/internal/fold"
	"github.com/viant/typedjson/token"
	"github.com/viant/xunsafe"
)

// UnknownFieldPolicy controls unknown key handling.
type UnknownFieldPolicy int

const (
	ErrorOnUnknown UnknownFieldPolicy = iota
	IgnoreUnknown
)

// DuplicateKeyPolicy controls duplicate object keys, record fields and set
// elements.
type DuplicateKeyPolicy int

const (
	ErrorOnDuplicate DuplicateKeyPolicy = iota
	LastWins
)

// MalformedPolicy controls trailing-comma tolerance.
type MalformedPolicy int

const (
	FailFast MalformedPolicy = iota
	TolerateTrailingComma
)

// TokenUnmarshaler lets a type take over its own decoding at the token
// level; the implementation must leave the cursor on the first token after
// the value it consumed.
type TokenUnmarshaler interface {
	UnmarshalJSONTokens(cur *token.Cursor) error
}

var (
	timeType             = reflect.TypeOf(time.Time{})
	emptyStructType      = reflect.TypeOf(struct{}{})
	tokenUnmarshalerType = reflect.TypeOf((*TokenUnmarshaler)(nil)).Elem()
	jsonUnmarshalerType  = reflect.TypeOf((*stdjson.Unmarshaler)(nil)).Elem()
	textUnmarshalerType  = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Engine decodes token streams into typed destinations.
type Engine struct {
	UnknownFieldPolicy UnknownFieldPolicy
	DuplicateKeyPolicy DuplicateKeyPolicy
	MalformedPolicy    MalformedPolicy
	timeLayout         string
	caseKey            string
	compileName        func(string) string
}

func New(unknown UnknownFieldPolicy, duplicates DuplicateKeyPolicy, malformed MalformedPolicy, timeLayout string, caseKey string, compileName func(string) string) *Engine {
	if timeLayout == "" {
		timeLayout = time.RFC3339
	}
	return &Engine{
		UnknownFieldPolicy: unknown,
		DuplicateKeyPolicy: duplicates,
		MalformedPolicy:    malformed,
		timeLayout:         timeLayout,
		caseKey:            caseKey,
		compileName:        compileName,
	}
}

// Decode consumes one JSON value from cur into dest, which must be a
// non-nil pointer. On success the cursor sits on the first token following
// the value.
func (e *Engine) Decode(cur *token.Cursor, dest interface{}) error {
	if dest == nil {
		return fmt.Errorf("nil destination")
	}
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr {
		return fmt.Errorf("destination must be pointer, got %s", rv.Type())
	}
	if rv.IsNil() {
		return fmt.Errorf("nil destination")
	}
	return e.decodeValue(cur, xunsafe.AsPointer(dest), rv.Type().Elem())
}

func (e *Engine) decodeValue(cur *token.Cursor, ptr unsafe.Pointer, rt reflect.Type) error {
	if handled, err := e.tryCustomUnmarshal(cur, ptr, rt); handled {
		return err
	}
	if rt == timeType {
		return e.decodeTime(cur, ptr)
	}
	switch rt.Kind() {
	case reflect.Ptr:
		return e.decodeOptional(cur, ptr, rt)
	case reflect.Bool:
		switch cur.Kind() {
		case token.KindTrue:
			*xunsafe.AsBoolPtr(ptr) = true
		case token.KindFalse:
			*xunsafe.AsBoolPtr(ptr) = false
		default:
			return e.mismatch(cur, "bool")
		}
		return cur.Advance()
	case reflect.String:
		if cur.Kind() != token.KindString {
			return e.mismatch(cur, "string")
		}
		*xunsafe.AsStringPtr(ptr) = cur.Current().Text
		return cur.Advance()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.decodeInt(cur, ptr, rt)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return e.decodeUint(cur, ptr, rt)
	case reflect.Float32, reflect.Float64:
		return e.decodeFloat(cur, ptr, rt)
	case reflect.Struct:
		return e.decodeStruct(cur, ptr, rt)
	case reflect.Slice:
		return e.decodeSlice(cur, ptr, rt)
	case reflect.Array:
		return e.decodeArray(cur, ptr, rt)
	case reflect.Map:
		if rt.Elem() == emptyStructType {
			return e.decodeSet(cur, ptr, rt)
		}
		return e.decodeMap(cur, ptr, rt)
	case reflect.Interface:
		if rt.NumMethod() != 0 {
			return fmt.Errorf("cannot decode into non-empty interface %s", rt)
		}
		v, err := e.decodeInterface(cur)
		if err != nil {
			return err
		}
		reflect.NewAt(rt, ptr).Elem().Set(reflect.ValueOf(&v).Elem())
		return nil
	default:
		return fmt.Errorf("unsupported type: %s", rt)
	}
}

func (e *Engine) mismatch(cur *token.Cursor, expected string) error {
	return &TypeMismatchError{Expected: expected, Actual: cur.Kind(), Offset: cur.Offset()}
}

func (e *Engine) tryCustomUnmarshal(cur *token.Cursor, ptr unsafe.Pointer, rt reflect.Type) (bool, error) {
	if isTimeTypeOrPtr(rt) {
		return false, nil
	}
	prt := reflect.PointerTo(rt)
	if prt.Implements(tokenUnmarshalerType) {
		u := reflect.NewAt(rt, ptr).Interface().(TokenUnmarshaler)
		return true, u.UnmarshalJSONTokens(cur)
	}
	if prt.Implements(jsonUnmarshalerType) {
		parsed, err := e.decodeInterface(cur)
		if err != nil {
			return true, err
		}
		data, err := stdjson.Marshal(parsed)
		if err != nil {
			return true, err
		}
		u := reflect.NewAt(rt, ptr).Interface().(stdjson.Unmarshaler)
		return true, u.UnmarshalJSON(data)
	}
	if prt.Implements(textUnmarshalerType) {
		if cur.Kind() == token.KindNull {
			return true, cur.Advance()
		}
		if cur.Kind() != token.KindString {
			return true, e.mismatch(cur, "string")
		}
		text := cur.Current().Text
		if err := cur.Advance(); err != nil {
			return true, err
		}
		u := reflect.NewAt(rt, ptr).Interface().(encoding.TextUnmarshaler)
		return true, u.UnmarshalText([]byte(text))
	}
	return false, nil
}

func isTimeTypeOrPtr(rt reflect.Type) bool {
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	return rt == timeType
}

func (e *Engine) decodeTime(cur *token.Cursor, ptr unsafe.Pointer) error {
	if cur.Kind() != token.KindString {
		return e.mismatch(cur, "time string")
	}
	tm, err := time.Parse(e.timeLayout, cur.Current().Text)
	if err != nil {
		return err
	}
	*xunsafe.AsTimePtr(ptr) = tm
	return cur.Advance()
}

// decodeOptional maps null to absent (nil pointer) and anything else to a
// present inner value.
func (e *Engine) decodeOptional(cur *token.Cursor, ptr unsafe.Pointer, rt reflect.Type) error {
	if cur.Kind() == token.KindNull {
		*(*unsafe.Pointer)(ptr) = nil
		return cur.Advance()
	}
	target := *(*unsafe.Pointer)(ptr)
	if target == nil {
		alloc := reflect.New(rt.Elem())
		target = unsafe.Pointer(alloc.Pointer())
		*(*unsafe.Pointer)(ptr) = target
	}
	return e.decodeValue(cur, target, rt.Elem())
}

func (e *Engine) decodeInt(cur *token.Cursor, ptr unsafe.Pointer, rt reflect.Type) error {
	if cur.Kind() != token.KindNumber {
		return e.mismatch(cur, "number")
	}
	text := cur.Current().Text
	i, err := strconv.ParseInt(text, 10, rt.Bits())
	if err != nil {
		if isRangeError(err) {
			return fmt.Errorf("number out of range for %s: %s", rt, text)
		}
		return e.mismatch(cur, "integer")
	}
	switch rt.Kind() {
	case reflect.Int:
		*xunsafe.AsIntPtr(ptr) = int(i)
	case reflect.Int8:
		*xunsafe.AsInt8Ptr(ptr) = int8(i)
	case reflect.Int16:
		*xunsafe.AsInt16Ptr(ptr) = int16(i)
	case reflect.Int32:
		*xunsafe.AsInt32Ptr(ptr) = int32(i)
	case reflect.Int64:
		*xunsafe.AsInt64Ptr(ptr) = i
	}
	return cur.Advance()
}

func (e *Engine) decodeUint(cur *token.Cursor, ptr unsafe.Pointer, rt reflect.Type) error {
	if cur.Kind() != token.KindNumber {
		return e.mismatch(cur, "number")
	}
	text := cur.Current().Text
	u, err := strconv.ParseUint(text, 10, rt.Bits())
	if err != nil {
		if isRangeError(err) {
			return fmt.Errorf("number out of range for %s: %s", rt, text)
		}
		return e.mismatch(cur, "unsigned integer")
	}
	switch rt.Kind() {
	case reflect.Uint:
		*xunsafe.AsUintPtr(ptr) = uint(u)
	case reflect.Uint8:
		*xunsafe.AsUint8Ptr(ptr) = uint8(u)
	case reflect.Uint16:
		*xunsafe.AsUint16Ptr(ptr) = uint16(u)
	case reflect.Uint32:
		*xunsafe.AsUint32Ptr(ptr) = uint32(u)
	case reflect.Uint64:
		*xunsafe.AsUint64Ptr(ptr) = u
	}
	return cur.Advance()
}

func (e *Engine) decodeFloat(cur *token.Cursor, ptr unsafe.Pointer, rt reflect.Type) error {
	if cur.Kind() != token.KindNumber {
		return e.mismatch(cur, "number")
	}
	f, err := strconv.ParseFloat(cur.Current().Text, rt.Bits())
	if err != nil {
		return e.mismatch(cur, "number")
	}
	if rt.Kind() == reflect.Float32 {
		*xunsafe.AsFloat32Ptr(ptr) = float32(f)
	} else {
		*xunsafe.AsFloat64Ptr(ptr) = f
	}
	return cur.Advance()
}

func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

func (e *Engine) decodeStruct(cur *token.Cursor, ptr unsafe.Pointer, rt reflect.Type) error {
	plan := planFor(rt, e.caseKey, e.compileName)
	if plan.err != nil {
		return plan.err
	}
	if plan.union != nil {
		return e.decodeUnion(cur, ptr, rt, plan)
	}
	if cur.Kind() != token.KindObjectOpen {
		return e.mismatch(cur, "object")
	}
	if err := cur.Advance(); err != nil {
		return err
	}
	if cur.Kind() == token.KindObjectClose {
		return cur.Advance()
	}
	var seen map[*fieldPlan]struct{}
	if e.DuplicateKeyPolicy == ErrorOnDuplicate {
		seen = make(map[*fieldPlan]struct{}, len(plan.fields))
	}
	for {
		if cur.Kind() != token.KindString {
			return cur.ParseError("object key")
		}
		key := cur.Current().Text
		keyOffset := cur.Offset()
		if err := cur.Advance(); err != nil {
			return err
		}
		if err := cur.Expect(token.KindColon); err != nil {
			return err
		}
		fp, ok := lookupField(plan, key)
		switch {
		case !ok:
			if e.UnknownFieldPolicy == ErrorOnUnknown {
				return &UnknownFieldError{Field: key, Type: rt.String(), Offset: keyOffset}
			}
			if err := cur.SkipValue(); err != nil {
				return err
			}
		case fp.ignore:
			if err := cur.SkipValue(); err != nil {
				return err
			}
		default:
			if seen != nil {
				if _, exists := seen[fp]; exists {
					return &token.ParseError{Label: cur.Label(), Offset: keyOffset, Message: fmt.Sprintf("duplicate field %s", key)}
				}
				seen[fp] = struct{}{}
			}
			if err := e.decodeValue(cur, fp.resolve(ptr), fp.rType); err != nil {
				return err
			}
		}
		done, err := e.objectSeparator(cur)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// objectSeparator consumes the ',' or '}' after a member and reports whether
// the object ended.
func (e *Engine) objectSeparator(cur *token.Cursor) (bool, error) {
	switch cur.Kind() {
	case token.KindObjectClose:
		return true, cur.Advance()
	case token.KindComma:
		if err := cur.Advance(); err != nil {
			return false, err
		}
		if cur.Kind() == token.KindObjectClose {
			if e.MalformedPolicy == TolerateTrailingComma {
				return true, cur.Advance()
			}
			return false, cur.ParseError("object key")
		}
		return false, nil
	case token.KindEOF:
		return false, cur.ParseErrorf("unexpected end of input in object")
	default:
		return false, cur.ParseError("',' or '}'")
	}
}

// arraySeparator is the array counterpart of objectSeparator.
func (e *Engine) arraySeparator(cur *token.Cursor) (bool, error) {
	switch cur.Kind() {
	case token.KindArrayClose:
		return true, cur.Advance()
	case token.KindComma:
		if err := cur.Advance(); err != nil {
			return false, err
		}
		if cur.Kind() == token.KindArrayClose {
			if e.MalformedPolicy == TolerateTrailingComma {
				return true, cur.Advance()
			}
			return false, cur.ParseError("value")
		}
		return false, nil
	case token.KindEOF:
		return false, cur.ParseErrorf("unexpected end of input in array")
	default:
		return false, cur.ParseError("',' or ']'")
	}
}

// decodeUnion decodes a tagged union: the discriminant pair must come first,
// and only the active variant's fields are legal after it.
func (e *Engine) decodeUnion(cur *token.Cursor, ptr unsafe.Pointer, rt reflect.Type, plan *typePlan) error {
	if cur.Kind() != token.KindObjectOpen {
		return e.mismatch(cur, "object")
	}
	if err := cur.Advance(); err != nil {
		return err
	}
	u := plan.union
	if cur.Kind() != token.KindString {
		return cur.ParseErrorf(fmt.Sprintf("discriminant field %s must be first", u.discriminant.name))
	}
	firstKey := cur.Current().Text
	fp, ok := lookupField(plan, firstKey)
	if !ok || fp != u.discriminant {
		return cur.ParseErrorf(fmt.Sprintf("discriminant field %s must be first", u.discriminant.name))
	}
	if err := cur.Advance(); err != nil {
		return err
	}
	if err := cur.Expect(token.KindColon); err != nil {
		return err
	}
	if cur.Kind() != token.KindString {
		return e.mismatch(cur, "string")
	}
	variantValue := cur.Current().Text
	variant := fold.Normalize(variantValue)
	if _, ok := u.variants[variant]; !ok {
		return cur.ParseErrorf(fmt.Sprintf("unknown variant %q for %s", variantValue, rt))
	}
	*xunsafe.AsStringPtr(u.discriminant.resolve(ptr)) = variantValue
	if err := cur.Advance(); err != nil {
		return err
	}
	done, err := e.objectSeparator(cur)
	if err != nil {
		return err
	}
	var seen map[*fieldPlan]struct{}
	if e.DuplicateKeyPolicy == ErrorOnDuplicate {
		seen = make(map[*fieldPlan]struct{}, len(plan.fields))
	}
	for !done {
		if cur.Kind() != token.KindString {
			return cur.ParseError("object key")
		}
		key := cur.Current().Text
		keyOffset := cur.Offset()
		if err := cur.Advance(); err != nil {
			return err
		}
		if err := cur.Expect(token.KindColon); err != nil {
			return err
		}
		fp, ok := lookupField(plan, key)
		if !ok || fp == u.discriminant || !fp.allowsVariant(variant) {
			// Fields of other variants are unknown keys for the active one.
			if e.UnknownFieldPolicy == ErrorOnUnknown {
				return &UnknownFieldError{Field: key, Type: rt.String(), Offset: keyOffset}
			}
			if err := cur.SkipValue(); err != nil {
				return err
			}
		} else {
			if seen != nil {
				if _, exists := seen[fp]; exists {
					return &token.ParseError{Label: cur.Label(), Offset: keyOffset, Message: fmt.Sprintf("duplicate field %s", key)}
				}
				seen[fp] = struct{}{}
			}
			if err := e.decodeValue(cur, fp.resolve(ptr), fp.rType); err != nil {
				return err
			}
		}
		done, err = e.objectSeparator(cur)
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) decodeSlice(cur *token.Cursor, ptr unsafe.Pointer, rt reflect.Type) error {
	if cur.Kind() == token.KindNull {
		reflect.NewAt(rt, ptr).Elem().Set(reflect.Zero(rt))
		return cur.Advance()
	}
	if cur.Kind() != token.KindArrayOpen {
		return e.mismatch(cur, "array")
	}
	if err := cur.Advance(); err != nil {
		return err
	}
	slice := reflect.MakeSlice(rt, 0, 4)
	elemType := rt.Elem()
	if cur.Kind() == token.KindArrayClose {
		reflect.NewAt(rt, ptr).Elem().Set(slice)
		return cur.Advance()
	}
	for {
		elem := reflect.New(elemType)
		if err := e.decodeValue(cur, unsafe.Pointer(elem.Pointer()), elemType); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem.Elem())
		done, err := e.arraySeparator(cur)
		if err != nil {
			return err
		}
		if done {
			reflect.NewAt(rt, ptr).Elem().Set(slice)
			return nil
		}
	}
}

func (e *Engine) decodeArray(cur *token.Cursor, ptr unsafe.Pointer, rt reflect.Type) error {
	if cur.Kind() != token.KindArrayOpen {
		return e.mismatch(cur, "array")
	}
	if err := cur.Advance(); err != nil {
		return err
	}
	arr := reflect.NewAt(rt, ptr).Elem()
	elemType := rt.Elem()
	if cur.Kind() == token.KindArrayClose {
		return cur.Advance()
	}
	index := 0
	for {
		if index < arr.Len() {
			elem := reflect.New(elemType)
			if err := e.decodeValue(cur, unsafe.Pointer(elem.Pointer()), elemType); err != nil {
				return err
			}
			arr.Index(index).Set(elem.Elem())
		} else if err := cur.SkipValue(); err != nil {
			return err
		}
		index++
		done, err := e.arraySeparator(cur)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// decodeSet reads a JSON array into a map[K]struct{} target, applying the
// duplicate policy to repeated elements.
func (e *Engine) decodeSet(cur *token.Cursor, ptr unsafe.Pointer, rt reflect.Type) error {
	if cur.Kind() == token.KindNull {
		reflect.NewAt(rt, ptr).Elem().Set(reflect.Zero(rt))
		return cur.Advance()
	}
	if cur.Kind() != token.KindArrayOpen {
		return e.mismatch(cur, "array")
	}
	if err := cur.Advance(); err != nil {
		return err
	}
	m := reflect.MakeMap(rt)
	keyType := rt.Key()
	member := reflect.ValueOf(struct{}{})
	if cur.Kind() == token.KindArrayClose {
		reflect.NewAt(rt, ptr).Elem().Set(m)
		return cur.Advance()
	}
	for {
		elemOffset := cur.Offset()
		elem := reflect.New(keyType)
		if err := e.decodeValue(cur, unsafe.Pointer(elem.Pointer()), keyType); err != nil {
			return err
		}
		if e.DuplicateKeyPolicy == ErrorOnDuplicate && m.MapIndex(elem.Elem()).IsValid() {
			return &token.ParseError{Label: cur.Label(), Offset: elemOffset, Message: fmt.Sprintf("duplicate set element %v", elem.Elem())}
		}
		m.SetMapIndex(elem.Elem(), member)
		done, err := e.arraySeparator(cur)
		if err != nil {
			return err
		}
		if done {
			reflect.NewAt(rt, ptr).Elem().Set(m)
			return nil
		}
	}
}

func (e *Engine) decodeMap(cur *token.Cursor, ptr unsafe.Pointer, rt reflect.Type) error {
	if cur.Kind() == token.KindNull {
		reflect.NewAt(rt, ptr).Elem().Set(reflect.Zero(rt))
		return cur.Advance()
	}
	if rt.Key().Kind() != reflect.String {
		return fmt.Errorf("unsupported map key kind: %s", rt.Key().Kind())
	}
	if cur.Kind() != token.KindObjectOpen {
		return e.mismatch(cur, "object")
	}
	if err := cur.Advance(); err != nil {
		return err
	}
	m := reflect.MakeMap(rt)
	keyType := rt.Key()
	elemType := rt.Elem()
	if cur.Kind() == token.KindObjectClose {
		reflect.NewAt(rt, ptr).Elem().Set(m)
		return cur.Advance()
	}
	for {
		if cur.Kind() != token.KindString {
			return cur.ParseError("object key")
		}
		key := cur.Current().Text
		keyOffset := cur.Offset()
		if err := cur.Advance(); err != nil {
			return err
		}
		if err := cur.Expect(token.KindColon); err != nil {
			return err
		}
		mapKey := reflect.New(keyType).Elem()
		mapKey.SetString(key)
		if e.DuplicateKeyPolicy == ErrorOnDuplicate && m.MapIndex(mapKey).IsValid() {
			return &token.ParseError{Label: cur.Label(), Offset: keyOffset, Message: fmt.Sprintf("duplicate field %s", key)}
		}
		elem := reflect.New(elemType)
		if err := e.decodeValue(cur, unsafe.Pointer(elem.Pointer()), elemType); err != nil {
			return err
		}
		m.SetMapIndex(mapKey, elem.Elem())
		done, err := e.objectSeparator(cur)
		if err != nil {
			return err
		}
		if done {
			reflect.NewAt(rt, ptr).Elem().Set(m)
			return nil
		}
	}
}

// decodeInterface decodes one value generically: objects become
// map[string]interface{}, arrays []interface{}, numbers int64, uint64 or
// float64, and null nil.
func (e *Engine) decodeInterface(cur *token.Cursor) (interface{}, error) {
	switch cur.Kind() {
	case token.KindNull:
		return nil, cur.Advance()
	case token.KindTrue:
		return true, cur.Advance()
	case token.KindFalse:
		return false, cur.Advance()
	case token.KindString:
		s := cur.Current().Text
		return s, cur.Advance()
	case token.KindNumber:
		text := cur.Current().Text
		if err := cur.Advance(); err != nil {
			return nil, err
		}
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return i, nil
		}
		if u, err := strconv.ParseUint(text, 10, 64); err == nil {
			return u, nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	case token.KindObjectOpen:
		if err := cur.Advance(); err != nil {
			return nil, err
		}
		obj := map[string]interface{}{}
		if cur.Kind() == token.KindObjectClose {
			return obj, cur.Advance()
		}
		for {
			if cur.Kind() != token.KindString {
				return nil, cur.ParseError("object key")
			}
			key := cur.Current().Text
			keyOffset := cur.Offset()
			if err := cur.Advance(); err != nil {
				return nil, err
			}
			if err := cur.Expect(token.KindColon); err != nil {
				return nil, err
			}
			if _, exists := obj[key]; exists && e.DuplicateKeyPolicy == ErrorOnDuplicate {
				return nil, &token.ParseError{Label: cur.Label(), Offset: keyOffset, Message: fmt.Sprintf("duplicate field %s", key)}
			}
			val, err := e.decodeInterface(cur)
			if err != nil {
				return nil, err
			}
			obj[key] = val
			done, err := e.objectSeparator(cur)
			if err != nil {
				return nil, err
			}
			if done {
				return obj, nil
			}
		}
	case token.KindArrayOpen:
		if err := cur.Advance(); err != nil {
			return nil, err
		}
		arr := make([]interface{}, 0, 4)
		if cur.Kind() == token.KindArrayClose {
			return arr, cur.Advance()
		}
		for {
			val, err := e.decodeInterface(cur)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
			done, err := e.arraySeparator(cur)
			if err != nil {
				return nil, err
			}
			if done {
				return arr, nil
			}
		}
	default:
		return nil, cur.ParseError("value")
	}
}
