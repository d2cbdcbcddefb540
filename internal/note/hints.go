package note

import (
	"fmt"
	"strconv"
)

// Well-known hint keys.
const (
	HintUrgency      = "urgency"
	HintResident     = "resident"
	HintTransient    = "transient"
	HintCategory     = "category"
	HintDesktopEntry = "desktop-entry"
)

// HintKind identifies the type carried by a HintValue.
type HintKind int

const (
	HintOther HintKind = iota
	HintInt32
	HintByte
	HintBool
	HintString
)

// String returns the kind name.
func (k HintKind) String() string {
	switch k {
	case HintInt32:
		return "int32"
	case HintByte:
		return "byte"
	case HintBool:
		return "bool"
	case HintString:
		return "string"
	default:
		return "other"
	}
}

// HintValue is a tagged hint value.
type HintValue struct {
	kind  HintKind
	i     int32
	b     byte
	flag  bool
	s     string
	other any
}

func Int32Hint(v int32) HintValue   { return HintValue{kind: HintInt32, i: v} }
func ByteHint(v byte) HintValue     { return HintValue{kind: HintByte, b: v} }
func BoolHint(v bool) HintValue     { return HintValue{kind: HintBool, flag: v} }
func StringHint(v string) HintValue { return HintValue{kind: HintString, s: v} }

// OtherHint wraps a value of a type the engine does not interpret.
func OtherHint(v any) HintValue { return HintValue{kind: HintOther, other: v} }

// Kind returns the type carried by v.
func (v HintValue) Kind() HintKind { return v.kind }

// String renders the value whatever its kind.
func (v HintValue) String() string {
	switch v.kind {
	case HintInt32:
		return strconv.FormatInt(int64(v.i), 10)
	case HintByte:
		return strconv.FormatUint(uint64(v.b), 10)
	case HintBool:
		return strconv.FormatBool(v.flag)
	case HintString:
		return v.s
	default:
		if v.other == nil {
			return ""
		}
		return fmt.Sprint(v.other)
	}
}

// Hints holds a note's out-of-band annotations. A nil Hints is empty.
type Hints map[string]HintValue

// Get returns the value for key. It reports false when the key is missing
// or its value is of a kind the engine does not support.
func (h Hints) Get(key string) (HintValue, bool) {
	v, ok := h[key]
	if !ok || v.kind == HintOther {
		return HintValue{}, false
	}
	return v, true
}

// Int32 returns the int32 stored under key.
func (h Hints) Int32(key string) (int32, bool) {
	v, ok := h[key]
	if !ok || v.kind != HintInt32 {
		return 0, false
	}
	return v.i, true
}

// Byte returns the byte stored under key.
func (h Hints) Byte(key string) (byte, bool) {
	v, ok := h[key]
	if !ok || v.kind != HintByte {
		return 0, false
	}
	return v.b, true
}

// Bool returns the bool stored under key.
func (h Hints) Bool(key string) (bool, bool) {
	v, ok := h[key]
	if !ok || v.kind != HintBool {
		return false, false
	}
	return v.flag, true
}

// String returns the string stored under key.
func (h Hints) String(key string) (string, bool) {
	v, ok := h[key]
	if !ok || v.kind != HintString {
		return "", false
	}
	return v.s, true
}

// AsString renders the value under key for display, including values of
// unsupported kinds. Missing keys render as "".
func (h Hints) AsString(key string) string {
	v, ok := h[key]
	if !ok {
		return ""
	}
	return v.String()
}
