package example

import (
	"maps"
	"slices"
)

// Kind is the value type of a Feature.
type Kind uint8

const (
	KindBytes Kind = iota + 1
	KindFloat
	KindInt64
)

func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindFloat:
		return "float"
	case KindInt64:
		return "int64"
	default:
		return "unknown"
	}
}

// Feature is a typed list of values. Only the list matching Kind is set.
type Feature struct {
	kind   Kind
	bytes  [][]byte
	floats []float32
	ints   []int64
}

// BytesFeature returns a bytes list feature.
func BytesFeature(values ...[]byte) Feature {
	return Feature{kind: KindBytes, bytes: values}
}

// StringFeature returns a bytes list feature holding UTF-8 strings.
func StringFeature(values ...string) Feature {
	b := make([][]byte, len(values))
	for i, v := range values {
		b[i] = []byte(v)
	}
	return Feature{kind: KindBytes, bytes: b}
}

// FloatFeature returns a float list feature.
func FloatFeature(values ...float32) Feature {
	return Feature{kind: KindFloat, floats: values}
}

// Int64Feature returns an int64 list feature.
func Int64Feature(values ...int64) Feature {
	return Feature{kind: KindInt64, ints: values}
}

func (f Feature) Kind() Kind { return f.kind }

// Len returns the number of values in the list.
func (f Feature) Len() int {
	switch f.kind {
	case KindBytes:
		return len(f.bytes)
	case KindFloat:
		return len(f.floats)
	case KindInt64:
		return len(f.ints)
	default:
		return 0
	}
}

func (f Feature) Bytes() [][]byte { return f.bytes }
func (f Feature) Floats() []float32 { return f.floats }
func (f Feature) Int64s() []int64 { return f.ints }

// Strings returns a bytes list as strings.
func (f Feature) Strings() []string {
	if f.kind != KindBytes {
		return nil
	}
	out := make([]string, len(f.bytes))
	for i, b := range f.bytes {
		out[i] = string(b)
	}
	return out
}

// Example is an immutable keyed set of features.
type Example struct {
	features map[string]Feature
}

// New returns an Example holding a copy of features.
func New(features map[string]Feature) *Example {
	return &Example{features: maps.Clone(features)}
}

// Feature returns the feature stored under key.
func (e *Example) Feature(key string) (Feature, bool) {
	f, ok := e.features[key]
	return f, ok
}

// Has reports whether key is present.
func (e *Example) Has(key string) bool {
	_, ok := e.features[key]
	return ok
}

// Keys returns the feature keys in sorted order.
func (e *Example) Keys() []string {
	return slices.Sorted(maps.Keys(e.features))
}

// Len returns the number of features.
func (e *Example) Len() int { return len(e.features) }

// Bytes returns the bytes list under key, or nil.
func (e *Example) Bytes(key string) [][]byte { return e.features[key].bytes }

// Strings returns the bytes list under key as strings, or nil.
func (e *Example) Strings(key string) []string {
	f, ok := e.features[key]
	if !ok {
		return nil
	}
	return f.Strings()
}

// Floats returns the float list under key, or nil.
func (e *Example) Floats(key string) []float32 { return e.features[key].floats }

// Int64s returns the int64 list under key, or nil.
func (e *Example) Int64s(key string) []int64 { return e.features[key].ints }
