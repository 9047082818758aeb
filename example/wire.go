package example

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// tf.Example field numbers.
const (
	fieldExampleFeatures protowire.Number = 1 // Example.features
	fieldFeaturesMap     protowire.Number = 1 // Features.feature
	fieldEntryKey        protowire.Number = 1 // map entry key
	fieldEntryValue      protowire.Number = 2 // map entry value
	fieldBytesList       protowire.Number = 1 // Feature.bytes_list
	fieldFloatList       protowire.Number = 2 // Feature.float_list
	fieldInt64List       protowire.Number = 3 // Feature.int64_list
	fieldListValue       protowire.Number = 1 // *List.value
)

// Marshal encodes e as a serialized tf.Example. Map entries are emitted in
// sorted key order and numeric lists are packed.
func (e *Example) Marshal() ([]byte, error) {
	return e.MarshalAppend(nil)
}

// MarshalAppend appends the serialized tf.Example to b.
func (e *Example) MarshalAppend(b []byte) ([]byte, error) {
	var features []byte
	for _, key := range e.Keys() {
		f := e.features[key]

		value, err := appendFeature(nil, f)
		if err != nil {
			return nil, fmt.Errorf("example: feature %q: %w", key, err)
		}

		var entry []byte
		entry = protowire.AppendTag(entry, fieldEntryKey, protowire.BytesType)
		entry = protowire.AppendString(entry, key)
		entry = protowire.AppendTag(entry, fieldEntryValue, protowire.BytesType)
		entry = protowire.AppendBytes(entry, value)

		features = protowire.AppendTag(features, fieldFeaturesMap, protowire.BytesType)
		features = protowire.AppendBytes(features, entry)
	}

	b = protowire.AppendTag(b, fieldExampleFeatures, protowire.BytesType)
	b = protowire.AppendBytes(b, features)
	return b, nil
}

func appendFeature(b []byte, f Feature) ([]byte, error) {
	var list []byte

	switch f.kind {
	case KindBytes:
		for _, v := range f.bytes {
			list = protowire.AppendTag(list, fieldListValue, protowire.BytesType)
			list = protowire.AppendBytes(list, v)
		}
		b = protowire.AppendTag(b, fieldBytesList, protowire.BytesType)
	case KindFloat:
		if len(f.floats) > 0 {
			packed := make([]byte, 0, 4*len(f.floats))
			for _, v := range f.floats {
				packed = protowire.AppendFixed32(packed, math.Float32bits(v))
			}
			list = protowire.AppendTag(list, fieldListValue, protowire.BytesType)
			list = protowire.AppendBytes(list, packed)
		}
		b = protowire.AppendTag(b, fieldFloatList, protowire.BytesType)
	case KindInt64:
		if len(f.ints) > 0 {
			var packed []byte
			for _, v := range f.ints {
				packed = protowire.AppendVarint(packed, uint64(v))
			}
			list = protowire.AppendTag(list, fieldListValue, protowire.BytesType)
			list = protowire.AppendBytes(list, packed)
		}
		b = protowire.AppendTag(b, fieldInt64List, protowire.BytesType)
	default:
		return nil, fmt.Errorf("unset feature kind %d", f.kind)
	}

	return protowire.AppendBytes(b, list), nil
}

// Unmarshal decodes a serialized tf.Example. Unknown fields are skipped and
// both packed and unpacked numeric lists are accepted.
func Unmarshal(b []byte) (*Example, error) {
	features := make(map[string]Feature)

	err := walk(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num != fieldExampleFeatures || typ != protowire.BytesType {
			return nil
		}
		return walk(v, func(num protowire.Number, typ protowire.Type, entry []byte) error {
			if num != fieldFeaturesMap || typ != protowire.BytesType {
				return nil
			}
			key, f, err := unmarshalEntry(entry)
			if err != nil {
				return err
			}
			features[key] = f
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return &Example{features: features}, nil
}

func unmarshalEntry(b []byte) (string, Feature, error) {
	var (
		key string
		f   Feature
	)

	err := walk(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case fieldEntryKey:
			key = string(v)
		case fieldEntryValue:
			var err error
			f, err = unmarshalFeature(v)
			return err
		}
		return nil
	})

	return key, f, err
}

func unmarshalFeature(b []byte) (Feature, error) {
	var f Feature

	err := walk(b, func(num protowire.Number, typ protowire.Type, list []byte) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case fieldBytesList:
			f = Feature{kind: KindBytes, bytes: [][]byte{}}
			return walk(list, func(num protowire.Number, typ protowire.Type, v []byte) error {
				if num == fieldListValue && typ == protowire.BytesType {
					f.bytes = append(f.bytes, append([]byte(nil), v...))
				}
				return nil
			})
		case fieldFloatList:
			f = Feature{kind: KindFloat, floats: []float32{}}
			return walkNumeric(list, protowire.Fixed32Type, func(raw []byte) (int, error) {
				v, n := protowire.ConsumeFixed32(raw)
				if n < 0 {
					return n, protowire.ParseError(n)
				}
				f.floats = append(f.floats, math.Float32frombits(v))
				return n, nil
			})
		case fieldInt64List:
			f = Feature{kind: KindInt64, ints: []int64{}}
			return walkNumeric(list, protowire.VarintType, func(raw []byte) (int, error) {
				v, n := protowire.ConsumeVarint(raw)
				if n < 0 {
					return n, protowire.ParseError(n)
				}
				f.ints = append(f.ints, int64(v))
				return n, nil
			})
		}
		return nil
	})

	return f, err
}

// walk calls fn for every field of a message. Only length-delimited
// payloads are passed as v; other wire types get a nil v.
func walk(b []byte, fn func(num protowire.Number, typ protowire.Type, v []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrInvalidWire, protowire.ParseError(n))
		}
		b = b[n:]

		var v []byte
		if typ == protowire.BytesType {
			v, n = protowire.ConsumeBytes(b)
		} else {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrInvalidWire, protowire.ParseError(n))
		}
		b = b[n:]

		if err := fn(num, typ, v); err != nil {
			return err
		}
	}
	return nil
}

// walkNumeric decodes the value field of a numeric list in packed or
// unpacked form. consume decodes one scalar and returns its length.
func walkNumeric(b []byte, scalar protowire.Type, consume func([]byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrInvalidWire, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldListValue && typ == protowire.BytesType:
			packed, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return fmt.Errorf("%w: %v", ErrInvalidWire, protowire.ParseError(m))
			}
			for len(packed) > 0 {
				k, err := consume(packed)
				if err != nil {
					return fmt.Errorf("%w: %v", ErrInvalidWire, err)
				}
				packed = packed[k:]
			}
			b = b[m:]
		case num == fieldListValue && typ == scalar:
			k, err := consume(b)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidWire, err)
			}
			b = b[k:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return fmt.Errorf("%w: %v", ErrInvalidWire, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return nil
}
