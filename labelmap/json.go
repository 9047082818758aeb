package labelmap

import (
	"io"

	"github.com/hupe1980/oidrecord/codec"
)

// ReadJSON reads a JSON object of label name to id. A nil codec uses codec.Default.
func ReadJSON(r io.Reader, c codec.Codec) (*Map, error) {
	if c == nil {
		c = codec.Default
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var ids map[string]int64
	if err := c.Unmarshal(data, &ids); err != nil {
		return nil, err
	}

	return FromMap(ids)
}

// MarshalJSON encodes the map as a JSON object of name to id.
func (m *Map) MarshalJSON() ([]byte, error) {
	return codec.Default.Marshal(m.ids)
}
