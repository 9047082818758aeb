package shard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	tests := []struct {
		base         string
		index, count int
		want         string
	}{
		{"test.tfrec", 3, 10, "test.tfrec-00003-of-00010"},
		{"out/train", 0, 1, "out/train-00000-of-00001"},
		{"b", 99999, 100000, "b-099999-of-100000"},
		{"b", 7, 1234567, "b-0000007-of-1234567"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Name(tt.base, tt.index, tt.count))
	}
}

func TestNames(t *testing.T) {
	names, err := Names("x", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"x-00000-of-00003", "x-00001-of-00003", "x-00002-of-00003"}, names)

	_, err = Names("x", 0)
	assert.ErrorIs(t, err, ErrInvalidShardCount)
}
