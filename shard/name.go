package shard

import (
	"fmt"
	"strconv"
)

// minWidth is the minimum number of digits of the index and count fields.
const minWidth = 5

// Name returns the path of shard index of count: base-IIIII-of-NNNNN.
// Both fields are zero padded to max(5, digits(count)).
func Name(base string, index, count int) string {
	width := max(minWidth, len(strconv.Itoa(count)))
	return fmt.Sprintf("%s-%0*d-of-%0*d", base, width, index, width, count)
}

// Names returns the paths of all count shards in index order.
func Names(base string, count int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShardCount, count)
	}
	names := make([]string, count)
	for i := range names {
		names[i] = Name(base, i, count)
	}
	return names, nil
}
