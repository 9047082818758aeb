package labelmap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadClassDescriptions reads an Open Images class descriptions file with
// lines of "name,display name" and no header. Ids are assigned in line
// order beginning at start.
func ReadClassDescriptions(r io.Reader, start int64) (*Map, error) {
	if start < 0 {
		return nil, fmt.Errorf("%w: start %d", ErrNegativeID, start)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var entries []Entry
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		e := Entry{Name: name, ID: start + int64(len(entries))}
		if len(record) > 1 {
			e.DisplayName = strings.TrimSpace(record[1])
		}
		entries = append(entries, e)
	}

	return New(entries...)
}
