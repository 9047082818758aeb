package annotation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Open Images box table column names.
const (
	ColumnImageID     = "ImageID"
	ColumnLabelName   = "LabelName"
	ColumnXMin        = "XMin"
	ColumnXMax        = "XMax"
	ColumnYMin        = "YMin"
	ColumnYMax        = "YMax"
	ColumnIsOccluded  = "IsOccluded"
	ColumnIsTruncated = "IsTruncated"
	ColumnIsGroupOf   = "IsGroupOf"
	ColumnIsDepiction = "IsDepiction"
)

var (
	requiredColumns  = []string{ColumnImageID, ColumnLabelName, ColumnXMin, ColumnXMax, ColumnYMin, ColumnYMax}
	attributeColumns = []string{ColumnIsOccluded, ColumnIsTruncated, ColumnIsGroupOf, ColumnIsDepiction}
)

// ReadCSV reads a box table with a header row. Columns are located by name;
// unknown columns such as Source or Confidence are ignored. The attribute
// columns must be all present or all absent.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return nil, err
	}

	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	for _, name := range requiredColumns {
		if _, ok := pos[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var present []string
	for _, name := range attributeColumns {
		if _, ok := pos[name]; ok {
			present = append(present, name)
		}
	}
	if len(present) > 0 && len(present) < len(attributeColumns) {
		return nil, fmt.Errorf("%w: found %s", ErrPartialAttributes, strings.Join(present, ","))
	}

	table := &Table{HasAttributes: len(present) == len(attributeColumns)}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return table, nil
		}
		if err != nil {
			return nil, err
		}

		p := rowParser{cr: cr, record: record, pos: pos}
		row := Row{
			ImageID:   p.text(ColumnImageID),
			LabelName: p.text(ColumnLabelName),
			XMin:      p.float(ColumnXMin),
			XMax:      p.float(ColumnXMax),
			YMin:      p.float(ColumnYMin),
			YMax:      p.float(ColumnYMax),
		}
		if table.HasAttributes {
			row.Attributes = Attributes{
				Occluded:  p.int(ColumnIsOccluded),
				Truncated: p.int(ColumnIsTruncated),
				GroupOf:   p.int(ColumnIsGroupOf),
				Depiction: p.int(ColumnIsDepiction),
			}
		}
		if p.err != nil {
			return nil, p.err
		}

		table.Rows = append(table.Rows, row)
	}
}

// rowParser keeps the first error of a record.
type rowParser struct {
	cr     *csv.Reader
	record []string
	pos    map[string]int
	err    error
}

func (p *rowParser) field(column string) (string, bool) {
	i := p.pos[column]
	if i >= len(p.record) {
		p.failAt(len(p.record)-1, column, io.ErrUnexpectedEOF)
		return "", false
	}
	return strings.TrimSpace(p.record[i]), true
}

func (p *rowParser) text(column string) string {
	s, _ := p.field(column)
	return s
}

func (p *rowParser) float(column string) float64 {
	s, ok := p.field(column)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.fail(column, err)
	}
	return v
}

func (p *rowParser) int(column string) int64 {
	s, ok := p.field(column)
	if !ok {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		p.fail(column, err)
	}
	return v
}

func (p *rowParser) fail(column string, err error) {
	p.failAt(p.pos[column], column, err)
}

// failAt reports the physical line where field i starts.
func (p *rowParser) failAt(i int, column string, err error) {
	if p.err != nil {
		return
	}
	line := 0
	if i >= 0 && i < len(p.record) {
		line, _ = p.cr.FieldPos(i)
	}
	p.err = &ParseError{Line: line, Column: column, Err: err}
}
