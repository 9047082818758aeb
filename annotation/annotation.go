package annotation

// Attributes holds the per-box flags of the Open Images box tables.
// Values are usually 0 or 1; -1 marks an unknown value in some releases.
type Attributes struct {
	Occluded  int64
	Truncated int64
	GroupOf   int64
	Depiction int64
}

// Row is one bounding box observation. Coordinates are normalized to [0,1]
// but are not validated.
type Row struct {
	ImageID    string
	LabelName  string
	XMin       float64
	XMax       float64
	YMin       float64
	YMax       float64
	Attributes Attributes
}

// Group is every row of one image in source order. HasAttributes records
// whether the source table carried the attribute columns; it is a property
// of the table, never of a row.
type Group struct {
	ImageID       string
	Rows          []Row
	HasAttributes bool
}

// Table is a whole annotation table.
type Table struct {
	Rows          []Row
	HasAttributes bool
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Groups splits the table by image id. Groups are ordered by first
// appearance of their image id and rows keep their relative order.
func (t *Table) Groups() []Group {
	index := make(map[string]int)
	var groups []Group

	for _, row := range t.Rows {
		i, ok := index[row.ImageID]
		if !ok {
			i = len(groups)
			index[row.ImageID] = i
			groups = append(groups, Group{ImageID: row.ImageID, HasAttributes: t.HasAttributes})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	return groups
}

// ImageIDs returns the distinct image ids in first-appearance order.
func (t *Table) ImageIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, row := range t.Rows {
		if _, ok := seen[row.ImageID]; ok {
			continue
		}
		seen[row.ImageID] = struct{}{}
		ids = append(ids, row.ImageID)
	}
	return ids
}
