package example

import (
	"fmt"
	"math"

	"github.com/hupe1980/oidrecord/annotation"
)

// Vocabulary maps label names to class ids. It also acts as the inclusion
// filter: rows whose label is unknown are dropped.
type Vocabulary interface {
	Lookup(name string) (int64, bool)
}

// Options configures FromAnnotations.
type Options struct {
	// Attributes overrides Group.HasAttributes when non-nil.
	Attributes *bool
}

// Option configures Options.
type Option func(*Options)

// WithAttributes forces the attribute features on or off.
func WithAttributes(include bool) Option {
	return func(o *Options) { o.Attributes = &include }
}

// FromAnnotations builds the record of one image.
//
// Rows are visited in order. Rows whose label is not in vocab are skipped in
// every list, so all box lists have the same length. Attribute lists are
// included iff the group carries attribute columns. A group whose labels are
// all filtered out still yields a record with empty lists.
//
// Rows are assumed to share group.ImageID; this is not checked.
func FromAnnotations(group annotation.Group, vocab Vocabulary, encoded []byte, optFns ...Option) (*Example, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	withAttributes := group.HasAttributes
	if opts.Attributes != nil {
		withAttributes = *opts.Attributes
	}

	if group.ImageID == "" {
		return nil, fmt.Errorf("%w: image id", ErrMissingField)
	}
	if vocab == nil {
		return nil, fmt.Errorf("%w: vocabulary", ErrMissingField)
	}

	var (
		n                      = len(group.Rows)
		ymin, xmin, ymax, xmax = make([]float32, 0, n), make([]float32, 0, n), make([]float32, 0, n), make([]float32, 0, n)
		labels                 = make([]int64, 0, n)
		texts                  = make([][]byte, 0, n)
		occluded, truncated    []int64
		groupOf, depiction     []int64
	)
	if withAttributes {
		occluded, truncated = make([]int64, 0, n), make([]int64, 0, n)
		groupOf, depiction = make([]int64, 0, n), make([]int64, 0, n)
	}

	for i, row := range group.Rows {
		if err := validateRow(row); err != nil {
			return nil, fmt.Errorf("image %s row %d: %w", group.ImageID, i, err)
		}

		id, ok := vocab.Lookup(row.LabelName)
		if !ok {
			continue
		}

		ymin = append(ymin, float32(row.YMin))
		xmin = append(xmin, float32(row.XMin))
		ymax = append(ymax, float32(row.YMax))
		xmax = append(xmax, float32(row.XMax))
		labels = append(labels, id)
		texts = append(texts, []byte(row.LabelName))

		if withAttributes {
			occluded = append(occluded, row.Attributes.Occluded)
			truncated = append(truncated, row.Attributes.Truncated)
			groupOf = append(groupOf, row.Attributes.GroupOf)
			depiction = append(depiction, row.Attributes.Depiction)
		}
	}

	features := map[string]Feature{
		KeyEncoded:    BytesFeature(encoded),
		KeyFilename:   StringFeature(group.ImageID + FilenameSuffix),
		KeySourceID:   StringFeature(group.ImageID),
		KeyYMin:       FloatFeature(ymin...),
		KeyXMin:       FloatFeature(xmin...),
		KeyYMax:       FloatFeature(ymax...),
		KeyXMax:       FloatFeature(xmax...),
		KeyClassLabel: Int64Feature(labels...),
		KeyClassText:  BytesFeature(texts...),
	}
	if withAttributes {
		features[KeyOccluded] = Int64Feature(occluded...)
		features[KeyTruncated] = Int64Feature(truncated...)
		features[KeyGroupOf] = Int64Feature(groupOf...)
		features[KeyDepiction] = Int64Feature(depiction...)
	}

	return &Example{features: features}, nil
}

// Boxes returns the number of boxes in an object detection record.
func (e *Example) Boxes() int {
	return e.features[KeyClassLabel].Len()
}

func validateRow(row annotation.Row) error {
	if row.ImageID == "" {
		return fmt.Errorf("%w: image id", ErrMissingField)
	}
	if row.LabelName == "" {
		return fmt.Errorf("%w: label name", ErrMissingField)
	}
	for _, c := range [...]struct {
		name string
		v    float64
	}{{"xmin", row.XMin}, {"xmax", row.XMax}, {"ymin", row.YMin}, {"ymax", row.YMax}} {
		if math.IsNaN(c.v) {
			return fmt.Errorf("%w: %s is NaN", ErrMalformedRow, c.name)
		}
	}
	return nil
}
