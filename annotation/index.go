package annotation

import (
	"fmt"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/oidrecord/internal/conv"
)

// LabelIndex maps label names to the set of image ordinals that carry them.
// Ordinals are assigned by the caller, usually the group position. It is
// safe for concurrent use.
type LabelIndex struct {
	mu     sync.RWMutex
	images map[string]*roaring.Bitmap
	boxes  map[string]uint64
}

// LabelStat summarizes one label.
type LabelStat struct {
	Label  string `json:"label"`
	Images uint64 `json:"images"`
	Boxes  uint64 `json:"boxes"`
}

// NewLabelIndex returns an empty index.
func NewLabelIndex() *LabelIndex {
	return &LabelIndex{
		images: make(map[string]*roaring.Bitmap),
		boxes:  make(map[string]uint64),
	}
}

// IndexGroups indexes every row of groups using the group position as ordinal.
func IndexGroups(groups []Group) (*LabelIndex, error) {
	x := NewLabelIndex()
	for i, g := range groups {
		if err := x.AddGroup(g, i); err != nil {
			return nil, err
		}
	}
	return x, nil
}

// AddGroup records every row of g under ordinal, which must fit in uint32.
func (x *LabelIndex) AddGroup(g Group, ordinal int) error {
	image, err := conv.IntToUint32(ordinal)
	if err != nil {
		return fmt.Errorf("annotation: image %s: %w", g.ImageID, err)
	}
	for _, row := range g.Rows {
		x.Add(row.LabelName, image)
	}
	return nil
}

// Add records one box of label in image.
func (x *LabelIndex) Add(label string, image uint32) {
	x.mu.Lock()
	defer x.mu.Unlock()

	bm, ok := x.images[label]
	if !ok {
		bm = roaring.New()
		x.images[label] = bm
	}
	bm.Add(image)
	x.boxes[label]++
}

// Images returns the number of distinct images carrying label.
func (x *LabelIndex) Images(label string) uint64 {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if bm, ok := x.images[label]; ok {
		return bm.GetCardinality()
	}
	return 0
}

// Boxes returns the number of boxes of label.
func (x *LabelIndex) Boxes(label string) uint64 {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.boxes[label]
}

// Labels returns the indexed labels in sorted order.
func (x *LabelIndex) Labels() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	labels := make([]string, 0, len(x.images))
	for l := range x.images {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	return labels
}

// ImagesWithAny returns the ordinals of images carrying at least one of labels.
func (x *LabelIndex) ImagesWithAny(labels ...string) *roaring.Bitmap {
	x.mu.RLock()
	defer x.mu.RUnlock()

	bms := make([]*roaring.Bitmap, 0, len(labels))
	for _, l := range labels {
		if bm, ok := x.images[l]; ok {
			bms = append(bms, bm)
		}
	}
	return roaring.FastOr(bms...)
}

// Stats returns per-label counts sorted by label.
func (x *LabelIndex) Stats() []LabelStat {
	labels := x.Labels()

	x.mu.RLock()
	defer x.mu.RUnlock()

	stats := make([]LabelStat, len(labels))
	for i, l := range labels {
		stats[i] = LabelStat{Label: l, Images: x.images[l].GetCardinality(), Boxes: x.boxes[l]}
	}
	return stats
}
