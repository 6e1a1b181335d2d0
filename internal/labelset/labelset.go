// Package labelset provides interned label sets backed by roaring bitmaps.
//
// Label strings are interned to dense uint32 values so that set equality,
// the hot operation of the matcher's label-compatibility constraint, is a
// bitmap comparison instead of repeated string work.
package labelset

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Interner maps label strings to dense uint32 values.
type Interner struct {
	ids map[string]uint32
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{ids: make(map[string]uint32)}
}

// Intern returns the stable id for label, assigning the next free id on
// first sight.
func (in *Interner) Intern(label string) uint32 {
	id, ok := in.ids[label]
	if !ok {
		id = uint32(len(in.ids))
		in.ids[label] = id
	}
	return id
}

// Set builds the bitmap for a collection of labels. Duplicate labels
// collapse; a nil or empty slice yields the empty set.
func (in *Interner) Set(labels []string) *roaring.Bitmap {
	bm := roaring.New()
	for _, l := range labels {
		bm.Add(in.Intern(l))
	}
	return bm
}

// Equal reports whether two label sets hold exactly the same labels.
func Equal(a, b *roaring.Bitmap) bool {
	return a.Equals(b)
}
