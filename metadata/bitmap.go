package metadata

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Bitmap is a set of dataset row positions backed by a 32-bit Roaring Bitmap.
type Bitmap struct {
	rb *roaring.Bitmap
}

// NewBitmap creates a new empty bitmap.
func NewBitmap() *Bitmap {
	return &Bitmap{
		rb: roaring.New(),
	}
}

// BitmapOf creates a bitmap holding the given rows.
func BitmapOf(rows ...uint32) *Bitmap {
	return &Bitmap{
		rb: roaring.BitmapOf(rows...),
	}
}

// Range creates a bitmap holding every row in [0, n).
func Range(n uint32) *Bitmap {
	rb := roaring.New()
	rb.AddRange(0, uint64(n))
	return &Bitmap{rb: rb}
}

// Add adds a row to the bitmap.
func (b *Bitmap) Add(row uint32) {
	b.rb.Add(row)
}

// Contains checks if a row is in the bitmap.
func (b *Bitmap) Contains(row uint32) bool {
	return b.rb.Contains(row)
}

// IsEmpty returns true if the bitmap is empty.
func (b *Bitmap) IsEmpty() bool {
	return b.rb.IsEmpty()
}

// Cardinality returns the number of rows in the bitmap.
func (b *Bitmap) Cardinality() uint64 {
	return b.rb.GetCardinality()
}

// Clone returns a deep copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{
		rb: b.rb.Clone(),
	}
}

// Rows iterates the bitmap in ascending row order.
func (b *Bitmap) Rows() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := b.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// ToArray returns the rows in ascending order.
func (b *Bitmap) ToArray() []uint32 {
	return b.rb.ToArray()
}

// And intersects b with other in place.
func (b *Bitmap) And(other *Bitmap) {
	b.rb.And(other.rb)
}

// Or unions other into b in place.
func (b *Bitmap) Or(other *Bitmap) {
	b.rb.Or(other.rb)
}

// GetSizeInBytes returns the size of the bitmap in bytes.
func (b *Bitmap) GetSizeInBytes() uint64 {
	return b.rb.GetSizeInBytes()
}
