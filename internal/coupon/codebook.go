package coupon

// memoryCodebook is a map-backed Codebook with O(1) lookups.
type memoryCodebook struct {
	codes map[string]struct{}
}

// NewMemoryCodebook creates an empty in-memory codebook with the given
// initial capacity.
func NewMemoryCodebook(capacity int) *memoryCodebook {
	return &memoryCodebook{
		codes: make(map[string]struct{}, capacity),
	}
}

// Contains reports whether the code appears in the codebook.
func (b *memoryCodebook) Contains(code string) bool {
	_, ok := b.codes[code]
	return ok
}

// Size returns the number of codes in the codebook.
func (b *memoryCodebook) Size() int {
	return len(b.codes)
}

// Add inserts a code into the codebook.
func (b *memoryCodebook) Add(code string) {
	b.codes[code] = struct{}{}
}
