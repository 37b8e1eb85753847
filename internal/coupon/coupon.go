package coupon

import (
	"context"
)

// Coupon code length bounds. Codes outside this range are rejected before
// any codebook lookup.
const (
	MinCodeLength = 8
	MaxCodeLength = 10
)

// Validator decides whether a coupon code may be applied to a cart.
type Validator interface {
	// Validate returns nil when the code is acceptable, or a domain error
	// describing why it is not.
	Validate(ctx context.Context, code string) error

	// Close releases resources held by the validator.
	Close() error
}

// Codebook is an immutable set of known coupon codes.
type Codebook interface {
	// Contains reports whether the code appears in the codebook.
	Contains(code string) bool

	// Size returns the number of codes in the codebook.
	Size() int
}

// Loader reads a coupon codebook from a backing store.
type Loader interface {
	// Load reads a gzipped codebook (one code per line) identified by name.
	Load(ctx context.Context, name string) (Codebook, error)
}
