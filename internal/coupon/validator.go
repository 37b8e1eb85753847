package coupon

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// ValidatorConfig holds the codebook sources and the match policy.
type ValidatorConfig struct {
	// Files are the codebook names to load.
	Files []string

	// MinMatchCount is how many codebooks a code must appear in before it
	// is accepted.
	MinMatchCount int
}

// DefaultValidatorConfig returns the standard three-codebook,
// two-match policy.
func DefaultValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{
		Files: []string{
			"data/coupons/couponbase1.gz",
			"data/coupons/couponbase2.gz",
			"data/coupons/couponbase3.gz",
		},
		MinMatchCount: 2,
	}
}

// validator checks coupon codes against a set of codebooks. A code is
// accepted when it falls within the length bounds and appears in at least
// MinMatchCount codebooks. Codebooks are read-only after construction, so
// lookups need no locking.
type validator struct {
	codebooks []Codebook
	minMatch  int
	logger    zerolog.Logger
}

// NewValidator loads every configured codebook concurrently and returns a
// ready validator. A single failed load fails construction.
func NewValidator(ctx context.Context, cfg *ValidatorConfig, loader Loader, logger zerolog.Logger) (Validator, error) {
	if cfg == nil {
		cfg = DefaultValidatorConfig()
	}
	minMatch := cfg.MinMatchCount
	if minMatch < 1 {
		minMatch = 1
	}

	logger = logger.With().Str("component", "coupon-validator").Logger()
	logger.Info().
		Int("codebook_count", len(cfg.Files)).
		Int("min_match_count", minMatch).
		Msg("initialising coupon validator")

	books := make([]Codebook, len(cfg.Files))
	errs := make([]error, len(cfg.Files))

	var wg sync.WaitGroup
	for i, name := range cfg.Files {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			books[i], errs[i] = loader.Load(ctx, name)
		}(i, name)
	}
	wg.Wait()

	total := 0
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to load codebook %s: %w", cfg.Files[i], err)
		}
		total += books[i].Size()
	}

	logger.Info().Int("total_codes", total).Msg("coupon validator ready")

	return &validator{
		codebooks: books,
		minMatch:  minMatch,
		logger:    logger,
	}, nil
}

// Validate checks the code's length and its presence in the codebooks.
func (v *validator) Validate(ctx context.Context, code string) error {
	if len(code) < MinCodeLength || len(code) > MaxCodeLength {
		v.logger.Debug().
			Str("code", code).
			Int("length", len(code)).
			Msg("coupon code length out of bounds")
		return model.NewDomainError(model.ErrCodeInvalidCoupon,
			fmt.Sprintf("Coupon code must be between %d and %d characters", MinCodeLength, MaxCodeLength))
	}

	matches := v.countMatches(ctx, code)
	if matches < v.minMatch {
		v.logger.Debug().
			Str("code", code).
			Int("matches", matches).
			Msg("coupon code not found in enough codebooks")
		return model.ErrInvalidCoupon
	}

	return nil
}

// countMatches counts codebooks containing the code, one lookup per
// goroutine, stopping as soon as the outcome is decided either way.
func (v *validator) countMatches(ctx context.Context, code string) int {
	results := make(chan bool, len(v.codebooks))
	done := make(chan struct{})
	defer close(done)

	for _, book := range v.codebooks {
		go func(b Codebook) {
			select {
			case results <- b.Contains(code):
			case <-done:
			case <-ctx.Done():
			}
		}(book)
	}

	matches := 0
	for checked := 0; checked < len(v.codebooks); checked++ {
		select {
		case found := <-results:
			if found {
				matches++
				if matches >= v.minMatch {
					return matches
				}
			}
			remaining := len(v.codebooks) - checked - 1
			if matches+remaining < v.minMatch {
				return matches
			}
		case <-ctx.Done():
			return matches
		}
	}

	return matches
}

// Close releases the loaded codebooks.
func (v *validator) Close() error {
	v.codebooks = nil
	v.logger.Info().Msg("coupon validator closed")
	return nil
}
