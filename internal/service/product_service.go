package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves products matching the filter with the total match count.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 12
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("total", total).
		Int("page", filter.Page).
		Msg("retrieved products")

	return products, total, nil
}

// GetByID retrieves a single product with its reviews.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	reviews, err := s.productRepo.GetReviews(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get reviews")
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	product.Reviews = reviews

	return product, nil
}

// Create validates and persists a new product on behalf of the seller.
func (s *productService) Create(ctx context.Context, actor model.Actor, p *model.Product) (*model.Product, error) {
	if err := p.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("name", p.Name).Msg("invalid product")
		return nil, err
	}

	now := time.Now()
	p.ID = uuid.New()
	p.SellerID = actor.ID
	p.Rating = 0
	p.NumReviews = 0
	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.productRepo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("name", p.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", p.ID.String()).
		Str("name", p.Name).
		Str("category", p.Category).
		Msg("product created")

	return p, nil
}

// Update applies a partial update to an existing product.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.DiscountPrice != nil {
		product.DiscountPrice = req.DiscountPrice
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.SKU != nil {
		product.SKU = req.SKU
	}
	if req.Weight != nil {
		product.Weight = req.Weight
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := product.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("product_id", id.String()).Msg("invalid product update")
		return nil, err
	}

	product.UpdatedAt = time.Now()

	updated, err := s.productRepo.Update(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !updated {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product updated")

	return product, nil
}

// Delete removes a product from the catalogue.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")

	return nil
}

// Categories returns the distinct categories in the catalogue.
func (s *productService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get categories")
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// AddReview appends a review, at most one per user per product, and
// recomputes the product's derived rating.
func (s *productService) AddReview(ctx context.Context, actor model.Actor, productID uuid.UUID, userName string, rating int, comment string) (*model.Product, error) {
	if rating < 1 || rating > 5 {
		return nil, model.NewValidationError("Rating must be between 1 and 5")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	reviewed, err := s.productRepo.HasReview(ctx, productID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if reviewed {
		s.logger.Warn().
			Str("product_id", productID.String()).
			Str("user_id", actor.ID.String()).
			Msg("duplicate review rejected")
		return nil, model.ErrDuplicateReview
	}

	review := model.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    actor.ID,
		UserName:  userName,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}

	reviews, err := s.productRepo.GetReviews(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	product.Reviews = append(reviews, review)
	product.RecalculateRating()

	if err := s.productRepo.AddReview(ctx, &review, product.Rating, product.NumReviews); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to add review")
		return nil, fmt.Errorf("failed to add review: %w", err)
	}

	s.logger.Info().
		Str("product_id", productID.String()).
		Str("user_id", actor.ID.String()).
		Int("rating", rating).
		Float64("new_rating", product.Rating).
		Msg("review added")

	return product, nil
}

// GetReviews returns a product's reviews with the derived aggregates.
func (s *productService) GetReviews(ctx context.Context, productID uuid.UUID) (*model.ReviewSummary, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	reviews, err := s.productRepo.GetReviews(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}

	return &model.ReviewSummary{
		Reviews:    reviews,
		Rating:     product.Rating,
		NumReviews: product.NumReviews,
	}, nil
}
