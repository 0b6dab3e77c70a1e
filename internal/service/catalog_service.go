package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit is a hard cap on page size regardless of caller intent.
	MaxLimit = 50

	MinProductNameLength = 2
)

var (
	ErrInvalidProductName  = errors.New("product name must be at least 2 characters")
	ErrInvalidProductPrice = errors.New("product price must not be negative")
)

// ListQuery is the normalized form of raw listing parameters.
type ListQuery struct {
	Filter repository.ProductFilter
	Page   int
	Limit  int
}

// Pagination carries the listing metadata returned alongside a page of
// products.
type Pagination struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPagination computes pagination metadata for a total count and a page
// window. TotalPages is zero when nothing matches.
func NewPagination(total, page, limit int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// ParseListQuery normalizes raw filter and page parameters. Malformed
// numeric inputs degrade to defaults rather than erroring: page coerces to an
// integer >= 1, limit is clamped to [1, MaxLimit] with invalid values falling
// back to DefaultLimit.
func ParseListQuery(values url.Values) ListQuery {
	page := DefaultPage
	if v := values.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			page = n
		}
	}

	limit := DefaultLimit
	if v := values.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			limit = n
			if limit > MaxLimit {
				limit = MaxLimit
			}
		}
	}

	filter := repository.ProductFilter{
		Name:     values.Get("name"),
		Category: values.Get("category"),
	}
	if v := values.Get("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := values.Get("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}

	return ListQuery{Filter: filter, Page: page, Limit: limit}
}

// ProductInput carries the mutable product fields for create and update.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
}

// CatalogService defines the interface for product catalog business logic
type CatalogService interface {
	List(ctx context.Context, q ListQuery) ([]*domain.Product, Pagination, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	productRepo repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

// List returns the requested page of matching products plus pagination
// metadata. A filter with minPrice > maxPrice yields an empty result set, not
// an error.
func (s *catalogService) List(ctx context.Context, q ListQuery) ([]*domain.Product, Pagination, error) {
	products, total, err := s.productRepo.List(ctx, q.Filter, q.Page, q.Limit)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to list products: %w", err)
	}

	return products, NewPagination(total, q.Page, q.Limit), nil
}

// Get retrieves a single product
func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Create validates the input, applies defaults and stores a new product
func (s *catalogService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	normalized, err := normalizeProductInput(input)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        normalized.Name,
		Description: normalized.Description,
		Price:       normalized.Price,
		Category:    normalized.Category,
		CreatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Update replaces name, description, price and category of an existing
// product. The creation timestamp is preserved.
func (s *catalogService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	normalized, err := normalizeProductInput(input)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:          id,
		Name:        normalized.Name,
		Description: normalized.Description,
		Price:       normalized.Price,
		Category:    normalized.Category,
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.FindByID(ctx, id)
}

// Delete removes a product
func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// normalizeProductInput trims the name, validates name and price, and fills
// in defaults for description and category.
func normalizeProductInput(input ProductInput) (ProductInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if len(input.Name) < MinProductNameLength {
		return ProductInput{}, ErrInvalidProductName
	}
	if input.Price < 0 {
		return ProductInput{}, ErrInvalidProductPrice
	}
	input.Category = strings.TrimSpace(input.Category)
	if input.Category == "" {
		input.Category = domain.DefaultCategory
	}
	return input, nil
}
