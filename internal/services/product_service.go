package services

import (
	"context"
	"strings"

	"bakery/internal/models"
	"bakery/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
	}
}

// GetAll retrieves every product, active or not.
func (s *ProductService) GetAll(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fromRepo(err, "product")
	}
	return products, nil
}

// ListActive retrieves the products that can be added to a cart.
func (s *ProductService) ListActive(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fromRepo(err, "product")
	}
	return products, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "product "+id)
	}
	return product, nil
}

// Create assigns an id when missing and stores the product.
func (s *ProductService) Create(ctx context.Context, product *models.Product) error {
	if err := s.check(product); err != nil {
		return err
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return fromRepo(err, "product")
	}
	s.logger.Info("product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return nil
}

// Update replaces name, price, size and active flag. Past order lines keep
// the values they were sold with.
func (s *ProductService) Update(ctx context.Context, product *models.Product) error {
	if err := s.check(product); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return fromRepo(err, "product "+product.ID)
	}
	return nil
}

func (s *ProductService) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return fromRepo(err, "product "+id)
	}
	s.logger.Info("product availability changed", zap.String("product_id", id), zap.Bool("active", active))
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo(err, "product "+id)
	}
	return nil
}

func (s *ProductService) check(product *models.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	if err := s.validate.Struct(product); err != nil {
		return &Error{Kind: KindValidation, Message: "invalid product", Err: err}
	}
	if product.Price.IsNegative() {
		return NewValidation("price must not be negative")
	}
	return nil
}
