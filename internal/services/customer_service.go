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

// CustomerService handles business logic related to customers.
type CustomerService struct {
	repo     repositories.CustomerRepository
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCustomerService(repo repositories.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *CustomerService) GetAll(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fromRepo(err, "customer")
	}
	return customers, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "customer "+id)
	}
	return customer, nil
}

func (s *CustomerService) Create(ctx context.Context, customer *models.Customer) error {
	if err := s.check(customer); err != nil {
		return err
	}
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return fromRepo(err, "customer")
	}
	s.logger.Info("customer created", zap.String("customer_id", customer.ID))
	return nil
}

func (s *CustomerService) Update(ctx context.Context, customer *models.Customer) error {
	if err := s.check(customer); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		return fromRepo(err, "customer "+customer.ID)
	}
	return nil
}

// Delete removes the customer. Orders that reference it are kept and show a
// blank customer name in reports.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo(err, "customer "+id)
	}
	return nil
}

func (s *CustomerService) check(customer *models.Customer) error {
	customer.Name = strings.TrimSpace(customer.Name)
	if err := s.validate.Struct(customer); err != nil {
		return &Error{Kind: KindValidation, Message: "invalid customer", Err: err}
	}
	return nil
}
