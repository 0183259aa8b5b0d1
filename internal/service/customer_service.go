package service

import (
	"context"
	"strings"

	"github.com/spec-kit/support-copilot/internal/domain"
	"github.com/spec-kit/support-copilot/internal/repository"
	apperrors "github.com/spec-kit/support-copilot/pkg/util/errorutil"
)

// CustomerService coordinates customer registration and lookup.
type CustomerService struct {
	customers repository.CustomerRepository
}

// NewCustomerService constructs the service.
func NewCustomerService(customers repository.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

// Create registers a customer. Email is the uniqueness key.
func (s *CustomerService) Create(ctx context.Context, name, email, company string, tier domain.CustomerTier) (*domain.Customer, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	if tier == "" {
		tier = domain.TierBasic
	}
	if !tier.Valid() {
		return nil, apperrors.NewValidationError("unknown tier", map[string]any{"tier": tier})
	}

	if _, err := s.customers.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("customer email already registered", nil)
	} else if !apperrors.IsNotFound(err) {
		return nil, apperrors.MapError(err)
	}

	customer := &domain.Customer{
		Name:    name,
		Email:   email,
		Company: strings.TrimSpace(company),
		Tier:    tier,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// Get fetches a single customer.
func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// List pages through customers ordered by name.
func (s *CustomerService) List(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return customers, nil
}
