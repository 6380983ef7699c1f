package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/appointment-desk/internal/persistence"
)

// CustomerRepository captures the persistence interactions needed by the
// customer service.
type CustomerRepository interface {
	Save(ctx context.Context, customer persistence.Customer) (persistence.Customer, error)
	Get(ctx context.Context, id string) (persistence.Customer, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]persistence.Customer, error)
}

// DivisionDirectory exposes division lookups for customer validation.
type DivisionDirectory interface {
	GetDivision(ctx context.Context, id string) (persistence.Division, error)
}

// CustomerService orchestrates validation and persistence for customer
// operations.
type CustomerService struct {
	customers CustomerRepository
	divisions DivisionDirectory
	logger    *slog.Logger
}

// NewCustomerService wires dependencies for customer operations.
func NewCustomerService(customers CustomerRepository, divisions DivisionDirectory, logger *slog.Logger) *CustomerService {
	return &CustomerService{customers: customers, divisions: divisions, logger: logger}
}

// CreateCustomer validates required fields and persists a new customer.
func (s *CustomerService) CreateCustomer(ctx context.Context, params CreateCustomerParams) (Customer, error) {
	if s == nil || s.customers == nil {
		return Customer{}, fmt.Errorf("customer service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "customers", "create")

	if err := s.validateInput(ctx, params.Input); err != nil {
		logger.InfoContext(ctx, "input rejected", "error_kind", ErrorKind(err))
		return Customer{}, err
	}

	row := toCustomerRow(params.Input)
	row.CreatedBy = params.Actor.Username
	row.UpdatedBy = params.Actor.Username

	saved, err := s.customers.Save(ctx, row)
	if err != nil {
		return Customer{}, mapRepoError(err)
	}

	logger.InfoContext(ctx, "customer created", "customer_id", saved.ID)
	return fromCustomerRow(saved), nil
}

// UpdateCustomer validates and applies changes to an existing customer.
func (s *CustomerService) UpdateCustomer(ctx context.Context, params UpdateCustomerParams) (Customer, error) {
	if s == nil || s.customers == nil {
		return Customer{}, fmt.Errorf("customer service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "customers", "update", "customer_id", params.CustomerID)

	existing, err := s.customers.Get(ctx, params.CustomerID)
	if err != nil {
		return Customer{}, mapRepoError(err)
	}

	if err := s.validateInput(ctx, params.Input); err != nil {
		logger.InfoContext(ctx, "input rejected", "error_kind", ErrorKind(err))
		return Customer{}, err
	}

	row := toCustomerRow(params.Input)
	row.ID = existing.ID
	row.CreatedBy = existing.CreatedBy
	row.CreatedAt = existing.CreatedAt
	row.UpdatedBy = params.Actor.Username

	saved, err := s.customers.Save(ctx, row)
	if err != nil {
		return Customer{}, mapRepoError(err)
	}

	logger.InfoContext(ctx, "customer updated")
	return fromCustomerRow(saved), nil
}

// DeleteCustomer removes a customer together with their appointments.
func (s *CustomerService) DeleteCustomer(ctx context.Context, actor CurrentUser, customerID string) error {
	if s == nil || s.customers == nil {
		return fmt.Errorf("customer service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "customers", "delete", "customer_id", customerID)

	if err := s.customers.Delete(ctx, customerID); err != nil {
		return mapRepoError(err)
	}
	logger.InfoContext(ctx, "customer deleted", "actor", actor.Username)
	return nil
}

// GetCustomer fetches a single customer.
func (s *CustomerService) GetCustomer(ctx context.Context, customerID string) (Customer, error) {
	row, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return Customer{}, mapRepoError(err)
	}
	return fromCustomerRow(row), nil
}

// ListCustomers returns every customer ordered by name.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := s.customers.List(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	customers := make([]Customer, len(rows))
	for i, row := range rows {
		customers[i] = fromCustomerRow(row)
	}
	return customers, nil
}

func (s *CustomerService) validateInput(ctx context.Context, input CustomerInput) error {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		vErr.add("address", "address is required")
	}
	if strings.TrimSpace(input.PostalCode) == "" {
		vErr.add("postal_code", "postal code is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		vErr.add("phone", "phone is required")
	}

	if strings.TrimSpace(input.DivisionID) == "" {
		vErr.add("division_id", "division is required")
	} else if s.divisions != nil {
		if _, err := s.divisions.GetDivision(ctx, input.DivisionID); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				vErr.add("division_id", "division does not exist")
			} else {
				return err
			}
		}
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func toCustomerRow(input CustomerInput) persistence.Customer {
	return persistence.Customer{
		Name:       strings.TrimSpace(input.Name),
		Address:    strings.TrimSpace(input.Address),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Phone:      strings.TrimSpace(input.Phone),
		DivisionID: strings.TrimSpace(input.DivisionID),
	}
}

func fromCustomerRow(row persistence.Customer) Customer {
	return Customer(row)
}
