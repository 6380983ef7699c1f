package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/appointment-desk/internal/persistence"
	"github.com/example/appointment-desk/internal/testfixtures"
)

type customerRepoStub struct {
	byID    map[string]persistence.Customer
	saved   []persistence.Customer
	deleted []string
	idSeq   int
}

func (s *customerRepoStub) Save(ctx context.Context, customer persistence.Customer) (persistence.Customer, error) {
	if customer.ID == "" {
		s.idSeq++
		customer.ID = "customer-" + string(rune('0'+s.idSeq))
	}
	s.saved = append(s.saved, customer)
	return customer, nil
}

func (s *customerRepoStub) Get(ctx context.Context, id string) (persistence.Customer, error) {
	customer, ok := s.byID[id]
	if !ok {
		return persistence.Customer{}, persistence.ErrNotFound
	}
	return customer, nil
}

func (s *customerRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return persistence.ErrNotFound
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *customerRepoStub) List(ctx context.Context) ([]persistence.Customer, error) {
	return nil, nil
}

type divisionDirectoryStub struct {
	known map[string]persistence.Division
}

func (s *divisionDirectoryStub) GetDivision(ctx context.Context, id string) (persistence.Division, error) {
	division, ok := s.known[id]
	if !ok {
		return persistence.Division{}, persistence.ErrNotFound
	}
	return division, nil
}

func validCustomerInput() CustomerInput {
	return CustomerInput{
		Name:       "Harriet Blake",
		Address:    "12 Front Street",
		PostalCode: "10001",
		Phone:      "555-0101",
		DivisionID: "division-ny",
	}
}

func newCustomerTestService(repo *customerRepoStub) *CustomerService {
	divisions := &divisionDirectoryStub{known: map[string]persistence.Division{
		"division-ny": {ID: "division-ny", Name: "New York", CountryID: "country-us"},
	}}
	return NewCustomerService(repo, divisions, nil)
}

func TestCreateCustomer_TrimsAndStampsActor(t *testing.T) {
	t.Parallel()

	repo := &customerRepoStub{}
	svc := newCustomerTestService(repo)

	input := validCustomerInput()
	input.Name = "  Harriet Blake  "

	created, err := svc.CreateCustomer(context.Background(), CreateCustomerParams{
		Actor: CurrentUser{ID: "user-1", Username: "desk"},
		Input: input,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Name != "Harriet Blake" {
		t.Fatalf("name not trimmed: %q", created.Name)
	}
	if created.CreatedBy != "desk" || created.UpdatedBy != "desk" {
		t.Fatalf("audit authors not stamped: %+v", created)
	}
	if created.ID == "" {
		t.Fatal("expected assigned identifier")
	}
}

func TestCreateCustomer_AccumulatesFieldErrors(t *testing.T) {
	t.Parallel()

	repo := &customerRepoStub{}
	svc := newCustomerTestService(repo)

	_, err := svc.CreateCustomer(context.Background(), CreateCustomerParams{Input: CustomerInput{}})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	for _, field := range []string{"name", "address", "postal_code", "phone", "division_id"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Errorf("missing field error for %q", field)
		}
	}
	if len(repo.saved) != 0 {
		t.Fatal("invalid customer must not be persisted")
	}
}

func TestCreateCustomer_UnknownDivision(t *testing.T) {
	t.Parallel()

	svc := newCustomerTestService(&customerRepoStub{})

	input := validCustomerInput()
	input.DivisionID = "division-nowhere"

	_, err := svc.CreateCustomer(context.Background(), CreateCustomerParams{Input: input})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["division_id"]; !ok {
		t.Fatalf("expected division_id error, got %v", vErr.FieldErrors)
	}
}

func TestUpdateCustomer_PreservesCreationAudit(t *testing.T) {
	t.Parallel()

	existing := testfixtures.NewCustomerFixture(testfixtures.WithCustomerDivision("division-ny"))
	repo := &customerRepoStub{byID: map[string]persistence.Customer{existing.ID: existing}}
	svc := newCustomerTestService(repo)

	updated, err := svc.UpdateCustomer(context.Background(), UpdateCustomerParams{
		Actor:      CurrentUser{ID: "user-2", Username: "editor"},
		CustomerID: existing.ID,
		Input:      validCustomerInput(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.CreatedBy != existing.CreatedBy || !updated.CreatedAt.Equal(existing.CreatedAt) {
		t.Fatalf("update must preserve creation audit: %+v", updated)
	}
	if updated.UpdatedBy != "editor" {
		t.Fatalf("update must stamp the actor, got %q", updated.UpdatedBy)
	}
}

func TestUpdateCustomer_MissingRecord(t *testing.T) {
	t.Parallel()

	svc := newCustomerTestService(&customerRepoStub{})
	_, err := svc.UpdateCustomer(context.Background(), UpdateCustomerParams{
		CustomerID: "missing",
		Input:      validCustomerInput(),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCustomer_MapsRepositoryNotFound(t *testing.T) {
	t.Parallel()

	svc := newCustomerTestService(&customerRepoStub{})
	err := svc.DeleteCustomer(context.Background(), CurrentUser{Username: "desk"}, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
