// Package addressbook provides the application service for managing
// stored client addresses.
package addressbook

import (
	"context"

	"go.uber.org/zap"

	"github.com/outvoice/backend/internal/domain/addressbook"
	"github.com/outvoice/backend/internal/domain/shared"
)

// ClientInput carries the six address fields from the interface layer.
type ClientInput struct {
	FirstName    string
	LastName     string
	AddressLine1 string
	AddressLine2 string
	City         string
	PostCode     string
}

// ClientService manages address-book entries.
type ClientService struct {
	repo   addressbook.ClientRepository
	logger *zap.Logger
}

// NewClientService creates a new ClientService.
func NewClientService(repo addressbook.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{
		repo:   repo,
		logger: logger.Named("addressbook"),
	}
}

// Add stores a validated entry. Storing an exact duplicate succeeds
// without creating a second row.
func (s *ClientService) Add(ctx context.Context, input ClientInput) error {
	client, err := newClient(input)
	if err != nil {
		return err
	}
	if err := s.repo.Add(ctx, client); err != nil {
		return err
	}
	s.logger.Info("Address book entry added",
		zap.String("first_name", client.FirstName),
		zap.String("last_name", client.LastName),
	)
	return nil
}

// Remove deletes the entry matching all six fields and reports whether
// one existed. Nothing to remove is not a failure.
func (s *ClientService) Remove(ctx context.Context, input ClientInput) (bool, error) {
	client, err := newClient(input)
	if err != nil {
		return false, err
	}
	removed, err := s.repo.Remove(ctx, client)
	if err != nil || !removed {
		return false, err
	}
	s.logger.Info("Address book entry removed",
		zap.String("first_name", client.FirstName),
		zap.String("last_name", client.LastName),
	)
	return true, nil
}

// Search returns all entries matching the name exactly. No match is an
// empty result, not an error.
func (s *ClientService) Search(ctx context.Context, firstName, lastName string) ([]addressbook.Client, error) {
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Search requires both first and last name")
	}
	return s.repo.Search(ctx, firstName, lastName)
}

func newClient(input ClientInput) (*addressbook.Client, error) {
	return addressbook.NewClient(
		input.FirstName, input.LastName,
		input.AddressLine1, input.AddressLine2,
		input.City, input.PostCode,
	)
}
