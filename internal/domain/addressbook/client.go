package addressbook

import (
	"context"
	"strings"
	"time"

	"github.com/outvoice/backend/internal/domain/shared"
)

// Client is one address-book entry. Identity is the full six-field row:
// the same person at a second address is a distinct entry, and storing
// an identical row twice is a no-op.
type Client struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	FirstName    string `gorm:"size:64;not null;uniqueIndex:idx_clients_identity" json:"first_name"`
	LastName     string `gorm:"size:64;not null;uniqueIndex:idx_clients_identity" json:"last_name"`
	AddressLine1 string `gorm:"size:128;not null;uniqueIndex:idx_clients_identity" json:"address_line_1"`
	AddressLine2 string `gorm:"size:128;uniqueIndex:idx_clients_identity" json:"address_line_2"`
	City         string `gorm:"size:64;not null;uniqueIndex:idx_clients_identity" json:"city"`
	PostCode     string `gorm:"size:16;not null;uniqueIndex:idx_clients_identity" json:"post_code"`

	CreatedAt time.Time `json:"created_at"`
}

func (Client) TableName() string {
	return "addresses"
}

// NewClient builds a validated entry. All fields except the second
// address line are required.
func NewClient(firstName, lastName, line1, line2, city, postCode string) (*Client, error) {
	c := &Client{
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		AddressLine1: strings.TrimSpace(line1),
		AddressLine2: strings.TrimSpace(line2),
		City:         strings.TrimSpace(city),
		PostCode:     strings.TrimSpace(postCode),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) Validate() error {
	switch {
	case c.FirstName == "":
		return shared.NewDomainError("INVALID_INPUT", "First name is required")
	case c.LastName == "":
		return shared.NewDomainError("INVALID_INPUT", "Last name is required")
	case c.AddressLine1 == "":
		return shared.NewDomainError("INVALID_INPUT", "Address line 1 is required")
	case c.City == "":
		return shared.NewDomainError("INVALID_INPUT", "City is required")
	case c.PostCode == "":
		return shared.NewDomainError("INVALID_INPUT", "Post code is required")
	}
	return nil
}

// ClientRepository is the persistence port for address-book entries.
type ClientRepository interface {
	// Add stores the entry, silently ignoring an exact duplicate.
	Add(ctx context.Context, client *Client) error
	// Remove deletes the entry matching all six fields and reports
	// whether a row was actually removed.
	Remove(ctx context.Context, client *Client) (bool, error)
	// Search returns all entries for the given name, exact match on
	// both parts, ordered by creation time.
	Search(ctx context.Context, firstName, lastName string) ([]Client, error)
}
