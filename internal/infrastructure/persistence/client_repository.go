package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/outvoice/backend/internal/domain/addressbook"
)

// GormClientRepository implements addressbook.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// Add stores the entry. The six-field identity carries a unique index,
// so an exact duplicate is silently ignored rather than duplicated.
func (r *GormClientRepository) Add(ctx context.Context, client *addressbook.Client) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(client).Error
}

// Remove deletes the entry matching all six identity fields and reports
// whether a row was actually removed.
func (r *GormClientRepository) Remove(ctx context.Context, client *addressbook.Client) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("first_name = ?", client.FirstName).
		Where("last_name = ?", client.LastName).
		Where("address_line1 = ?", client.AddressLine1).
		Where("address_line2 = ?", client.AddressLine2).
		Where("city = ?", client.City).
		Where("post_code = ?", client.PostCode).
		Delete(&addressbook.Client{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Search returns all entries matching the name exactly, oldest first.
func (r *GormClientRepository) Search(ctx context.Context, firstName, lastName string) ([]addressbook.Client, error) {
	var clients []addressbook.Client
	if err := r.db.WithContext(ctx).
		Where("first_name = ? AND last_name = ?", firstName, lastName).
		Order("created_at ASC, id ASC").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Ensure GormClientRepository implements ClientRepository
var _ addressbook.ClientRepository = (*GormClientRepository)(nil)
