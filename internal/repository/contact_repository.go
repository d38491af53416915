package repository

import (
	"github.com/teamtrack/workforce-api/internal/models"
	"gorm.io/gorm"
)

// GormContactRepository is a GORM implementation of ContactRepository
type GormContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &GormContactRepository{db: db}
}

// Create creates a new contact message
func (r *GormContactRepository) Create(contact *models.Contact) error {
	return r.db.Create(contact).Error
}

// FindByID finds a contact message by ID
func (r *GormContactRepository) FindByID(id uint64, preload ...string) (*models.Contact, error) {
	var contact models.Contact
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&contact, id).Error; err != nil {
		return nil, err
	}

	return &contact, nil
}

// List retrieves contact messages with filtering and pagination
func (r *GormContactRepository) List(filter ContactFilter) ([]models.Contact, int64, error) {
	var contacts []models.Contact

	query := r.db.Model(&models.Contact{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC").
		Scopes(paginate(filter.Page, filter.PageSize))

	if err := listQuery.Find(&contacts).Error; err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// Update updates a contact message
func (r *GormContactRepository) Update(contact *models.Contact) error {
	return r.db.Save(contact).Error
}

// Delete soft deletes a contact message
func (r *GormContactRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Contact{}, id).Error
}
