package repository

import (
	"errors"

	"github.com/indicamais/internal/models"

	"gorm.io/gorm"
)

// PlanRepository is the plan data-access interface.
type PlanRepository interface {
	GetByID(id uint) (*models.Plan, error)
	Create(plan *models.Plan) error
	Update(plan *models.Plan) error
	ListAll() ([]models.Plan, error)
}

// GormPlanRepository is the GORM implementation.
type GormPlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a plan repository.
func NewPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// GetByID fetches one plan.
func (r *GormPlanRepository) GetByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// Create inserts a plan.
func (r *GormPlanRepository) Create(plan *models.Plan) error {
	return r.db.Create(plan).Error
}

// Update saves a plan.
func (r *GormPlanRepository) Update(plan *models.Plan) error {
	return r.db.Save(plan).Error
}

// ListAll returns every plan ordered by id.
func (r *GormPlanRepository) ListAll() ([]models.Plan, error) {
	var plans []models.Plan
	if err := r.db.Order("id ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
