package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hackathon-team-api/internal/domain"
)

// HackathonRepository reads hackathon settings
type HackathonRepository interface {
	Create(ctx context.Context, hackathon *domain.Hackathon) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Hackathon, error)
}

type hackathonRepositoryImpl struct {
	db *gorm.DB
}

func NewHackathonRepository(db *gorm.DB) HackathonRepository {
	return &hackathonRepositoryImpl{db: db}
}

func (r *hackathonRepositoryImpl) Create(ctx context.Context, hackathon *domain.Hackathon) error {
	return r.db.WithContext(ctx).Create(hackathon).Error
}

func (r *hackathonRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Hackathon, error) {
	var hackathon domain.Hackathon
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&hackathon).Error; err != nil {
		return nil, err
	}
	return &hackathon, nil
}
