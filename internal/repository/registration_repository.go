package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hackathon-team-api/internal/domain"
)

// RegistrationRepository defines data access for registrations
type RegistrationRepository interface {
	Create(ctx context.Context, registration *domain.Registration) error
	FindByHackathonAndUser(ctx context.Context, hackathonID, userID uuid.UUID) (*domain.Registration, error)
	FindByTeamAndEmail(ctx context.Context, hackathonID, teamID uuid.UUID, email string) (*domain.Registration, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, profile domain.Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTeam(ctx context.Context, teamID uuid.UUID) (int64, error)
}

type registrationRepositoryImpl struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepositoryImpl{db: db}
}

func (r *registrationRepositoryImpl) Create(ctx context.Context, registration *domain.Registration) error {
	return r.db.WithContext(ctx).Create(registration).Error
}

func (r *registrationRepositoryImpl) FindByHackathonAndUser(ctx context.Context, hackathonID, userID uuid.UUID) (*domain.Registration, error) {
	var registration domain.Registration
	if err := r.db.WithContext(ctx).
		Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).
		First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *registrationRepositoryImpl) FindByTeamAndEmail(ctx context.Context, hackathonID, teamID uuid.UUID, email string) (*domain.Registration, error) {
	var registration domain.Registration
	if err := r.db.WithContext(ctx).
		Where("hackathon_id = ? AND team_id = ? AND email = ?", hackathonID, teamID, email).
		First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *registrationRepositoryImpl) UpdateProfile(ctx context.Context, id uuid.UUID, profile domain.Profile) error {
	return r.db.WithContext(ctx).Model(&domain.Registration{}).
		Where("id = ?", id).
		Updates(profileColumns(profile)).Error
}

func (r *registrationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Registration{}).Error
}

// DeleteByTeam removes every registration made through teamID
func (r *registrationRepositoryImpl) DeleteByTeam(ctx context.Context, teamID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("team_id = ?", teamID).Delete(&domain.Registration{})
	return res.RowsAffected, res.Error
}
