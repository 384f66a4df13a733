package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hackathon-team-api/internal/domain"
)

// MemberRepository defines data access for team members
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	FindByTeamAndEmail(ctx context.Context, teamID uuid.UUID, email string) (*domain.Member, error)
	FindByTeamAndStatus(ctx context.Context, teamID uuid.UUID, status domain.MemberStatus) ([]*domain.Member, error)
	LinkUser(ctx context.Context, memberID, userID uuid.UUID) (bool, error)
	Reject(ctx context.Context, memberID uuid.UUID) (bool, error)
	UpdateProfile(ctx context.Context, memberID uuid.UUID, profile domain.Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type memberRepositoryImpl struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepositoryImpl{db: db}
}

func (r *memberRepositoryImpl) Create(ctx context.Context, member *domain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	var member domain.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepositoryImpl) FindByTeamAndEmail(ctx context.Context, teamID uuid.UUID, email string) (*domain.Member, error) {
	var member domain.Member
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND email = ?", teamID, email).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepositoryImpl) FindByTeamAndStatus(ctx context.Context, teamID uuid.UUID, status domain.MemberStatus) ([]*domain.Member, error) {
	var members []*domain.Member
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND status = ?", teamID, status).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// LinkUser binds a pending member to userID. It never touches status and
// reports false when the row was not pending or already linked to userID.
func (r *memberRepositoryImpl) LinkUser(ctx context.Context, memberID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Member{}).
		Where("id = ? AND status = ? AND (user_id IS NULL OR user_id <> ?)", memberID, domain.MemberPending, userID).
		Update("user_id", userID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Reject moves a pending member to REJECTED
func (r *memberRepositoryImpl) Reject(ctx context.Context, memberID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Member{}).
		Where("id = ? AND status = ?", memberID, domain.MemberPending).
		Update("status", domain.MemberRejected)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *memberRepositoryImpl) UpdateProfile(ctx context.Context, memberID uuid.UUID, profile domain.Profile) error {
	return r.db.WithContext(ctx).Model(&domain.Member{}).
		Where("id = ?", memberID).
		Updates(profileColumns(profile)).Error
}

func (r *memberRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Member{}).Error
}

// profileColumns lists every profile column so empty strings are written too
func profileColumns(p domain.Profile) map[string]interface{} {
	return map[string]interface{}{
		"full_name":        p.FullName,
		"mobile":           p.Mobile,
		"organization":     p.Organization,
		"participant_type": p.ParticipantType,
		"city":             p.City,
	}
}
