package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hackathon-team-api/internal/domain"
)

// AdmitParams describes one invite acceptance
type AdmitParams struct {
	TeamID   uuid.UUID
	MemberID uuid.UUID
	UserID   uuid.UUID
	JoinedAt time.Time
	// Registration is created in the same transaction when not nil
	Registration *domain.Registration
}

// TeamRepository defines data access for teams. Every method that changes
// SizeCurrent recomputes it from the ACCEPTED members in the same transaction.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	FindByIDWithMembers(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, team *domain.Team, members []domain.Member) error
	AdmitMember(ctx context.Context, params AdmitParams) error
	ReconcileSize(ctx context.Context, id uuid.UUID) (previous int, current int, err error)
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type teamRepositoryImpl struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepositoryImpl{db: db}
}

func (r *teamRepositoryImpl) Create(ctx context.Context, team *domain.Team) error {
	return r.db.WithContext(ctx).Omit("Members").Create(team).Error
}

func (r *teamRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	var team domain.Team
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByIDWithMembers loads the team with its roster, leader first
func (r *teamRepositoryImpl) FindByIDWithMembers(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	var team domain.Team
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_leader DESC").Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&team).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// Delete removes the team together with every member row
func (r *teamRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&domain.Member{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Team{}).Error
	})
}

// Restore re-inserts a deleted team and its members with their original IDs
func (r *teamRepositoryImpl) Restore(ctx context.Context, team *domain.Team, members []domain.Member) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		restored := *team
		restored.Members = nil
		if err := tx.Omit("Members").Create(&restored).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		return tx.Create(&members).Error
	})
}

// AdmitMember accepts a pending member. The status write is guarded on
// PENDING and the slot claim on size_current < size_max, so concurrent
// accepts on the last slot see exactly one winner.
func (r *teamRepositoryImpl) AdmitMember(ctx context.Context, params AdmitParams) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Member{}).
			Where("id = ? AND team_id = ? AND status = ?", params.MemberID, params.TeamID, domain.MemberPending).
			Updates(map[string]interface{}{
				"status":    domain.MemberAccepted,
				"user_id":   params.UserID,
				"joined_at": params.JoinedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMemberNotPending
		}

		res = tx.Model(&domain.Team{}).
			Where("id = ? AND size_current < size_max AND is_completed = ?", params.TeamID, false).
			Update("size_current", gorm.Expr("size_current + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTeamFull
		}

		team, err := recomputeSize(tx, params.TeamID)
		if err != nil {
			return err
		}
		if team.SizeCurrent > team.SizeMax {
			return ErrTeamFull
		}

		if params.Registration != nil {
			if err := tx.Create(params.Registration).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReconcileSize rewrites size_current from the ACCEPTED member count
func (r *teamRepositoryImpl) ReconcileSize(ctx context.Context, id uuid.UUID) (int, int, error) {
	var previous, current int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before domain.Team
		if err := tx.Select("id", "size_current").Where("id = ?", id).First(&before).Error; err != nil {
			return err
		}
		previous = before.SizeCurrent

		after, err := recomputeSize(tx, id)
		if err != nil {
			return err
		}
		current = after.SizeCurrent
		return nil
	})
	return previous, current, err
}

// MarkCompleted flips is_completed once; false means another call got there first
func (r *teamRepositoryImpl) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Team{}).
		Where("id = ? AND is_completed = ?", id, false).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func recomputeSize(tx *gorm.DB, teamID uuid.UUID) (*domain.Team, error) {
	accepted := tx.Model(&domain.Member{}).
		Select("COUNT(*)").
		Where("team_id = ? AND status = ?", teamID, domain.MemberAccepted)

	if err := tx.Model(&domain.Team{}).Where("id = ?", teamID).Update("size_current", accepted).Error; err != nil {
		return nil, err
	}

	var team domain.Team
	if err := tx.Select("id", "size_current", "size_max").Where("id = ?", teamID).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}
