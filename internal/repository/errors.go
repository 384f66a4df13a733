package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrTeamFull is returned when a capacity claim finds no free slot
	ErrTeamFull = errors.New("team has no free slot")
	// ErrMemberNotPending is returned when a guarded status write matched no pending row
	ErrMemberNotPending = errors.New("member is not pending")
)

// IsUniqueViolation reports whether err came from a unique index.
// Postgres and SQLite word it differently and gorm only translates it when
// TranslateError is enabled, so the driver text is checked as well.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// IsNotFound reports whether err means the row does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
