package domain

import "github.com/google/uuid"

// Identity is the authenticated caller as asserted by the access token
type Identity struct {
	UserID        uuid.UUID
	Email         string
	EmailVerified bool
}

func (i Identity) IsAuthenticated() bool {
	return i.UserID != uuid.Nil
}
