package domain

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// ParticipantType classifies a participant for organisers
type ParticipantType string

const (
	ParticipantStudent      ParticipantType = "STUDENT"
	ParticipantProfessional ParticipantType = "PROFESSIONAL"
	ParticipantOther        ParticipantType = "OTHER"
)

func (t ParticipantType) IsValid() bool {
	switch t {
	case ParticipantStudent, ParticipantProfessional, ParticipantOther:
		return true
	}
	return false
}

var mobilePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,19}$`)

// ValidationError reports a malformed field in user input
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Profile is the identity data stored on both Member and Registration rows.
// Email lives next to it on each row because it is indexed differently per table.
type Profile struct {
	FullName        string          `gorm:"type:varchar(255);not null" json:"full_name"`
	Mobile          string          `gorm:"type:varchar(32)" json:"mobile"`
	Organization    string          `gorm:"type:varchar(255)" json:"organization"`
	ParticipantType ParticipantType `gorm:"type:varchar(20);not null;default:'OTHER'" json:"participant_type"`
	City            string          `gorm:"type:varchar(100)" json:"city"`
}

// ProfileInput is the raw, untrusted form of a Profile
type ProfileInput struct {
	FullName        string
	Mobile          string
	Organization    string
	ParticipantType string
	City            string
}

// NewProfile trims and validates input
func NewProfile(in ProfileInput) (Profile, error) {
	p := Profile{
		FullName:        strings.TrimSpace(in.FullName),
		Mobile:          strings.TrimSpace(in.Mobile),
		Organization:    strings.TrimSpace(in.Organization),
		ParticipantType: ParticipantType(strings.ToUpper(strings.TrimSpace(in.ParticipantType))),
		City:            strings.TrimSpace(in.City),
	}

	if p.FullName == "" {
		return Profile{}, &ValidationError{Field: "fullName", Reason: "is required"}
	}
	if len(p.FullName) > 255 {
		return Profile{}, &ValidationError{Field: "fullName", Reason: "must be at most 255 characters"}
	}
	if p.Mobile != "" && !mobilePattern.MatchString(p.Mobile) {
		return Profile{}, &ValidationError{Field: "mobile", Reason: "is not a valid phone number"}
	}
	if p.ParticipantType == "" {
		p.ParticipantType = ParticipantOther
	}
	if !p.ParticipantType.IsValid() {
		return Profile{}, &ValidationError{Field: "participantType", Reason: "must be STUDENT, PROFESSIONAL or OTHER"}
	}
	return p, nil
}

// NormalizeEmail trims and lower-cases an address and rejects anything that
// is not a bare addr-spec.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", &ValidationError{Field: "email", Reason: "is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", &ValidationError{Field: "email", Reason: "is not a valid email address"}
	}
	return email, nil
}

// SameEmail compares two addresses the way they are stored
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
