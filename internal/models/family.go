package models

import "time"

// FamilyMember is a person the owning user shares the tracker with. The
// count per user is capped by the package quota and the feature itself is
// plan-gated.
type FamilyMember struct {
	ID        int64
	UserUID   string
	Name      string
	Email     string
	CreatedAt time.Time
}

// DummyFamilyMember receives family member create payloads.
type DummyFamilyMember struct {
	Name  string `json:"name" validate:"required,max=128"`
	Email string `json:"email" validate:"required,email"`
}
