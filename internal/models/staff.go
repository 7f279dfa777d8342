package models

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// StaffRole is the permission level of a staff member
type StaffRole string

const (
	RoleGuard      StaffRole = "GUARD"
	RoleAdmin      StaffRole = "ADMIN"
	RoleSuperAdmin StaffRole = "SUPER_ADMIN"
)

const pinHashCost = 12

// Staff is a guard or administrator who can log in at the front desk
type Staff struct {
	ID        int64     `json:"id"`
	CondoID   int64     `json:"condominiumId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      StaffRole `json:"role"`
	PhotoURL  string    `json:"photoUrl,omitempty"`
	PinHash   string    `json:"-"`
}

// FullName joins first and last name
func (s *Staff) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Matches compares names the way guards type them: trimmed, case-insensitive
func (s *Staff) Matches(first, last string) bool {
	return strings.EqualFold(strings.TrimSpace(s.FirstName), strings.TrimSpace(first)) &&
		strings.EqualFold(strings.TrimSpace(s.LastName), strings.TrimSpace(last))
}

// CanWorkAt reports whether the staff member may log in on a device bound to condoID
func (s *Staff) CanWorkAt(condoID int64) bool {
	return s.Role == RoleSuperAdmin || s.CondoID == condoID
}

// SetPIN stores a bcrypt hash of pin for offline login
func (s *Staff) SetPIN(pin string) error {
	if len(strings.TrimSpace(pin)) < 4 {
		return ValidationError{"pin", "PIN must have at least 4 digits"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), pinHashCost)
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", err)
	}
	s.PinHash = string(hash)
	return nil
}

// VerifyPIN checks pin against the cached hash (constant-time via bcrypt)
func (s *Staff) VerifyPIN(pin string) bool {
	if s.PinHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s.PinHash), []byte(pin)) == nil
}

// LoginRequest is the body of a staff login
type LoginRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	PIN       string `json:"pin"`
}

// Validate checks that all credentials are present
func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return ValidationError{"name", "first and last name are required"}
	}
	if strings.TrimSpace(r.PIN) == "" {
		return ValidationError{"pin", "PIN is required"}
	}
	return nil
}
