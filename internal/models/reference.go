package models

import "fmt"

// LookupKind names a configuration lookup list
type LookupKind string

const (
	LookupVisitType   LookupKind = "visit_types"
	LookupServiceType LookupKind = "service_types"
	LookupRestaurant  LookupKind = "restaurants"
	LookupSport       LookupKind = "sports"
)

// Valid reports whether k is a known lookup list
func (k LookupKind) Valid() bool {
	switch k {
	case LookupVisitType, LookupServiceType, LookupRestaurant, LookupSport:
		return true
	}
	return false
}

// Lookup is one entry of a configuration list rendered by the kiosk forms.
// Venues (restaurants, sports) are scoped to a condominium; visit and service
// types are global and have a zero CondoID.
type Lookup struct {
	ID                  int64      `json:"id"`
	Kind                LookupKind `json:"kind"`
	CondoID             int64      `json:"condominiumId,omitempty"`
	Name                string     `json:"name"`
	Icon                string     `json:"icon,omitempty"`
	RequiresServiceType bool       `json:"requiresServiceType,omitempty"`
}

// Unit is an apartment or house inside a condominium
type Unit struct {
	ID       int64  `json:"id"`
	CondoID  int64  `json:"condominiumId"`
	Block    string `json:"block"`
	Number   string `json:"number"`
	Floor    string `json:"floor,omitempty"`
	Resident string `json:"residentName,omitempty"`
}

// Code is the label guards type and read, e.g. "A-101"
func (u Unit) Code() string {
	if u.Block == "" {
		return u.Number
	}
	return fmt.Sprintf("%s-%s", u.Block, u.Number)
}

// Condominium is the tenant a device is bound to
type Condominium struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
}
