package models

import (
	"fmt"

	"github.com/google/uuid"
)

type Role string

const (
	RoleClient       Role = "CLIENT"
	RoleBarber       Role = "BARBER"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleAdmin        Role = "ADMIN"
)

// Principal is the authenticated caller. It is a closed union: the only
// implementations are the four types below.
type Principal interface {
	Role() Role
	Subject() uuid.UUID
	sealed()
}

type ClientPrincipal struct {
	ClientID uuid.UUID
}

type BarberPrincipal struct {
	BarberID uuid.UUID
}

type ReceptionistPrincipal struct {
	StaffID uuid.UUID
}

type AdminPrincipal struct {
	AdminID uuid.UUID
}

func (ClientPrincipal) Role() Role       { return RoleClient }
func (BarberPrincipal) Role() Role       { return RoleBarber }
func (ReceptionistPrincipal) Role() Role { return RoleReceptionist }
func (AdminPrincipal) Role() Role        { return RoleAdmin }

func (p ClientPrincipal) Subject() uuid.UUID       { return p.ClientID }
func (p BarberPrincipal) Subject() uuid.UUID       { return p.BarberID }
func (p ReceptionistPrincipal) Subject() uuid.UUID { return p.StaffID }
func (p AdminPrincipal) Subject() uuid.UUID        { return p.AdminID }

func (ClientPrincipal) sealed()       {}
func (BarberPrincipal) sealed()       {}
func (ReceptionistPrincipal) sealed() {}
func (AdminPrincipal) sealed()        {}

// NewPrincipal builds the union member for role.
func NewPrincipal(role Role, subject uuid.UUID) (Principal, error) {
	switch role {
	case RoleClient:
		return ClientPrincipal{ClientID: subject}, nil
	case RoleBarber:
		return BarberPrincipal{BarberID: subject}, nil
	case RoleReceptionist:
		return ReceptionistPrincipal{StaffID: subject}, nil
	case RoleAdmin:
		return AdminPrincipal{AdminID: subject}, nil
	}
	return nil, fmt.Errorf("unknown role %q", role)
}

// IsStaff reports whether p works at the shop.
func IsStaff(p Principal) bool {
	switch p.(type) {
	case BarberPrincipal, ReceptionistPrincipal, AdminPrincipal:
		return true
	}
	return false
}
