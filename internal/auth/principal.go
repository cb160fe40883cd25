package auth

import (
	"fmt"

	"storefront/internal/domain"
)

type Role int

const (
	RoleGuest Role = iota
	RoleCustomer
	RoleSeller
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleSeller:
		return "seller"
	case RoleAdmin:
		return "admin"
	}
	return "guest"
}

func ParseRole(s string) (Role, error) {
	switch s {
	case "customer":
		return RoleCustomer, nil
	case "seller":
		return RoleSeller, nil
	case "admin":
		return RoleAdmin, nil
	case "guest", "":
		return RoleGuest, nil
	}
	return RoleGuest, fmt.Errorf("unknown role %q", s)
}

// Principal is the caller of an operation. It is resolved once per request and
// passed explicitly to every service method.
type Principal struct {
	Role Role
	ID   uint64
}

var Guest = Principal{Role: RoleGuest}

func CustomerPrincipal(id uint64) Principal { return Principal{Role: RoleCustomer, ID: id} }
func SellerPrincipal(id uint64) Principal   { return Principal{Role: RoleSeller, ID: id} }
func AdminPrincipal() Principal             { return Principal{Role: RoleAdmin} }

// Customer returns the customer id or the reason the caller is not a customer.
func (p Principal) Customer() (uint64, error) {
	return p.require(RoleCustomer)
}

func (p Principal) Seller() (uint64, error) {
	return p.require(RoleSeller)
}

func (p Principal) Admin() error {
	_, err := p.require(RoleAdmin)
	return err
}

func (p Principal) require(role Role) (uint64, error) {
	switch p.Role {
	case role:
		return p.ID, nil
	case RoleGuest:
		return 0, domain.ErrUnauthenticated
	default:
		return 0, domain.ErrUnauthorized
	}
}
