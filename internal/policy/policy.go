// Package policy decides which users and report rows a caller may see.
//
// Visibility rules:
//   - admin: everything, optionally narrowed to one ward
//   - city: rows of the caller's city; a requested ward must belong to that city
//   - ward: rows of the caller's own ward only
package policy

import (
	"context"
	"errors"
	"fmt"

	"kiosk-report/internal/model"
)

var (
	ErrForbidden    = errors.New("forbidden")
	ErrUnitNotFound = errors.New("ward not found")
	ErrInvalidRole  = errors.New("invalid role")
	ErrMissingScope = errors.New("missing scope")
	ErrWardMismatch = errors.New("ward does not belong to city")
)

// Scope is the caller identity decoded from the access token.
type Scope struct {
	UserID   int
	Username string
	Role     model.Role
	CityID   *int
	WardID   *int
}

// UserVisibility narrows the user listing.
type UserVisibility struct {
	All      bool
	CityID   *int
	SelfID   int
	SelfOnly bool
}

// ReportScope narrows report rows; nil fields do not filter.
type ReportScope struct {
	CityID *int
	WardID *int
}

// WardLookup returns the ward or nil when it does not exist.
type WardLookup func(ctx context.Context, wardID int) (*model.Ward, error)

func RequireAdmin(s Scope) error {
	if s.Role != model.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func UserFilter(s Scope) (UserVisibility, error) {
	switch s.Role {
	case model.RoleAdmin:
		return UserVisibility{All: true}, nil
	case model.RoleCity:
		if s.CityID == nil {
			return UserVisibility{}, ErrForbidden
		}
		return UserVisibility{CityID: s.CityID, SelfID: s.UserID}, nil
	case model.RoleWard:
		return UserVisibility{SelfOnly: true, SelfID: s.UserID}, nil
	}
	return UserVisibility{}, ErrForbidden
}

// ResolveReportScope applies the role rules to an optional requested ward.
// A ward caller's request is ignored; they always get their own ward.
func ResolveReportScope(ctx context.Context, s Scope, requestedWard *int, lookup WardLookup) (ReportScope, error) {
	if requestedWard != nil && *requestedWard <= 0 {
		requestedWard = nil
	}

	switch s.Role {
	case model.RoleAdmin:
		return ReportScope{WardID: requestedWard}, nil

	case model.RoleCity:
		if s.CityID == nil {
			return ReportScope{}, ErrForbidden
		}
		if requestedWard == nil {
			return ReportScope{CityID: s.CityID}, nil
		}
		ward, err := lookup(ctx, *requestedWard)
		if err != nil {
			return ReportScope{}, fmt.Errorf("ResolveReportScope: %w", err)
		}
		if ward == nil {
			return ReportScope{}, ErrUnitNotFound
		}
		if ward.CityID != *s.CityID {
			return ReportScope{}, ErrForbidden
		}
		return ReportScope{CityID: s.CityID, WardID: requestedWard}, nil

	case model.RoleWard:
		if s.WardID == nil {
			return ReportScope{}, ErrForbidden
		}
		return ReportScope{WardID: s.WardID}, nil
	}
	return ReportScope{}, ErrForbidden
}

// NormalizeScope validates the scope references supplied when creating a user
// and drops the ones the role must not carry.
func NormalizeScope(role model.Role, cityID, wardID *int) (*int, *int, error) {
	switch role {
	case model.RoleAdmin:
		return nil, nil, nil
	case model.RoleCity:
		if !positive(cityID) {
			return nil, nil, fmt.Errorf("%w: city user requires city_id", ErrMissingScope)
		}
		return cityID, nil, nil
	case model.RoleWard:
		if !positive(cityID) || !positive(wardID) {
			return nil, nil, fmt.Errorf("%w: ward user requires city_id and ward_id", ErrMissingScope)
		}
		return cityID, wardID, nil
	}
	return nil, nil, ErrInvalidRole
}

// CheckWardCity verifies that the ward exists and belongs to the city.
func CheckWardCity(ctx context.Context, cityID, wardID int, lookup WardLookup) error {
	ward, err := lookup(ctx, wardID)
	if err != nil {
		return fmt.Errorf("CheckWardCity: %w", err)
	}
	if ward == nil {
		return ErrUnitNotFound
	}
	if ward.CityID != cityID {
		return ErrWardMismatch
	}
	return nil
}

func positive(p *int) bool { return p != nil && *p > 0 }
