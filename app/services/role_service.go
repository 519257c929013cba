package services

import (
	"context"

	"github.com/ibrahimdesign/atelier/app/models"
	"github.com/ibrahimdesign/atelier/pkg/logger"
)

// Grant is the resolved outcome of a role lookup: the role itself plus its
// capability set.
type Grant struct {
	UserID string
	Role   models.Role
	models.Capabilities
}

// GuestGrant is what anonymous principals — and failed lookups — receive.
func GuestGrant() Grant {
	return Grant{Role: models.RoleGuest, Capabilities: models.RoleGuest.Capabilities()}
}

// ProfileStore is the slice of the user repository the resolver needs.
type ProfileStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// RoleService resolves a principal id to a capability grant.
//
// It never returns an error: an absent principal, a missing profile, or a
// lookup failure all collapse to the guest grant, so callers treat resolver
// trouble exactly like "no role".
type RoleService struct {
	profiles ProfileStore
}

func NewRoleService(profiles ProfileStore) *RoleService {
	return &RoleService{profiles: profiles}
}

// Resolve returns the grant for principalID; empty id means anonymous.
func (s *RoleService) Resolve(ctx context.Context, principalID string) Grant {
	if principalID == "" {
		return GuestGrant()
	}

	user, err := s.profiles.FindByID(ctx, principalID)
	if err != nil || user == nil {
		if err != nil {
			logger.WithCtx(ctx).Warn("role lookup failed, treating as guest",
				"principal", principalID, "error", err)
		}
		return GuestGrant()
	}

	role := models.ParseRole(user.Role)
	return Grant{UserID: user.ID, Role: role, Capabilities: role.Capabilities()}
}
