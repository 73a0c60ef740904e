package authz

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"
)

// SetupDefaultRolePermissions upserts the default policy for one role in
// one unidade, marking every default permission active. It is additive and
// idempotent: grants outside the default list are left untouched, and
// re-running it produces the same state.
func (e *Engine) SetupDefaultRolePermissions(ctx context.Context, role Role, unidade Unidade) error {
	if !role.Valid() || unidade == "" {
		return ErrInvalidInput
	}

	for _, perm := range DefaultPermissionsForRole(role) {
		rp := RolePermission{Role: role, Permission: perm, Unidade: unidade, Active: true}
		err := e.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "role"}, {Name: "permission"}, {Name: "unidade"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"active": true}),
		}).Create(&rp).Error
		if err != nil {
			return fmt.Errorf("failed to seed %s for role %s in %s: %w", perm, role, unidade, err)
		}
	}

	e.invalidateUserCache(ctx, "")
	return nil
}

// SetupAllDefaultRolePermissions seeds the default policy for every role
// in the given unidade.
func (e *Engine) SetupAllDefaultRolePermissions(ctx context.Context, unidade Unidade) error {
	for _, role := range AllRoles() {
		if err := e.SetupDefaultRolePermissions(ctx, role, unidade); err != nil {
			return err
		}
	}
	return nil
}
