package authz

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"
)

// GrantUserPermission upserts an active override for (user, permission,
// unidade). Granting an already-granted permission is a no-op.
func (e *Engine) GrantUserPermission(ctx context.Context, userID string, perm Permission, unidade Unidade) error {
	if userID == "" || unidade == "" || !perm.Valid() {
		return ErrInvalidInput
	}

	up := UserPermission{UserID: userID, Permission: perm, Unidade: unidade, Active: true}
	err := e.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "permission"}, {Name: "unidade"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"active": true}),
	}).Create(&up).Error
	if err != nil {
		return fmt.Errorf("failed to grant %s to user %s in %s: %w", perm, userID, unidade, err)
	}

	e.invalidateUserCache(ctx, userID)
	return nil
}

// RevokeUserPermission deactivates the override for (user, permission,
// unidade). Revoking an absent or already-revoked override is a no-op,
// not an error. Role-level grants are unaffected.
func (e *Engine) RevokeUserPermission(ctx context.Context, userID string, perm Permission, unidade Unidade) error {
	if userID == "" || unidade == "" || !perm.Valid() {
		return ErrInvalidInput
	}

	err := e.db.WithContext(ctx).Model(&UserPermission{}).
		Where("user_id = ? AND permission = ? AND unidade = ?", userID, perm, unidade).
		Update("active", false).Error
	if err != nil {
		return fmt.Errorf("failed to revoke %s from user %s in %s: %w", perm, userID, unidade, err)
	}

	e.invalidateUserCache(ctx, userID)
	return nil
}
