package authz

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// HasPermission verifies if a user holds a permission in a unidade.
// Evaluation order, short-circuiting on first match: user active, admin
// bypass, unidade membership, per-user override, role default. Any storage
// error is logged and denies.
//
// resourceID is accepted for audit context only; the decision does not
// depend on it.
func (e *Engine) HasPermission(ctx context.Context, userID string, perm Permission, unidade Unidade, resourceID ...string) bool {
	if userID == "" || unidade == "" || !perm.Valid() {
		return false
	}

	var user User
	if err := e.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			e.log.Errorw("permission check failed closed", "user", userID, "permission", perm, "unidade", unidade, "error", err)
		}
		return false
	}
	if !user.Active {
		return false
	}

	// Admins bypass unidade scoping and the grant tables.
	if user.Role == RoleAdmin {
		return true
	}

	member, err := e.isUnidadeMember(ctx, &user, unidade)
	if err != nil {
		e.log.Errorw("unidade membership check failed closed", "user", userID, "unidade", unidade, "error", err)
		return false
	}
	if !member {
		return false
	}

	// The cache only covers the grant-layer outcome; the user's active
	// flag and unidade membership are always re-read so a deactivation
	// takes effect immediately.
	if allowed, ok := e.cachedDecision(ctx, userID, perm, unidade); ok {
		return allowed
	}

	var count int64
	err = e.db.WithContext(ctx).Model(&UserPermission{}).
		Where("user_id = ? AND permission = ? AND unidade = ? AND active = ?", userID, perm, unidade, true).
		Count(&count).Error
	if err != nil {
		e.log.Errorw("user override lookup failed closed", "user", userID, "permission", perm, "unidade", unidade, "error", err)
		return false
	}
	if count > 0 {
		e.cacheDecision(ctx, userID, perm, unidade, true)
		return true
	}

	err = e.db.WithContext(ctx).Model(&RolePermission{}).
		Where("role = ? AND permission = ? AND unidade = ? AND active = ?", user.Role, perm, unidade, true).
		Count(&count).Error
	if err != nil {
		e.log.Errorw("role grant lookup failed closed", "user", userID, "permission", perm, "unidade", unidade, "error", err)
		return false
	}

	e.cacheDecision(ctx, userID, perm, unidade, count > 0)
	return count > 0
}

// GetUserPermissions returns every permission the user holds in the
// unidade: the union of active role defaults and active per-user
// overrides. Admins get the full enumeration; users outside the unidade
// get an empty set. Storage errors yield an empty set.
func (e *Engine) GetUserPermissions(ctx context.Context, userID string, unidade Unidade) PermissionSet {
	set := PermissionSet{}
	if userID == "" || unidade == "" {
		return set
	}

	var user User
	if err := e.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			e.log.Errorw("user permission listing failed closed", "user", userID, "unidade", unidade, "error", err)
		}
		return set
	}
	if !user.Active {
		return set
	}

	if user.Role == RoleAdmin {
		for _, p := range AllPermissions() {
			set[p] = struct{}{}
		}
		return set
	}

	member, err := e.isUnidadeMember(ctx, &user, unidade)
	if err != nil {
		e.log.Errorw("unidade membership check failed closed", "user", userID, "unidade", unidade, "error", err)
		return set
	}
	if !member {
		return set
	}

	var roleGrants []RolePermission
	err = e.db.WithContext(ctx).
		Where("role = ? AND unidade = ? AND active = ?", user.Role, unidade, true).
		Find(&roleGrants).Error
	if err != nil {
		e.log.Errorw("role grant listing failed closed", "user", userID, "unidade", unidade, "error", err)
		return PermissionSet{}
	}
	for _, rp := range roleGrants {
		set[rp.Permission] = struct{}{}
	}

	var overrides []UserPermission
	err = e.db.WithContext(ctx).
		Where("user_id = ? AND unidade = ? AND active = ?", userID, unidade, true).
		Find(&overrides).Error
	if err != nil {
		e.log.Errorw("user override listing failed closed", "user", userID, "unidade", unidade, "error", err)
		return PermissionSet{}
	}
	for _, up := range overrides {
		set[up.Permission] = struct{}{}
	}

	return set
}

// isUnidadeMember reports whether the user may act in the unidade: it is
// either their home unidade or one of their accessible unidades.
func (e *Engine) isUnidadeMember(ctx context.Context, user *User, unidade Unidade) (bool, error) {
	if user.HomeUnidade == unidade {
		return true, nil
	}
	var count int64
	err := e.db.WithContext(ctx).Model(&UserUnidade{}).
		Where("user_id = ? AND unidade = ?", user.ID, unidade).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
