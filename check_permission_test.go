package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermissionInactiveUserAlwaysDenied(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	createUser(t, engine, User{ID: "u1", Name: "Ana", Role: RoleAdmin, Active: false, HomeUnidade: UnidadeBarra})
	require.NoError(t, engine.SetupDefaultRolePermissions(ctx, RoleMedico, UnidadeBarra))
	require.NoError(t, engine.GrantUserPermission(ctx, "u1", FinanceiroEditar, UnidadeBarra))

	for _, perm := range AllPermissions() {
		assert.False(t, engine.HasPermission(ctx, "u1", perm, UnidadeBarra), "inactive user must hold no permission, got %s", perm)
		assert.False(t, engine.HasPermission(ctx, "u1", perm, UnidadeTijuca))
	}
	assert.Empty(t, engine.GetUserPermissions(ctx, "u1", UnidadeBarra))
}

func TestHasPermissionAdminBypass(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	// No role seeding, no overrides, and TIJUCA is not accessible.
	createUser(t, engine, User{ID: "adm", Name: "Rainer", Role: RoleAdmin, Active: true, HomeUnidade: UnidadeBarra})

	for _, perm := range AllPermissions() {
		assert.True(t, engine.HasPermission(ctx, "adm", perm, UnidadeBarra))
		assert.True(t, engine.HasPermission(ctx, "adm", perm, UnidadeTijuca))
	}

	set := engine.GetUserPermissions(ctx, "adm", UnidadeTijuca)
	assert.Len(t, set, len(AllPermissions()))
}

func TestHasPermissionUnidadeGatingBeatsOverride(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	createUser(t, engine, User{ID: "med", Name: "Carla", Role: RoleMedico, Active: true, HomeUnidade: UnidadeBarra})
	require.NoError(t, engine.SetupDefaultRolePermissions(ctx, RoleMedico, UnidadeTijuca))
	require.NoError(t, engine.GrantUserPermission(ctx, "med", PacientesVisualizar, UnidadeTijuca))

	for _, perm := range AllPermissions() {
		assert.False(t, engine.HasPermission(ctx, "med", perm, UnidadeTijuca), "override must not bypass unidade gating")
	}
	assert.Empty(t, engine.GetUserPermissions(ctx, "med", UnidadeTijuca))

	// Membership makes the same grants visible.
	require.NoError(t, engine.db.Create(&UserUnidade{UserID: "med", Unidade: UnidadeTijuca}).Error)
	assert.True(t, engine.HasPermission(ctx, "med", PacientesVisualizar, UnidadeTijuca))
	assert.True(t, engine.HasPermission(ctx, "med", ConsultasCriar, UnidadeTijuca))
}

func TestHasPermissionRoleDefaults(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	createUser(t, engine, User{ID: "rec", Name: "Bia", Role: RoleRecepcionista, Active: true, HomeUnidade: UnidadeBarra})
	require.NoError(t, engine.SetupDefaultRolePermissions(ctx, RoleRecepcionista, UnidadeBarra))

	assert.True(t, engine.HasPermission(ctx, "rec", AgendamentosCriar, UnidadeBarra))
	assert.True(t, engine.HasPermission(ctx, "rec", FinanceiroVisualizar, UnidadeBarra))
	assert.False(t, engine.HasPermission(ctx, "rec", FinanceiroEditar, UnidadeBarra))
	assert.False(t, engine.HasPermission(ctx, "rec", PrescricoesCriar, UnidadeBarra))

	// Grants are scoped to the seeded unidade only.
	require.NoError(t, engine.db.Create(&UserUnidade{UserID: "rec", Unidade: UnidadeTijuca}).Error)
	assert.False(t, engine.HasPermission(ctx, "rec", AgendamentosCriar, UnidadeTijuca))
}

func TestGrantAndRevokePrecedence(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	createUser(t, engine, User{ID: "rec", Name: "Bia", Role: RoleRecepcionista, Active: true, HomeUnidade: UnidadeBarra})
	require.NoError(t, engine.SetupDefaultRolePermissions(ctx, RoleRecepcionista, UnidadeBarra))

	require.False(t, engine.HasPermission(ctx, "rec", FinanceiroEditar, UnidadeBarra))

	require.NoError(t, engine.GrantUserPermission(ctx, "rec", FinanceiroEditar, UnidadeBarra))
	assert.True(t, engine.HasPermission(ctx, "rec", FinanceiroEditar, UnidadeBarra))

	require.NoError(t, engine.RevokeUserPermission(ctx, "rec", FinanceiroEditar, UnidadeBarra))
	assert.False(t, engine.HasPermission(ctx, "rec", FinanceiroEditar, UnidadeBarra))

	// Revoking an override never touches role-level grants.
	assert.True(t, engine.HasPermission(ctx, "rec", AgendamentosCriar, UnidadeBarra))
}

func TestGrantIsIdempotent(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	createUser(t, engine, User{ID: "u1", Name: "Ana", Role: RoleMedico, Active: true, HomeUnidade: UnidadeBarra})

	require.NoError(t, engine.GrantUserPermission(ctx, "u1", EstoqueVisualizar, UnidadeBarra))
	require.NoError(t, engine.GrantUserPermission(ctx, "u1", EstoqueVisualizar, UnidadeBarra))

	var count int64
	require.NoError(t, engine.db.Model(&UserPermission{}).
		Where("user_id = ? AND permission = ? AND unidade = ?", "u1", EstoqueVisualizar, UnidadeBarra).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.True(t, engine.HasPermission(ctx, "u1", EstoqueVisualizar, UnidadeBarra))
}

func TestRevokeWithoutGrantIsNoOp(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	createUser(t, engine, User{ID: "u1", Name: "Ana", Role: RoleMedico, Active: true, HomeUnidade: UnidadeBarra})

	require.NoError(t, engine.RevokeUserPermission(ctx, "u1", EstoqueVisualizar, UnidadeBarra))
	require.NoError(t, engine.RevokeUserPermission(ctx, "u1", EstoqueVisualizar, UnidadeBarra))
	assert.False(t, engine.HasPermission(ctx, "u1", EstoqueVisualizar, UnidadeBarra))
}

func TestSetupDefaultRolePermissionsIdempotentAndAdditive(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	createUser(t, engine, User{ID: "rec", Name: "Bia", Role: RoleRecepcionista, Active: true, HomeUnidade: UnidadeBarra})

	require.NoError(t, engine.SetupDefaultRolePermissions(ctx, RoleRecepcionista, UnidadeBarra))
	first := engine.GetUserPermissions(ctx, "rec", UnidadeBarra)

	// A manual grant outside the default list must survive re-seeding.
	manual := RolePermission{Role: RoleRecepcionista, Permission: PrescricoesVisualizar, Unidade: UnidadeBarra, Active: true}
	require.NoError(t, engine.db.Create(&manual).Error)

	require.NoError(t, engine.SetupDefaultRolePermissions(ctx, RoleRecepcionista, UnidadeBarra))
	second := engine.GetUserPermissions(ctx, "rec", UnidadeBarra)

	for p := range first {
		assert.True(t, second.Has(p))
	}
	assert.True(t, second.Has(PrescricoesVisualizar))
	assert.Len(t, second, len(first)+1)

	var count int64
	require.NoError(t, engine.db.Model(&RolePermission{}).
		Where("role = ? AND unidade = ?", RoleRecepcionista, UnidadeBarra).
		Count(&count).Error)
	assert.EqualValues(t, len(first)+1, count, "re-seeding must not duplicate rows")
}

func TestGetUserPermissionsConsistentWithHasPermission(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	createUser(t, engine, User{ID: "enf", Name: "Rita", Role: RoleEnfermeiro, Active: true, HomeUnidade: UnidadeBarra})
	require.NoError(t, engine.SetupDefaultRolePermissions(ctx, RoleEnfermeiro, UnidadeBarra))
	require.NoError(t, engine.GrantUserPermission(ctx, "enf", RelatoriosVisualizar, UnidadeBarra))

	set := engine.GetUserPermissions(ctx, "enf", UnidadeBarra)
	require.NotEmpty(t, set)

	for _, perm := range AllPermissions() {
		assert.Equal(t, set.Has(perm), engine.HasPermission(ctx, "enf", perm, UnidadeBarra),
			"set and point check disagree on %s", perm)
	}
}

func TestHasPermissionFailsClosedOnStoreError(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	createUser(t, engine, User{ID: "rec", Name: "Bia", Role: RoleRecepcionista, Active: true, HomeUnidade: UnidadeBarra})
	require.NoError(t, engine.SetupDefaultRolePermissions(ctx, RoleRecepcionista, UnidadeBarra))
	require.True(t, engine.HasPermission(ctx, "rec", AgendamentosCriar, UnidadeBarra))

	// Break the store: every lookup from here on errors out.
	sqlDB, err := engine.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.False(t, engine.HasPermission(ctx, "rec", AgendamentosCriar, UnidadeBarra),
		"store errors must deny, never grant")
	assert.False(t, engine.HasPermission(ctx, "rec", FinanceiroEditar, UnidadeBarra))
	assert.Empty(t, engine.GetUserPermissions(ctx, "rec", UnidadeBarra),
		"store errors must yield an empty set")
}

func TestHasPermissionInvalidInput(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	createUser(t, engine, User{ID: "u1", Name: "Ana", Role: RoleAdmin, Active: true, HomeUnidade: UnidadeBarra})

	assert.False(t, engine.HasPermission(ctx, "", PacientesVisualizar, UnidadeBarra))
	assert.False(t, engine.HasPermission(ctx, "u1", Permission("NOT_A_PERMISSION"), UnidadeBarra))
	assert.False(t, engine.HasPermission(ctx, "u1", PacientesVisualizar, ""))
	assert.False(t, engine.HasPermission(ctx, "ghost", PacientesVisualizar, UnidadeBarra))
}
