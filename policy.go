package authz

// defaultRolePolicy is the fixed role -> permission mapping seeded by
// SetupDefaultRolePermissions. It is domain policy, kept as an explicit
// reviewable table. ADMIN is absent on purpose: admins bypass the grant
// tables entirely and hold the whole enumeration.
var defaultRolePolicy = map[Role][]Permission{
	RoleMedico: {
		PacientesVisualizar, PacientesCriar, PacientesEditar,
		AgendamentosVisualizar, AgendamentosCriar, AgendamentosEditar,
		ConsultasVisualizar, ConsultasCriar, ConsultasEditar,
		ProcedimentosVisualizar, ProcedimentosCriar, ProcedimentosEditar,
		PrescricoesVisualizar, PrescricoesCriar, PrescricoesEditar,
	},
	RoleEnfermeiro: {
		PacientesVisualizar, PacientesEditar,
		AgendamentosVisualizar, AgendamentosCriar, AgendamentosEditar,
		ConsultasVisualizar,
		ProcedimentosVisualizar, ProcedimentosCriar,
		EstoqueVisualizar,
		PrescricoesVisualizar,
	},
	RoleRecepcionista: {
		PacientesVisualizar, PacientesCriar, PacientesEditar,
		AgendamentosVisualizar, AgendamentosCriar, AgendamentosEditar, AgendamentosCancelar,
		ConsultasVisualizar,
		ProdutosVisualizar,
		FinanceiroVisualizar,
	},
	RoleFinanceiro: {
		PacientesVisualizar,
		FinanceiroVisualizar, FinanceiroCriar, FinanceiroEditar, FinanceiroExcluir,
		ProdutosVisualizar, ProdutosCriar, ProdutosEditar,
		EstoqueVisualizar, EstoqueMovimentar,
		RelatoriosVisualizar,
	},
}

// DefaultPermissionsForRole returns the default policy for a role. ADMIN
// returns the full enumeration; unknown roles return nil.
func DefaultPermissionsForRole(role Role) []Permission {
	if role == RoleAdmin {
		return AllPermissions()
	}
	perms, ok := defaultRolePolicy[role]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
