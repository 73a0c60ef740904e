package authz

// Permission is a named access action. The set is closed: the engine treats
// each permission as an opaque tag with no hierarchy among them.
type Permission string

const (
	PacientesVisualizar Permission = "PACIENTES_VISUALIZAR"
	PacientesCriar      Permission = "PACIENTES_CRIAR"
	PacientesEditar     Permission = "PACIENTES_EDITAR"
	PacientesExcluir    Permission = "PACIENTES_EXCLUIR"

	AgendamentosVisualizar Permission = "AGENDAMENTOS_VISUALIZAR"
	AgendamentosCriar      Permission = "AGENDAMENTOS_CRIAR"
	AgendamentosEditar     Permission = "AGENDAMENTOS_EDITAR"
	AgendamentosCancelar   Permission = "AGENDAMENTOS_CANCELAR"

	ConsultasVisualizar Permission = "CONSULTAS_VISUALIZAR"
	ConsultasCriar      Permission = "CONSULTAS_CRIAR"
	ConsultasEditar     Permission = "CONSULTAS_EDITAR"

	ProcedimentosVisualizar Permission = "PROCEDIMENTOS_VISUALIZAR"
	ProcedimentosCriar      Permission = "PROCEDIMENTOS_CRIAR"
	ProcedimentosEditar     Permission = "PROCEDIMENTOS_EDITAR"

	ProdutosVisualizar Permission = "PRODUTOS_VISUALIZAR"
	ProdutosCriar      Permission = "PRODUTOS_CRIAR"
	ProdutosEditar     Permission = "PRODUTOS_EDITAR"

	EstoqueVisualizar Permission = "ESTOQUE_VISUALIZAR"
	EstoqueMovimentar Permission = "ESTOQUE_MOVIMENTAR"

	FinanceiroVisualizar Permission = "FINANCEIRO_VISUALIZAR"
	FinanceiroCriar      Permission = "FINANCEIRO_CRIAR"
	FinanceiroEditar     Permission = "FINANCEIRO_EDITAR"
	FinanceiroExcluir    Permission = "FINANCEIRO_EXCLUIR"

	PrescricoesVisualizar Permission = "PRESCRICOES_VISUALIZAR"
	PrescricoesCriar      Permission = "PRESCRICOES_CRIAR"
	PrescricoesEditar     Permission = "PRESCRICOES_EDITAR"

	RelatoriosVisualizar Permission = "RELATORIOS_VISUALIZAR"

	ConfiguracoesVisualizar Permission = "CONFIGURACOES_VISUALIZAR"
	ConfiguracoesEditar     Permission = "CONFIGURACOES_EDITAR"

	UsuariosVisualizar Permission = "USUARIOS_VISUALIZAR"
	UsuariosCriar      Permission = "USUARIOS_CRIAR"
	UsuariosEditar     Permission = "USUARIOS_EDITAR"
)

var allPermissions = []Permission{
	PacientesVisualizar, PacientesCriar, PacientesEditar, PacientesExcluir,
	AgendamentosVisualizar, AgendamentosCriar, AgendamentosEditar, AgendamentosCancelar,
	ConsultasVisualizar, ConsultasCriar, ConsultasEditar,
	ProcedimentosVisualizar, ProcedimentosCriar, ProcedimentosEditar,
	ProdutosVisualizar, ProdutosCriar, ProdutosEditar,
	EstoqueVisualizar, EstoqueMovimentar,
	FinanceiroVisualizar, FinanceiroCriar, FinanceiroEditar, FinanceiroExcluir,
	PrescricoesVisualizar, PrescricoesCriar, PrescricoesEditar,
	RelatoriosVisualizar,
	ConfiguracoesVisualizar, ConfiguracoesEditar,
	UsuariosVisualizar, UsuariosCriar, UsuariosEditar,
}

// AllPermissions returns the full permission enumeration.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// Valid reports whether p belongs to the enumeration.
func (p Permission) Valid() bool {
	for _, known := range allPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// PermissionSet is an unordered set of permissions.
type PermissionSet map[Permission]struct{}

// Has reports whether p is in the set.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// List returns the set's members in unspecified order.
func (s PermissionSet) List() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}
