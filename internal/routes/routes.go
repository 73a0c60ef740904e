package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	authz "github.com/daniellopes/clinica-rainer-server"
	"github.com/daniellopes/clinica-rainer-server/audit"
)

// Setup wires the in-scope endpoints: permission administration and audit
// reporting. Business CRUD routes hang off the same gate elsewhere.
func Setup(app *fiber.App, engine *authz.Engine, gate *authz.Gate, store *audit.Store, log *zap.SugaredLogger, jwtSecret []byte) {
	h := &Handlers{Engine: engine, Store: store, Log: log}

	api := app.Group("/api/v1", authz.RequireAuth(jwtSecret))

	perms := api.Group("/permissions")
	perms.Post("/grant", gate.Authorize(authz.ConfiguracoesEditar, authz.WithResource("permissions")), h.Grant)
	perms.Post("/revoke", gate.Authorize(authz.ConfiguracoesEditar, authz.WithResource("permissions")), h.Revoke)
	perms.Post("/setup-defaults", gate.Authorize(authz.ConfiguracoesEditar, authz.WithResource("permissions")), h.SetupDefaults)

	api.Get("/users/:id/permissions",
		gate.Authorize(authz.UsuariosVisualizar, authz.AllowSameUser("id"), authz.WithResource("users")),
		h.ListUserPermissions)

	auditGroup := api.Group("/audit", gate.Authorize(authz.RelatoriosVisualizar, authz.WithResource("audit")))
	auditGroup.Get("/logs", h.QueryLogs)
	auditGroup.Get("/stats", h.AuditStats)
}
