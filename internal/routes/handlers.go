package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	authz "github.com/daniellopes/clinica-rainer-server"
	"github.com/daniellopes/clinica-rainer-server/audit"
)

// Handlers carries the dependencies of the permission-admin and audit
// reporting endpoints.
type Handlers struct {
	Engine *authz.Engine
	Store  *audit.Store
	Log    *zap.SugaredLogger
}

type permissionRequest struct {
	UserID     string `json:"userId"`
	Permission string `json:"permission"`
	Unidade    string `json:"unidade"`
}

// Grant upserts a per-user permission override.
func (h *Handlers) Grant(c *fiber.Ctx) error {
	var req permissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	perm := authz.Permission(req.Permission)
	if !perm.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown permission"})
	}
	err := h.Engine.GrantUserPermission(c.UserContext(), req.UserID, perm, authz.Unidade(req.Unidade))
	if err != nil {
		h.Log.Errorw("grant failed", "user", req.UserID, "permission", req.Permission, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "grant failed"})
	}
	return c.JSON(fiber.Map{"status": "granted"})
}

// Revoke deactivates a per-user permission override.
func (h *Handlers) Revoke(c *fiber.Ctx) error {
	var req permissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	perm := authz.Permission(req.Permission)
	if !perm.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown permission"})
	}
	err := h.Engine.RevokeUserPermission(c.UserContext(), req.UserID, perm, authz.Unidade(req.Unidade))
	if err != nil {
		h.Log.Errorw("revoke failed", "user", req.UserID, "permission", req.Permission, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "revoke failed"})
	}
	return c.JSON(fiber.Map{"status": "revoked"})
}

type setupRequest struct {
	Role    string `json:"role"`
	Unidade string `json:"unidade"`
}

// SetupDefaults seeds the default role policy for one role, or for every
// role when the role field is empty.
func (h *Handlers) SetupDefaults(c *fiber.Ctx) error {
	var req setupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	unidade := authz.Unidade(req.Unidade)

	var err error
	if req.Role == "" {
		err = h.Engine.SetupAllDefaultRolePermissions(c.UserContext(), unidade)
	} else {
		err = h.Engine.SetupDefaultRolePermissions(c.UserContext(), authz.Role(req.Role), unidade)
	}
	if err != nil {
		h.Log.Errorw("default policy setup failed", "role", req.Role, "unidade", req.Unidade, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "setup failed"})
	}
	return c.JSON(fiber.Map{"status": "seeded"})
}

// ListUserPermissions returns the effective permission set of a user in
// the caller's unidade.
func (h *Handlers) ListUserPermissions(c *fiber.Ctx) error {
	actx, _ := authz.AuthContextFrom(c)
	set := h.Engine.GetUserPermissions(c.UserContext(), c.Params("id"), actx.Unidade)
	return c.JSON(fiber.Map{
		"userId":      c.Params("id"),
		"unidade":     actx.Unidade,
		"permissions": set.List(),
	})
}

// QueryLogs returns access log entries for the caller's unidade,
// newest-first and paginated.
func (h *Handlers) QueryLogs(c *fiber.Ctx) error {
	actx, _ := authz.AuthContextFrom(c)
	filter := audit.Filter{
		Unidade:  string(actx.Unidade),
		UserID:   c.Query("userId"),
		Resource: c.Query("resource"),
		Action:   c.Query("action"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 20),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = t
		}
	}

	entries, total, err := h.Store.Query(c.UserContext(), filter)
	if err != nil {
		h.Log.Errorw("access log query failed", "unidade", actx.Unidade, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "query failed"})
	}
	return c.JSON(fiber.Map{
		"entries": entries,
		"total":   total,
		"page":    filter.Page,
		"limit":   filter.Limit,
	})
}

// AuditStats returns the aggregated report for the caller's unidade.
func (h *Handlers) AuditStats(c *fiber.Ctx) error {
	actx, _ := authz.AuthContextFrom(c)
	var from, to time.Time
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = t
		}
	}

	stats, err := h.Store.Stats(c.UserContext(), string(actx.Unidade), from, to)
	if err != nil {
		h.Log.Errorw("access log stats failed", "unidade", actx.Unidade, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "stats failed"})
	}
	return c.JSON(stats)
}
