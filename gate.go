package authz

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/daniellopes/clinica-rainer-server/audit"
)

// Gate wraps the permission engine around inbound requests. Every branch,
// allow or deny, records exactly one access log entry through the sink;
// sink failures never change the decision.
type Gate struct {
	engine *Engine
	sink   *audit.Sink
	log    *zap.SugaredLogger
}

// NewGate builds the HTTP-facing authorization gate.
func NewGate(engine *Engine, sink *audit.Sink, log *zap.SugaredLogger) *Gate {
	return &Gate{engine: engine, sink: sink, log: log}
}

type authorizeOptions struct {
	sameUserParam string
	resource      string
}

// AuthorizeOption adjusts a single Authorize middleware.
type AuthorizeOption func(*authorizeOptions)

// AllowSameUser short-circuits to allow when the route parameter equals
// the caller's own user id, regardless of granted permissions.
func AllowSameUser(param string) AuthorizeOption {
	return func(o *authorizeOptions) { o.sameUserParam = param }
}

// WithResource overrides the resource name recorded in the access log;
// the request path is used otherwise.
func WithResource(name string) AuthorizeOption {
	return func(o *authorizeOptions) { o.resource = name }
}

// Authorize requires a single permission.
func (g *Gate) Authorize(perm Permission, opts ...AuthorizeOption) fiber.Handler {
	var o authorizeOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *fiber.Ctx) error {
		actx, ok := AuthContextFrom(c)
		if !ok {
			return g.deny(c, actx, o, string(perm), fiber.StatusUnauthorized, ErrUnauthorized)
		}

		if o.sameUserParam != "" && c.Params(o.sameUserParam) == actx.UserID {
			g.logDecision(c, actx, o, string(perm), true, "same-user")
			return c.Next()
		}

		resourceID := c.Params("id")
		if g.engine.HasPermission(c.UserContext(), actx.UserID, perm, actx.Unidade, resourceID) {
			g.logDecision(c, actx, o, string(perm), true, "")
			return c.Next()
		}
		return g.deny(c, actx, o, string(perm), fiber.StatusForbidden, ErrPermissionDenied)
	}
}

// AuthorizeAny requires at least one of the given permissions. The checks
// run concurrently.
func (g *Gate) AuthorizeAny(perms ...Permission) fiber.Handler {
	action := combinedAction("ANY", perms)
	return func(c *fiber.Ctx) error {
		actx, ok := AuthContextFrom(c)
		if !ok {
			return g.deny(c, actx, authorizeOptions{}, action, fiber.StatusUnauthorized, ErrUnauthorized)
		}

		results := g.evaluate(c, actx, perms)
		for _, allowed := range results {
			if allowed {
				g.logDecision(c, actx, authorizeOptions{}, action, true, "")
				return c.Next()
			}
		}
		return g.deny(c, actx, authorizeOptions{}, action, fiber.StatusForbidden, ErrInsufficientPermissions)
	}
}

// AuthorizeAll requires every one of the given permissions. The checks
// run concurrently.
func (g *Gate) AuthorizeAll(perms ...Permission) fiber.Handler {
	action := combinedAction("ALL", perms)
	return func(c *fiber.Ctx) error {
		actx, ok := AuthContextFrom(c)
		if !ok {
			return g.deny(c, actx, authorizeOptions{}, action, fiber.StatusUnauthorized, ErrUnauthorized)
		}

		results := g.evaluate(c, actx, perms)
		for _, allowed := range results {
			if !allowed {
				return g.deny(c, actx, authorizeOptions{}, action, fiber.StatusForbidden, ErrMissingRequiredPermissions)
			}
		}
		g.logDecision(c, actx, authorizeOptions{}, action, true, "")
		return c.Next()
	}
}

// evaluate runs one HasPermission check per permission concurrently and
// returns the results index-aligned with perms.
func (g *Gate) evaluate(c *fiber.Ctx, actx AuthContext, perms []Permission) []bool {
	results := make([]bool, len(perms))
	eg, ctx := errgroup.WithContext(c.UserContext())
	for i, perm := range perms {
		i, perm := i, perm
		eg.Go(func() error {
			results[i] = g.engine.HasPermission(ctx, actx.UserID, perm, actx.Unidade)
			return nil
		})
	}
	// The checks fail closed internally and never return errors.
	_ = eg.Wait()
	return results
}

func (g *Gate) deny(c *fiber.Ctx, actx AuthContext, o authorizeOptions, action string, status int, reason error) error {
	g.logDecision(c, actx, o, action, false, reason.Error())
	return c.Status(status).JSON(fiber.Map{"error": reason.Error()})
}

func (g *Gate) logDecision(c *fiber.Ctx, actx AuthContext, o authorizeOptions, action string, success bool, details string) {
	resource := o.resource
	if resource == "" {
		resource = c.Path()
	}
	userID := actx.UserID
	if userID == "" {
		userID = "anonymous"
	}
	g.sink.Append(audit.Entry{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: c.Params("id"),
		Unidade:    string(actx.Unidade),
		IPAddress:  c.IP(),
		UserAgent:  c.Get(fiber.HeaderUserAgent),
		Success:    success,
		Details:    details,
	})
}

func combinedAction(op string, perms []Permission) string {
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	return fmt.Sprintf("%s(%s)", op, strings.Join(names, ","))
}
