package authz

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// RequireAuth resolves the caller's identity from a Bearer token and
// attaches the AuthContext. Tokens carry sub, role and unidade claims
// signed with HS256. Requests without a valid token are rejected with 401
// before any gate runs.
func RequireAuth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrUnauthorized.Error()})
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
			}
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrUnauthorized.Error()})
		}

		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		unidade, _ := claims["unidade"].(string)
		SetAuthContext(c, AuthContext{
			UserID:  sub,
			Role:    Role(role),
			Unidade: Unidade(unidade),
		})
		return c.Next()
	}
}
