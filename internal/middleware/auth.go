package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/linkcircle/backend/internal/models"
	"github.com/linkcircle/backend/pkg/identity"
)

// ContextKeyFirebaseUID is where the authenticated external UID is stored on
// the request context.
const ContextKeyFirebaseUID = "firebaseUID"

// Authenticate verifies the bearer credential on every request before any
// handler logic runs. It accepts either a session JWT minted by
// /auth/session or a raw provider ID token, and stores the resolved external
// UID in the context.
func Authenticate(provider *identity.Provider, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return models.NewUnauthorizedError("Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return models.NewUnauthorizedError("Authorization header must be in Bearer format")
			}
			raw := parts[1]

			if uid, ok := parseSessionToken(raw, jwtSecret); ok {
				c.Set(ContextKeyFirebaseUID, uid)
				return next(c)
			}

			if provider != nil {
				uid, err := provider.VerifyIDToken(c.Request().Context(), raw)
				if err == nil {
					c.Set(ContextKeyFirebaseUID, uid)
					return next(c)
				}
			}

			return models.NewUnauthorizedError("Invalid or expired token")
		}
	}
}

func parseSessionToken(raw, jwtSecret string) (string, bool) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid || claims.FirebaseUID == "" {
		return "", false
	}
	return claims.FirebaseUID, true
}
