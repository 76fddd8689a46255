package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/linkcircle/backend/internal/models"
	"github.com/linkcircle/backend/pkg/identity"
)

// AuthHandler exchanges provider ID tokens for local session tokens.
type AuthHandler struct {
	provider  *identity.Provider
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(provider *identity.Provider, jwtSecret string) *AuthHandler {
	return &AuthHandler{provider: provider, jwtSecret: jwtSecret}
}

// RegisterAuthRoutes registers authentication-related routes.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/session", h.CreateSession)
}

// CreateSessionRequest defines the request body for the session exchange.
type CreateSessionRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// CreateSession verifies a Firebase ID token and issues a short-lived local
// JWT carrying the external UID. Clients may also send raw ID tokens on API
// requests directly; the session token just avoids re-verifying against the
// provider on every call.
func (h *AuthHandler) CreateSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return models.NewInvalidInputError("Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return models.NewInvalidInputError(err.Error())
	}

	uid, err := h.provider.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return models.NewUnauthorizedError("Invalid or expired Firebase ID token")
	}

	claims := &models.SessionClaims{
		FirebaseUID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return models.NewInternalError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"token": signed})
}
