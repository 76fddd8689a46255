package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/linkcircle/backend/internal/models"
	"github.com/linkcircle/backend/internal/repositories"
	"gorm.io/gorm"
)

func firebaseUIDFromContext(c echo.Context) string {
	uid, _ := c.Get("firebaseUID").(string)
	return uid
}

// resolveCallerProfile maps the authenticated external identity to its
// internal profile. Every domain record is keyed by internal profile id, so
// handlers resolve this before touching any other component.
func resolveCallerProfile(c echo.Context, profiles repositories.ProfileRepository) (*models.Profile, error) {
	uid := firebaseUIDFromContext(c)
	if uid == "" {
		return nil, models.NewUnauthorizedError("Not authenticated")
	}

	profile, err := profiles.GetProfileByFirebaseUID(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile not found. Please create a profile first.")
		}
		return nil, models.NewInternalError(err)
	}
	return profile, nil
}
