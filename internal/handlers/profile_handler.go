package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/linkcircle/backend/internal/models"
	"github.com/linkcircle/backend/internal/repositories"
	"gorm.io/gorm"
)

// ProfileHandler handles HTTP requests related to profiles.
type ProfileHandler struct {
	profileRepository repositories.ProfileRepository
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileRepo repositories.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profileRepository: profileRepo}
}

// RegisterProfileRoutes registers profile-related routes.
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.POST("/profile", h.CreateProfile)
	g.PATCH("/profile", h.UpdateProfile)
}

// GetProfile retrieves the authenticated caller's own profile. An
// unregistered caller gets {"profile": null}, not an error; the client uses
// that to prompt profile creation.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	uid := firebaseUIDFromContext(c)
	if uid == "" {
		return models.NewUnauthorizedError("Not authenticated")
	}

	profile, err := h.profileRepository.GetProfileByFirebaseUID(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"profile": nil})
		}
		return models.NewInternalError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"profile": profile})
}

// CreateProfile registers a profile for an authenticated but unregistered
// caller. The unique index on the Firebase UID backs up the pre-check, so a
// concurrent duplicate attempt fails with a conflict instead of a second row.
func (h *ProfileHandler) CreateProfile(c echo.Context) error {
	uid := firebaseUIDFromContext(c)
	if uid == "" {
		return models.NewUnauthorizedError("Not authenticated")
	}

	var req models.CreateProfileRequest
	if err := c.Bind(&req); err != nil {
		return models.NewInvalidInputError("Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return models.NewInvalidInputError(err.Error())
	}

	_, err := h.profileRepository.GetProfileByFirebaseUID(c.Request().Context(), uid)
	if err == nil {
		return models.NewConflictError("Profile already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewInternalError(err)
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}

	profile := &models.Profile{
		FirebaseUID: uid,
		Username:    req.Username,
		DisplayName: displayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
	}

	if err := h.profileRepository.CreateProfile(c.Request().Context(), profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("Profile already exists or username is taken")
		}
		return models.NewInternalError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"profile": profile})
}

// UpdateProfile applies a partial update to the caller's own profile. Only
// fields present in the body change; sending an empty value clears a field,
// omitting the key leaves it untouched.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	uid := firebaseUIDFromContext(c)
	if uid == "" {
		return models.NewUnauthorizedError("Not authenticated")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return models.NewInvalidInputError("Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return models.NewInvalidInputError(err.Error())
	}

	profile, err := h.profileRepository.GetProfileByFirebaseUID(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Profile not found")
		}
		return models.NewInternalError(err)
	}

	updates := map[string]interface{}{}
	if req.Username != nil && *req.Username != "" {
		updates["username"] = *req.Username
	}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if req.CoverImageURL != nil {
		updates["cover_image_url"] = *req.CoverImageURL
	}
	if req.WebsiteURL != nil {
		updates["website_url"] = *req.WebsiteURL
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}

	updated, err := h.profileRepository.UpdateProfile(c.Request().Context(), profile.ID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("Username is already taken")
		}
		return models.NewInternalError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"profile": updated})
}
