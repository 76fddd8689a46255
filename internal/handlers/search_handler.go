package handlers

import (
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/linkcircle/backend/internal/models"
	"github.com/linkcircle/backend/internal/repositories"
)

const searchResultLimit = 10

// SearchHandler handles directory search over profiles.
type SearchHandler struct {
	profileRepository    repositories.ProfileRepository
	friendshipRepository repositories.FriendshipRepository
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(profileRepo repositories.ProfileRepository, friendshipRepo repositories.FriendshipRepository) *SearchHandler {
	return &SearchHandler{
		profileRepository:    profileRepo,
		friendshipRepository: friendshipRepo,
	}
}

// SearchUsers matches profiles by username or display name and annotates
// each hit with the caller's pairwise friendship state. The relationship
// lookup for all hits is a single batched query keyed by the caller and the
// candidate id set.
func (h *SearchHandler) SearchUsers(c echo.Context) error {
	profile, err := resolveCallerProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	query := c.QueryParam("q")
	if utf8.RuneCountInString(query) < 2 {
		return models.NewInvalidInputError("Search query must be at least 2 characters")
	}

	profiles, err := h.profileRepository.SearchProfiles(c.Request().Context(), query, profile.ID, searchResultLimit)
	if err != nil {
		return models.NewInternalError(err)
	}

	ids := make([]uint, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}

	friendships, err := h.friendshipRepository.GetFriendshipsWith(c.Request().Context(), profile.ID, ids)
	if err != nil {
		return models.NewInternalError(err)
	}

	byOtherParty := make(map[uint]*models.Friendship, len(friendships))
	for i := range friendships {
		f := &friendships[i]
		byOtherParty[f.OtherPartyID(profile.ID)] = f
	}

	results := make([]models.UserSearchResult, 0, len(profiles))
	for _, p := range profiles {
		result := models.UserSearchResult{
			ID:               p.ID,
			Username:         p.Username,
			DisplayName:      p.DisplayName,
			AvatarURL:        p.AvatarURL,
			Bio:              p.Bio,
			IsVerified:       p.IsVerified,
			FriendshipStatus: "none",
		}
		if f, ok := byOtherParty[p.ID]; ok {
			result.FriendshipStatus = string(f.Status)
			friendshipID := f.ID
			result.FriendshipID = &friendshipID
			result.IsRequester = f.RequesterID == profile.ID
		}
		results = append(results, result)
	}

	return c.JSON(http.StatusOK, echo.Map{"users": results})
}
