package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/linkcircle/backend/internal/models"
	"github.com/linkcircle/backend/internal/repositories"
	"gorm.io/gorm"
)

// FriendshipHandler handles HTTP requests related to the friendship graph.
type FriendshipHandler struct {
	friendshipRepository repositories.FriendshipRepository
	profileRepository    repositories.ProfileRepository
}

// NewFriendshipHandler creates a new FriendshipHandler.
func NewFriendshipHandler(friendshipRepo repositories.FriendshipRepository, profileRepo repositories.ProfileRepository) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository: friendshipRepo,
		profileRepository:    profileRepo,
	}
}

// RegisterFriendshipRoutes registers friendship-related routes.
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/request", h.SendFriendRequest)
	g.GET("/friends/requests", h.ListPendingRequests)
	g.POST("/friends/accept", h.AcceptFriendRequest)
	g.POST("/friends/reject", h.RejectFriendRequest)
	g.GET("/friends", h.ListFriends)
	g.DELETE("/friends/:id", h.RemoveFriend)
}

// SendFriendRequest creates a pending relationship row. The pair lookup
// matches either direction, so A→B after B→A conflicts the same as A→B
// twice; the canonical pair index settles concurrent duplicates.
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	profile, err := resolveCallerProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	var req models.CreateFriendRequest
	if err := c.Bind(&req); err != nil {
		return models.NewInvalidInputError("Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return models.NewInvalidInputError(err.Error())
	}

	if req.AddresseeID == profile.ID {
		return models.NewInvalidInputError("Cannot send a friend request to yourself")
	}

	if _, err := h.profileRepository.GetProfileByID(c.Request().Context(), req.AddresseeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Addressee not found")
		}
		return models.NewInternalError(err)
	}

	existing, err := h.friendshipRepository.GetFriendshipBetween(c.Request().Context(), profile.ID, req.AddresseeID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if existing != nil {
		if existing.Status == models.FriendshipStatusAccepted {
			return models.NewConflictError("Already friends")
		}
		return models.NewConflictError("Friend request already sent")
	}

	friendship := &models.Friendship{
		RequesterID: profile.ID,
		AddresseeID: req.AddresseeID,
		Status:      models.FriendshipStatusPending,
	}

	if err := h.friendshipRepository.CreateFriendship(c.Request().Context(), friendship); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent insert for the same pair;
			// re-fetch so the message matches the winning row's status.
			row, lookupErr := h.friendshipRepository.GetFriendshipBetween(c.Request().Context(), profile.ID, req.AddresseeID)
			if lookupErr == nil && row != nil && row.Status == models.FriendshipStatusAccepted {
				return models.NewConflictError("Already friends")
			}
			return models.NewConflictError("Friend request already sent")
		}
		return models.NewInternalError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"friendship": friendship})
}

// ListPendingRequests returns pending incoming requests for the caller,
// newest first, with each requester's public profile embedded.
func (h *FriendshipHandler) ListPendingRequests(c echo.Context) error {
	profile, err := resolveCallerProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	requests, err := h.friendshipRepository.ListPendingRequests(c.Request().Context(), profile.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if requests == nil {
		requests = []models.Friendship{}
	}

	return c.JSON(http.StatusOK, echo.Map{"requests": requests})
}

// AcceptFriendRequest moves a pending row to accepted. Only the addressee of
// the row may accept it, and only while it is pending.
func (h *FriendshipHandler) AcceptFriendRequest(c echo.Context) error {
	profile, friendship, err := h.loadActionTarget(c)
	if err != nil {
		return err
	}

	if friendship.AddresseeID != profile.ID {
		return models.NewForbiddenError("You are not authorized to modify this friend request")
	}
	if err := friendship.CanAccept(); err != nil {
		return models.NewConflictError(err.Error())
	}

	if err := h.friendshipRepository.UpdateFriendshipStatus(c.Request().Context(), friendship.ID, models.FriendshipStatusAccepted); err != nil {
		return models.NewInternalError(err)
	}
	friendship.Status = models.FriendshipStatusAccepted

	return c.JSON(http.StatusOK, echo.Map{"friendship": friendship})
}

// RejectFriendRequest deletes a pending row outright. No "rejected" state is
// kept, so the requester may try again later.
func (h *FriendshipHandler) RejectFriendRequest(c echo.Context) error {
	profile, friendship, err := h.loadActionTarget(c)
	if err != nil {
		return err
	}

	if friendship.AddresseeID != profile.ID {
		return models.NewForbiddenError("You are not authorized to modify this friend request")
	}
	if err := friendship.CanReject(); err != nil {
		return models.NewConflictError(err.Error())
	}

	if err := h.friendshipRepository.DeleteFriendship(c.Request().Context(), friendship.ID); err != nil {
		return models.NewInternalError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Friend request rejected"})
}

// loadActionTarget binds a friendship_id body and loads the caller's profile
// and the referenced row, shared by accept and reject.
func (h *FriendshipHandler) loadActionTarget(c echo.Context) (*models.Profile, *models.Friendship, error) {
	profile, err := resolveCallerProfile(c, h.profileRepository)
	if err != nil {
		return nil, nil, err
	}

	var req models.FriendshipActionRequest
	if err := c.Bind(&req); err != nil {
		return nil, nil, models.NewInvalidInputError("Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return nil, nil, models.NewInvalidInputError(err.Error())
	}

	friendship, err := h.friendshipRepository.GetFriendshipByID(c.Request().Context(), req.FriendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.NewNotFoundError("Friend request not found")
		}
		return nil, nil, models.NewInternalError(err)
	}

	return profile, friendship, nil
}

// ListFriends returns the caller's accepted friendships, each mapped to the
// other party. FriendsSince reflects when the request was sent.
func (h *FriendshipHandler) ListFriends(c echo.Context) error {
	profile, err := resolveCallerProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	friendships, err := h.friendshipRepository.ListAcceptedFriendships(c.Request().Context(), profile.ID)
	if err != nil {
		return models.NewInternalError(err)
	}

	friends := make([]models.FriendSummary, 0, len(friendships))
	for i := range friendships {
		f := &friendships[i]
		summary := models.FriendSummary{
			FriendshipID: f.ID,
			FriendID:     f.OtherPartyID(profile.ID),
			FriendsSince: f.CreatedAt,
		}
		if other := f.OtherParty(profile.ID); other != nil {
			summary.Username = other.Username
			summary.DisplayName = other.DisplayName
			summary.AvatarURL = other.AvatarURL
			summary.IsVerified = other.IsVerified
		}
		friends = append(friends, summary)
	}

	return c.JSON(http.StatusOK, echo.Map{"friends": friends})
}

// RemoveFriend deletes a friendship row (unfriend). The caller must be a
// party to the row.
func (h *FriendshipHandler) RemoveFriend(c echo.Context) error {
	profile, err := resolveCallerProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return models.NewInvalidInputError("Invalid friendship ID")
	}

	friendship, err := h.friendshipRepository.GetFriendshipByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Friendship not found")
		}
		return models.NewInternalError(err)
	}

	if !friendship.Involves(profile.ID) {
		return models.NewForbiddenError("You are not authorized to remove this friendship")
	}

	if err := h.friendshipRepository.DeleteFriendship(c.Request().Context(), friendship.ID); err != nil {
		return models.NewInternalError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Friend removed successfully"})
}
