package repositories

import (
	"context"
	"errors"

	"github.com/linkcircle/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friendship data operations.
type FriendshipRepository interface {
	CreateFriendship(ctx context.Context, friendship *models.Friendship) error
	GetFriendshipByID(ctx context.Context, id uint) (*models.Friendship, error)
	GetFriendshipBetween(ctx context.Context, profileID1, profileID2 uint) (*models.Friendship, error)
	GetFriendshipsWith(ctx context.Context, profileID uint, otherIDs []uint) ([]models.Friendship, error)
	ListPendingRequests(ctx context.Context, addresseeID uint) ([]models.Friendship, error)
	ListAcceptedFriendships(ctx context.Context, profileID uint) ([]models.Friendship, error)
	UpdateFriendshipStatus(ctx context.Context, id uint, status models.FriendshipStatus) error
	DeleteFriendship(ctx context.Context, id uint) error
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL.
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository.
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// CreateFriendship inserts a new relationship row. The canonical pair unique
// index guarantees at most one row per unordered pair; a lost race surfaces
// as gorm.ErrDuplicatedKey.
func (r *PostgresFriendshipRepository) CreateFriendship(ctx context.Context, friendship *models.Friendship) error {
	return r.db.WithContext(ctx).Create(friendship).Error
}

// GetFriendshipByID retrieves a friendship row by ID.
func (r *PostgresFriendshipRepository) GetFriendshipByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).First(&friendship, id).Error; err != nil {
		return nil, err
	}
	return &friendship, nil
}

// GetFriendshipBetween finds the row for an unordered pair, matching either
// direction. Returns (nil, nil) when no relationship exists.
func (r *PostgresFriendshipRepository) GetFriendshipBetween(ctx context.Context, profileID1, profileID2 uint) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			profileID1, profileID2, profileID2, profileID1).
		First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &friendship, nil
}

// GetFriendshipsWith returns every row linking profileID to any id in
// otherIDs, in a single query. Used to annotate search results without one
// round trip per candidate.
func (r *PostgresFriendshipRepository) GetFriendshipsWith(ctx context.Context, profileID uint, otherIDs []uint) ([]models.Friendship, error) {
	if len(otherIDs) == 0 {
		return nil, nil
	}
	var friendships []models.Friendship
	if err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id IN ?) OR (addressee_id = ? AND requester_id IN ?)",
			profileID, otherIDs, profileID, otherIDs).
		Find(&friendships).Error; err != nil {
		return nil, err
	}
	return friendships, nil
}

// ListPendingRequests returns pending rows addressed to the given profile,
// newest first, with the requester profile joined.
func (r *PostgresFriendshipRepository) ListPendingRequests(ctx context.Context, addresseeID uint) ([]models.Friendship, error) {
	var requests []models.Friendship
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Where("addressee_id = ? AND status = ?", addresseeID, models.FriendshipStatusPending).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListAcceptedFriendships returns accepted rows where the profile is either
// party, with both party profiles joined.
func (r *PostgresFriendshipRepository) ListAcceptedFriendships(ctx context.Context, profileID uint) ([]models.Friendship, error) {
	var friendships []models.Friendship
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Addressee").
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)",
			models.FriendshipStatusAccepted, profileID, profileID).
		Find(&friendships).Error; err != nil {
		return nil, err
	}
	return friendships, nil
}

// UpdateFriendshipStatus sets the status of a friendship row.
func (r *PostgresFriendshipRepository) UpdateFriendshipStatus(ctx context.Context, id uint, status models.FriendshipStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// DeleteFriendship removes the row entirely, permitting a fresh request for
// the same pair later.
func (r *PostgresFriendshipRepository) DeleteFriendship(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Friendship{}, id).Error
}
