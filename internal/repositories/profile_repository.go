package repositories

import (
	"context"

	"github.com/linkcircle/backend/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetProfileByID(ctx context.Context, id uint) (*models.Profile, error)
	GetProfileByFirebaseUID(ctx context.Context, firebaseUID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id uint, updates map[string]interface{}) (*models.Profile, error)
	SearchProfiles(ctx context.Context, query string, excludeID uint, limit int) ([]models.Profile, error)
}

// PostgresProfileRepository implements ProfileRepository for PostgreSQL.
type PostgresProfileRepository struct {
	db *gorm.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository.
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// CreateProfile inserts a new profile. Uniqueness of the Firebase UID and the
// username is enforced by the schema; a violation comes back as
// gorm.ErrDuplicatedKey.
func (r *PostgresProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// GetProfileByID retrieves a profile by internal ID.
func (r *PostgresProfileRepository) GetProfileByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByFirebaseUID retrieves the profile mapped to an external identity.
func (r *PostgresProfileRepository) GetProfileByFirebaseUID(ctx context.Context, firebaseUID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies a partial update and returns the fresh row. Only the
// supplied columns change; callers encode "cleared" as an empty value.
func (r *PostgresProfileRepository) UpdateProfile(ctx context.Context, id uint, updates map[string]interface{}) (*models.Profile, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetProfileByID(ctx, id)
}

// SearchProfiles performs a case-insensitive substring match on username or
// display name, excluding the caller's own profile.
func (r *PostgresProfileRepository) SearchProfiles(ctx context.Context, query string, excludeID uint, limit int) ([]models.Profile, error) {
	var profiles []models.Profile
	pattern := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE LOWER(?) OR LOWER(display_name) LIKE LOWER(?)", pattern, pattern).
		Where("id <> ?", excludeID).
		Limit(limit).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
