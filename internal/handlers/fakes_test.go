package handlers

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/linkcircle/backend/internal/models"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the datastore-enforced invariants
// the handlers rely on: unique external UID and username, the canonical
// friendship pair index, and the author-filtered post delete.

type fakeProfileRepo struct {
	items  []*models.Profile
	nextID uint
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{}
}

func (r *fakeProfileRepo) CreateProfile(_ context.Context, profile *models.Profile) error {
	for _, existing := range r.items {
		if existing.FirebaseUID == profile.FirebaseUID || existing.Username == profile.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	profile.ID = r.nextID
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	stored := *profile
	r.items = append(r.items, &stored)
	return nil
}

func (r *fakeProfileRepo) GetProfileByID(_ context.Context, id uint) (*models.Profile, error) {
	for _, p := range r.items {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) GetProfileByFirebaseUID(_ context.Context, firebaseUID string) (*models.Profile, error) {
	for _, p := range r.items {
		if p.FirebaseUID == firebaseUID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) UpdateProfile(_ context.Context, id uint, updates map[string]interface{}) (*models.Profile, error) {
	var target *models.Profile
	for _, p := range r.items {
		if p.ID == id {
			target = p
			break
		}
	}
	if target == nil {
		return nil, gorm.ErrRecordNotFound
	}
	if username, ok := updates["username"].(string); ok {
		for _, p := range r.items {
			if p.ID != id && p.Username == username {
				return nil, gorm.ErrDuplicatedKey
			}
		}
		target.Username = username
	}
	if v, ok := updates["display_name"].(string); ok {
		target.DisplayName = v
	}
	if v, ok := updates["bio"].(string); ok {
		target.Bio = v
	}
	if v, ok := updates["avatar_url"].(string); ok {
		target.AvatarURL = v
	}
	if v, ok := updates["cover_image_url"].(string); ok {
		target.CoverImageURL = v
	}
	if v, ok := updates["website_url"].(string); ok {
		target.WebsiteURL = v
	}
	if v, ok := updates["location"].(string); ok {
		target.Location = v
	}
	target.UpdatedAt = time.Now()
	cp := *target
	return &cp, nil
}

func (r *fakeProfileRepo) SearchProfiles(_ context.Context, query string, excludeID uint, limit int) ([]models.Profile, error) {
	needle := strings.ToLower(query)
	var results []models.Profile
	for _, p := range r.items {
		if p.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(p.Username), needle) ||
			strings.Contains(strings.ToLower(p.DisplayName), needle) {
			results = append(results, *p)
		}
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// mustCreateProfile seeds a profile directly, bypassing the handler.
func (r *fakeProfileRepo) mustCreateProfile(uid, username, displayName string) *models.Profile {
	p := &models.Profile{FirebaseUID: uid, Username: username, DisplayName: displayName}
	if err := r.CreateProfile(context.Background(), p); err != nil {
		panic(err)
	}
	return p
}

type fakePostRepo struct {
	items    []*models.Post
	profiles *fakeProfileRepo
	nextID   uint
	baseTime time.Time
}

func newFakePostRepo(profiles *fakeProfileRepo) *fakePostRepo {
	return &fakePostRepo{profiles: profiles, baseTime: time.Now()}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	r.nextID++
	post.ID = r.nextID
	// Distinct, increasing creation times keep feed ordering deterministic.
	post.CreatedAt = r.baseTime.Add(time.Duration(r.nextID) * time.Second)
	post.UpdatedAt = post.CreatedAt
	stored := *post
	stored.Author = nil
	r.items = append(r.items, &stored)
	return nil
}

func (r *fakePostRepo) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	for _, p := range r.items {
		if p.ID == id {
			cp := *p
			if author, err := r.profiles.GetProfileByID(ctx, p.AuthorID); err == nil {
				cp.Author = author
			}
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePostRepo) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	sorted := make([]*models.Post, len(r.items))
	copy(sorted, r.items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	var results []models.Post
	for i := offset; i < len(sorted) && len(results) < limit; i++ {
		cp := *sorted[i]
		if author, err := r.profiles.GetProfileByID(ctx, cp.AuthorID); err == nil {
			cp.Author = author
		}
		results = append(results, cp)
	}
	return results, nil
}

func (r *fakePostRepo) DeletePostByAuthor(_ context.Context, id, authorID uint) error {
	for i, p := range r.items {
		if p.ID == id && p.AuthorID == authorID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeFriendshipRepo struct {
	items    []*models.Friendship
	profiles *fakeProfileRepo
	nextID   uint
}

func newFakeFriendshipRepo(profiles *fakeProfileRepo) *fakeFriendshipRepo {
	return &fakeFriendshipRepo{profiles: profiles}
}

func (r *fakeFriendshipRepo) CreateFriendship(_ context.Context, friendship *models.Friendship) error {
	if err := friendship.BeforeCreate(nil); err != nil {
		return err
	}
	for _, f := range r.items {
		if f.PairLoID == friendship.PairLoID && f.PairHiID == friendship.PairHiID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	friendship.ID = r.nextID
	friendship.CreatedAt = time.Now()
	friendship.UpdatedAt = friendship.CreatedAt
	stored := *friendship
	r.items = append(r.items, &stored)
	return nil
}

func (r *fakeFriendshipRepo) GetFriendshipByID(_ context.Context, id uint) (*models.Friendship, error) {
	for _, f := range r.items {
		if f.ID == id {
			cp := *f
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFriendshipRepo) GetFriendshipBetween(_ context.Context, profileID1, profileID2 uint) (*models.Friendship, error) {
	for _, f := range r.items {
		if (f.RequesterID == profileID1 && f.AddresseeID == profileID2) ||
			(f.RequesterID == profileID2 && f.AddresseeID == profileID1) {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeFriendshipRepo) GetFriendshipsWith(_ context.Context, profileID uint, otherIDs []uint) ([]models.Friendship, error) {
	wanted := make(map[uint]bool, len(otherIDs))
	for _, id := range otherIDs {
		wanted[id] = true
	}
	var results []models.Friendship
	for _, f := range r.items {
		if f.RequesterID == profileID && wanted[f.AddresseeID] {
			results = append(results, *f)
		} else if f.AddresseeID == profileID && wanted[f.RequesterID] {
			results = append(results, *f)
		}
	}
	return results, nil
}

func (r *fakeFriendshipRepo) ListPendingRequests(ctx context.Context, addresseeID uint) ([]models.Friendship, error) {
	var results []models.Friendship
	for _, f := range r.items {
		if f.AddresseeID == addresseeID && f.Status == models.FriendshipStatusPending {
			cp := *f
			if requester, err := r.profiles.GetProfileByID(ctx, f.RequesterID); err == nil {
				cp.Requester = requester
			}
			results = append(results, cp)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (r *fakeFriendshipRepo) ListAcceptedFriendships(ctx context.Context, profileID uint) ([]models.Friendship, error) {
	var results []models.Friendship
	for _, f := range r.items {
		if f.Status != models.FriendshipStatusAccepted {
			continue
		}
		if f.RequesterID != profileID && f.AddresseeID != profileID {
			continue
		}
		cp := *f
		if requester, err := r.profiles.GetProfileByID(ctx, f.RequesterID); err == nil {
			cp.Requester = requester
		}
		if addressee, err := r.profiles.GetProfileByID(ctx, f.AddresseeID); err == nil {
			cp.Addressee = addressee
		}
		results = append(results, cp)
	}
	return results, nil
}

func (r *fakeFriendshipRepo) UpdateFriendshipStatus(_ context.Context, id uint, status models.FriendshipStatus) error {
	for _, f := range r.items {
		if f.ID == id {
			f.Status = status
			f.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

func (r *fakeFriendshipRepo) DeleteFriendship(_ context.Context, id uint) error {
	for i, f := range r.items {
		if f.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}
