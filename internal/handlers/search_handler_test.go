package handlers

import (
	"net/http"
	"testing"

	"github.com/linkcircle/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchHandler_SearchUsers(t *testing.T) {
	profiles := newFakeProfileRepo()
	friendships := newFakeFriendshipRepo(profiles)
	h := NewSearchHandler(profiles, friendships)

	alice := profiles.mustCreateProfile("uid-alice", "alice", "Alice Anderson")
	bob := profiles.mustCreateProfile("uid-bob", "bobby", "Bob Andrews")
	carol := profiles.mustCreateProfile("uid-carol", "carol", "Carol Andersen")
	profiles.mustCreateProfile("uid-dave", "dave", "Dave Miller")

	// alice→bob pending, alice↔carol accepted.
	pending := &models.Friendship{RequesterID: alice.ID, AddresseeID: bob.ID, Status: models.FriendshipStatusPending}
	require.NoError(t, friendships.CreateFriendship(t.Context(), pending))
	accepted := &models.Friendship{RequesterID: carol.ID, AddresseeID: alice.ID, Status: models.FriendshipStatusAccepted}
	require.NoError(t, friendships.CreateFriendship(t.Context(), accepted))

	search := func(t *testing.T, uid, q string) (map[string]map[string]interface{}, *models.AppError) {
		t.Helper()
		c, rec := newTestContext(t, http.MethodGet, "/api/v1/users/search?q="+q, nil, uid)
		if err := h.SearchUsers(c); err != nil {
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			return nil, appErr
		}
		require.Equal(t, http.StatusOK, rec.Code)
		byUsername := make(map[string]map[string]interface{})
		for _, raw := range decodeBody(t, rec)["users"].([]interface{}) {
			user := raw.(map[string]interface{})
			byUsername[user["username"].(string)] = user
		}
		return byUsername, nil
	}

	t.Run("query shorter than two characters is invalid", func(t *testing.T) {
		_, appErr := search(t, "uid-alice", "a")
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Status)
	})

	t.Run("a single multibyte rune is still one character", func(t *testing.T) {
		_, appErr := search(t, "uid-alice", "é")
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Status)
	})

	t.Run("two multibyte runes pass the minimum", func(t *testing.T) {
		_, appErr := search(t, "uid-alice", "éé")
		assert.Nil(t, appErr)
	})

	t.Run("caller without a profile", func(t *testing.T) {
		_, appErr := search(t, "uid-nobody", "and")
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusNotFound, appErr.Status)
	})

	t.Run("matches display names and excludes the caller", func(t *testing.T) {
		users, appErr := search(t, "uid-alice", "and")
		require.Nil(t, appErr)
		assert.NotContains(t, users, "alice")
		assert.Contains(t, users, "bobby")
		assert.Contains(t, users, "carol")
		assert.NotContains(t, users, "dave")
	})

	t.Run("annotates pending requests the caller sent", func(t *testing.T) {
		users, appErr := search(t, "uid-alice", "bobby")
		require.Nil(t, appErr)
		user := users["bobby"]
		require.NotNil(t, user)
		assert.Equal(t, "pending", user["friendship_status"])
		assert.Equal(t, float64(pending.ID), user["friendship_id"])
		assert.Equal(t, true, user["is_requester"])
	})

	t.Run("annotates accepted friendships where the caller was the addressee", func(t *testing.T) {
		users, appErr := search(t, "uid-alice", "carol")
		require.Nil(t, appErr)
		user := users["carol"]
		require.NotNil(t, user)
		assert.Equal(t, "accepted", user["friendship_status"])
		assert.Equal(t, float64(accepted.ID), user["friendship_id"])
		assert.Equal(t, false, user["is_requester"])
	})

	t.Run("unrelated profiles report no friendship", func(t *testing.T) {
		users, appErr := search(t, "uid-alice", "dave")
		require.Nil(t, appErr)
		user := users["dave"]
		require.NotNil(t, user)
		assert.Equal(t, "none", user["friendship_status"])
		assert.Nil(t, user["friendship_id"])
		assert.Equal(t, false, user["is_requester"])
	})
}
