package server

import (
	"net/http"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	_, app := newTestServer(t)
	_, token := signupAndLogin(t, app, "author")

	t.Run("Success", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/", token, map[string]string{
			"content": "my first post",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var post models.Post
		decodeBody(t, resp, &post)
		assert.NotZero(t, post.ID)
		assert.Equal(t, "my first post", post.Content)
		assert.Equal(t, "author", post.User.Username)
		assert.Zero(t, post.LikeCount)
	})

	t.Run("BlankContent", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/", token, map[string]string{
			"content": "   ",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/", "", map[string]string{
			"content": "sneaky",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGetPosts(t *testing.T) {
	_, app := newTestServer(t)
	_, token := signupAndLogin(t, app, "reader")

	for _, content := range []string{"oldest", "middle", "newest"} {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/", token, map[string]string{"content": content})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/posts/", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	decodeBody(t, resp, &posts)
	require.Len(t, posts, 3)
	assert.Equal(t, "newest", posts[0].Content)
	assert.Equal(t, "oldest", posts[2].Content)
}

func TestToggleLikeHandler(t *testing.T) {
	_, app := newTestServer(t)
	_, authorToken := signupAndLogin(t, app, "author")
	_, likerToken := signupAndLogin(t, app, "liker")

	resp := doJSON(t, app, http.MethodPost, "/api/posts/", authorToken, map[string]string{"content": "like me"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.Post
	decodeBody(t, resp, &post)

	t.Run("LikeOn", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/1/like", likerToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var liked models.Post
		decodeBody(t, resp, &liked)
		assert.True(t, liked.Liked)
		assert.Equal(t, 1, liked.LikeCount)
	})

	t.Run("LikeOff", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/1/like", likerToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var unliked models.Post
		decodeBody(t, resp, &unliked)
		assert.False(t, unliked.Liked)
		assert.Zero(t, unliked.LikeCount)
	})

	t.Run("ProjectionIsPerViewer", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/1/like", likerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		// The author did not like it; the count still shows one.
		resp = doJSON(t, app, http.MethodGet, "/api/posts/", authorToken, nil)
		var posts []models.Post
		decodeBody(t, resp, &posts)
		require.Len(t, posts, 1)
		assert.False(t, posts[0].Liked)
		assert.Equal(t, 1, posts[0].LikeCount)
	})

	t.Run("InvalidID", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/abc/like", likerToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("MissingPost", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/999/like", likerToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestToggleRetweetHandler(t *testing.T) {
	_, app := newTestServer(t)
	_, authorToken := signupAndLogin(t, app, "author")
	_, retweeterToken := signupAndLogin(t, app, "retweeter")

	resp := doJSON(t, app, http.MethodPost, "/api/posts/", authorToken, map[string]string{"content": "spread the word"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	t.Run("RetweetOn", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/1/retweet", retweeterToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var state models.RetweetState
		decodeBody(t, resp, &state)
		assert.True(t, state.Retweeted)
		assert.Equal(t, 1, state.RetweetCount)
	})

	t.Run("RetweetAppearsInFeed", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/", retweeterToken, nil)
		var posts []models.Post
		decodeBody(t, resp, &posts)
		require.Len(t, posts, 2)

		// The retweet row is newest and carries the original's content.
		assert.NotNil(t, posts[0].OriginalPostID)
		assert.Equal(t, "spread the word", posts[0].Content)
		assert.Equal(t, "retweeter", posts[0].User.Username)
	})

	t.Run("RetweetOff", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/1/retweet", retweeterToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var state models.RetweetState
		decodeBody(t, resp, &state)
		assert.False(t, state.Retweeted)
		assert.Zero(t, state.RetweetCount)
	})

	t.Run("MissingPost", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/999/retweet", retweeterToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
