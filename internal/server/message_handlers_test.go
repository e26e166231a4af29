package server

import (
	"net/http"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	_, app := newTestServer(t)
	_, aliceToken := signupAndLogin(t, app, "alice")
	bobID, _ := signupAndLogin(t, app, "bob")

	t.Run("Success", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/messages/", aliceToken, map[string]any{
			"recipient_id": bobID,
			"content":      "hey bob",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var msg models.Message
		decodeBody(t, resp, &msg)
		assert.NotZero(t, msg.ID)
		assert.Equal(t, bobID, msg.RecipientID)
		assert.False(t, msg.IsRead)
	})

	t.Run("MissingRecipient", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/messages/", aliceToken, map[string]any{
			"content": "to no one",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UnknownRecipient", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/messages/", aliceToken, map[string]any{
			"recipient_id": 999,
			"content":      "hello?",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("BlankContent", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/messages/", aliceToken, map[string]any{
			"recipient_id": bobID,
			"content":      "  ",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestConversationFlow(t *testing.T) {
	_, app := newTestServer(t)
	aliceID, aliceToken := signupAndLogin(t, app, "alice")
	bobID, bobToken := signupAndLogin(t, app, "bob")

	for _, content := range []string{"first", "second"} {
		resp := doJSON(t, app, http.MethodPost, "/api/messages/", aliceToken, map[string]any{
			"recipient_id": bobID,
			"content":      content,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	t.Run("RecipientSeesUnreadCount", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/messages/unread-count", bobToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			UnreadCount int `json:"unread_count"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, 2, body.UnreadCount)
	})

	t.Run("SenderUnreadUnaffected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/messages/unread-count", aliceToken, nil)
		var body struct {
			UnreadCount int `json:"unread_count"`
		}
		decodeBody(t, resp, &body)
		assert.Zero(t, body.UnreadCount)
	})

	t.Run("FetchingConversationMarksRead", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/messages/1", bobToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var msgs []models.Message
		decodeBody(t, resp, &msgs)
		require.Len(t, msgs, 2)
		assert.Equal(t, "first", msgs[0].Content)
		assert.Equal(t, "second", msgs[1].Content)
		for _, m := range msgs {
			assert.True(t, m.IsRead)
		}

		resp = doJSON(t, app, http.MethodGet, "/api/messages/unread-count", bobToken, nil)
		var body struct {
			UnreadCount int `json:"unread_count"`
		}
		decodeBody(t, resp, &body)
		assert.Zero(t, body.UnreadCount)
	})

	t.Run("SenderFetchDoesNotMarkForRecipient", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/messages/", bobToken, map[string]any{
			"recipient_id": aliceID,
			"content":      "reply",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()

		// Bob re-reading the thread does not consume alice's unread.
		resp = doJSON(t, app, http.MethodGet, "/api/messages/1", bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		resp = doJSON(t, app, http.MethodGet, "/api/messages/unread-count", aliceToken, nil)
		var body struct {
			UnreadCount int `json:"unread_count"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, 1, body.UnreadCount)
	})

	t.Run("UnknownCounterpart", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/messages/999", bobToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("InvalidCounterpartID", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/messages/abc", bobToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetChats(t *testing.T) {
	_, app := newTestServer(t)
	_, aliceToken := signupAndLogin(t, app, "alice")
	bobID, _ := signupAndLogin(t, app, "bob")
	carolID, carolToken := signupAndLogin(t, app, "carol")

	resp := doJSON(t, app, http.MethodPost, "/api/messages/", aliceToken, map[string]any{
		"recipient_id": bobID, "content": "to bob",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()
	resp = doJSON(t, app, http.MethodPost, "/api/messages/", carolToken, map[string]any{
		"recipient_id": 1, "content": "from carol",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/messages/chats", aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var chats []models.ChatSummary
	decodeBody(t, resp, &chats)
	require.Len(t, chats, 2)

	assert.Equal(t, bobID, chats[0].Counterpart.ID)
	assert.Equal(t, "to bob", chats[0].LastMessage)
	assert.Zero(t, chats[0].UnreadCount)

	assert.Equal(t, carolID, chats[1].Counterpart.ID)
	assert.Equal(t, "from carol", chats[1].LastMessage)
	assert.Equal(t, 1, chats[1].UnreadCount)
}
