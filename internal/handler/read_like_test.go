package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_errors "github.com/itchan-dev/chanfeed/shared/errors"
	"github.com/itchan-dev/chanfeed/shared/domain"
)

func TestLikeMessageHandler(t *testing.T) {
	user := domain.User{Id: 1, Username: "alice"}

	t.Run("like", func(t *testing.T) {
		deps, _, router := setupTestHandler()
		deps.likes.MockSetLike = func(messageId domain.MsgId, userId domain.UserId, like bool) (int, error) {
			assert.Equal(t, domain.MsgId(42), messageId)
			assert.Equal(t, user.Id, userId)
			assert.True(t, like)
			return 3, nil
		}

		req := asUser(httptest.NewRequest(http.MethodPost, "/v1/channel/messages/42/like", bytes.NewReader([]byte(`{"like": true}`))), user)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"likeCount":3`)
	})

	t.Run("unlike", func(t *testing.T) {
		deps, _, router := setupTestHandler()
		deps.likes.MockSetLike = func(messageId domain.MsgId, userId domain.UserId, like bool) (int, error) {
			assert.False(t, like)
			return 0, nil
		}

		req := asUser(httptest.NewRequest(http.MethodPost, "/v1/channel/messages/42/like", bytes.NewReader([]byte(`{"like": false}`))), user)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing like field", func(t *testing.T) {
		_, _, router := setupTestHandler()

		req := asUser(httptest.NewRequest(http.MethodPost, "/v1/channel/messages/42/like", bytes.NewReader([]byte(`{}`))), user)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("own message", func(t *testing.T) {
		deps, _, router := setupTestHandler()
		deps.likes.MockSetLike = func(messageId domain.MsgId, userId domain.UserId, like bool) (int, error) {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "Can't like own message", StatusCode: 409}
		}

		req := asUser(httptest.NewRequest(http.MethodPost, "/v1/channel/messages/42/like", bytes.NewReader([]byte(`{"like": true}`))), user)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("bad message id", func(t *testing.T) {
		_, _, router := setupTestHandler()

		req := asUser(httptest.NewRequest(http.MethodPost, "/v1/channel/messages/abc/like", bytes.NewReader([]byte(`{"like": true}`))), user)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMarkMessageReadHandler(t *testing.T) {
	user := domain.User{Id: 1, Username: "alice"}

	t.Run("first read", func(t *testing.T) {
		deps, _, router := setupTestHandler()
		deps.reads.MockRecordRead = func(readerId domain.UserId, messageId domain.MsgId) (bool, error) {
			assert.Equal(t, user.Id, readerId)
			assert.Equal(t, domain.MsgId(7), messageId)
			return true, nil
		}

		req := asUser(httptest.NewRequest(http.MethodPost, "/v1/channel/messages/7/read", nil), user)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("repeat read", func(t *testing.T) {
		deps, _, router := setupTestHandler()
		deps.reads.MockRecordRead = func(readerId domain.UserId, messageId domain.MsgId) (bool, error) {
			return false, nil
		}

		req := asUser(httptest.NewRequest(http.MethodPost, "/v1/channel/messages/7/read", nil), user)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("own message", func(t *testing.T) {
		deps, _, router := setupTestHandler()
		deps.reads.MockRecordRead = func(readerId domain.UserId, messageId domain.MsgId) (bool, error) {
			return false, &internal_errors.ErrorWithStatusCode{Message: "Can't mark own message as read", StatusCode: 409}
		}

		req := asUser(httptest.NewRequest(http.MethodPost, "/v1/channel/messages/7/read", nil), user)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestMarkAllReadHandler(t *testing.T) {
	user := domain.User{Id: 1, Username: "alice"}

	deps, _, router := setupTestHandler()
	deps.unread.MockMarkAllRead = func(readerId, senderId domain.UserId) (int, error) {
		assert.Equal(t, user.Id, readerId)
		assert.Equal(t, domain.UserId(2), senderId)
		return 4, nil
	}

	req := asUser(httptest.NewRequest(http.MethodPost, "/v1/channel/user-messages/2/mark-all-read", nil), user)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"markedCount":4`)
}
