package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"chatmart/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, token, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c, &calls
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	c, err := NewClient("  ", "token")
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestClient_Send_Text(t *testing.T) {
	var got pushRequest
	c, calls := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/message/push", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("X-Line-Request-Id", "req-1")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	res, err := c.Send(context.Background(), "U1", "  hello  ", nil)

	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "req-1", res.RequestID)
	assert.Equal(t, "U1", got.To)
	require.Len(t, got.Messages, 1)
	msg := got.Messages[0].(map[string]any)
	assert.Equal(t, "text", msg["type"])
	assert.Equal(t, "hello", msg["text"])
}

func TestClient_Send_TextAndCard(t *testing.T) {
	var got pushRequest
	c, _ := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	card := PromotionCard("Rice", "", "https://shop.example/rice", "https://img.example/rice.png")
	_, err := c.Send(context.Background(), "U1", "new!", card)

	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	flex := got.Messages[1].(map[string]any)
	assert.Equal(t, "flex", flex["type"])
	assert.Contains(t, flex["altText"], "Rice")
}

func TestClient_Send_EmptyMessage(t *testing.T) {
	c, calls := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		name string
		text string
		card *FlexMessage
	}{
		{name: "nothing", text: "", card: nil},
		{name: "whitespace only", text: "   ", card: nil},
		{name: "card without contents", text: "", card: &FlexMessage{Type: "flex"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Send(context.Background(), "U1", tt.text, tt.card)
			assert.ErrorIs(t, err, model.ErrEmptyMessage)
		})
	}
	assert.Zero(t, atomic.LoadInt32(calls), "no network call for empty messages")
}

func TestClient_Send_Failures(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		c, calls := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {})
		_, err := c.Send(context.Background(), "U1", "hi", nil)
		assert.ErrorIs(t, err, model.ErrNotification)
		assert.Zero(t, atomic.LoadInt32(calls))
	})

	t.Run("gateway rejects", func(t *testing.T) {
		c, _ := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"The request body has 1 error(s)"}`))
		})
		_, err := c.Send(context.Background(), "U1", "hi", nil)
		require.ErrorIs(t, err, model.ErrNotification)
		assert.Contains(t, err.Error(), "The request body has 1 error(s)")
	})

	t.Run("unreachable", func(t *testing.T) {
		c, err := NewClient("http://127.0.0.1:1", "secret")
		require.NoError(t, err)
		_, err = c.Send(context.Background(), "U1", "hi", nil)
		assert.ErrorIs(t, err, model.ErrNotification)
	})
}

func TestClient_LinkRichMenu(t *testing.T) {
	c, calls := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/bot/user/U1/richmenu/rm-1", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.LinkRichMenu(context.Background(), "U1", "rm-1"))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	err := c.LinkRichMenu(context.Background(), "U1", "")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestClient_LinkRichMenu_EscapesPathSegments(t *testing.T) {
	c, calls := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/user/U1%2F..%2F..%2Fmessage%2Fpush/richmenu/rm-1", r.URL.EscapedPath())
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.LinkRichMenu(context.Background(), "U1/../../message/push", "rm-1"))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}
