package evolution

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
)

const (
	testKey      = "secret-token-123"
	testInstance = "main"
)

func newTestClient(t *testing.T, h http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		BaseURL:  srv.URL + "/",
		APIKey:   testKey,
		Instance: testInstance,
		Timeout:  timeout,
	})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresSettings(t *testing.T) {
	cases := []Config{
		{APIKey: "k", Instance: "i"},
		{BaseURL: "http://x", Instance: "i"},
		{BaseURL: "http://x", APIKey: "k"},
		{BaseURL: "::bad", APIKey: "k", Instance: "i"},
	}
	for _, cfg := range cases {
		_, err := NewClient(cfg)
		assert.Error(t, err)
	}
}

func TestCallSubstitutesInstanceAndSendsHeaders(t *testing.T) {
	var gotPath, gotKey, gotReqID, gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		gotReqID = r.Header.Get("X-Request-ID")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}, time.Second)

	var out struct {
		OK bool `json:"ok"`
	}
	err := c.Call(context.Background(), http.MethodPost, "/chat/findChats/{instanceId}", map[string]string{"a": "b"}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, "/chat/findChats/main", gotPath)
	assert.Equal(t, testKey, gotKey)
	assert.NotEmpty(t, gotReqID)
	assert.JSONEq(t, `{"a":"b"}`, gotBody)
	assert.NotContains(t, gotBody, testKey)
}

func TestCallClassifiesStatus(t *testing.T) {
	cases := []struct {
		status int
		kind   error
	}{
		{http.StatusUnauthorized, ErrAuth},
		{http.StatusForbidden, ErrAuth},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrTransient},
		{http.StatusInternalServerError, ErrTransient},
		{http.StatusBadGateway, ErrTransient},
		{http.StatusBadRequest, ErrRequest},
		{http.StatusUnprocessableEntity, ErrRequest},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			}, time.Second)

			err := c.Call(context.Background(), http.MethodGet, "/x/{instanceId}", nil, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Contains(t, apiErr.Detail, "nope")
		})
	}
}

func TestCallRedactsCredentialInErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`invalid apikey ` + r.Header.Get("apikey")))
	}, time.Second)

	err := c.Call(context.Background(), http.MethodGet, "/x/{instanceId}", nil, nil)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testKey)
	assert.Contains(t, err.Error(), log.RedactedPlaceholder)
}

func TestCallRedactsCredentialAtTruncationBoundary(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Logger()
	prev := logger.Out
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(prev) })

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(strings.Repeat("x", maxErrorBody-6) + r.Header.Get("apikey")))
	}, time.Second)

	err := c.Call(context.Background(), http.MethodGet, "/x/{instanceId}", nil, nil)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.LessOrEqual(t, len(apiErr.Detail), maxErrorBody)
	assert.NotContains(t, err.Error(), testKey[:6])
	assert.NotContains(t, buf.String(), testKey[:6])
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "a", truncate("aé", 2))
	assert.Equal(t, "aé", truncate("aéb", 3))
	assert.True(t, utf8.ValidString(truncate(strings.Repeat("👍", 10), 7)))
}

func TestCallRedactsCredentialInLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Logger()
	prev := logger.Out
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(prev) })

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(r.Header.Get("apikey")))
	}, time.Second)

	_ = c.Call(context.Background(), http.MethodGet, "/x/{instanceId}", nil, nil)
	assert.NotEmpty(t, buf.String())
	assert.NotContains(t, buf.String(), testKey)
}

func TestCallTimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	err := c.Call(context.Background(), http.MethodGet, "/slow/{instanceId}", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, ErrTransport)
	assert.True(t, IsRetryable(err))
}

func TestCallConnectionFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(Config{BaseURL: base, APIKey: testKey, Instance: testInstance, Timeout: time.Second})
	require.NoError(t, err)

	err = c.Call(context.Background(), http.MethodGet, "/x/{instanceId}", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestCallMalformedBodyIsTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops`))
	}, time.Second)

	var out []Chat
	err := c.Call(context.Background(), http.MethodPost, "/x/{instanceId}", nil, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestCallIssuesExactlyOneRequest(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, time.Second)

	err := c.Call(context.Background(), http.MethodGet, "/x/{instanceId}", nil, nil)
	assert.ErrorIs(t, err, ErrTransient)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFindContactsFilter(t *testing.T) {
	var bodies []map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		bodies = append(bodies, body)
		_, _ = w.Write([]byte(`[{"id":"1","remoteJid":"5511999999999@s.whatsapp.net","pushName":"Ana"},{"id":"2","remoteJid":"123@g.us","pushName":"Team"}]`))
	}, time.Second)

	all, err := c.FindContacts(context.Background(), ContactFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.False(t, all[0].IsGroup())
	assert.True(t, all[1].IsGroup())

	_, err = c.FindContacts(context.Background(), ContactFilter{ID: "5511999999999@s.whatsapp.net"})
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	assert.Empty(t, bodies[0])
	assert.Equal(t, map[string]any{"id": "5511999999999@s.whatsapp.net"}, bodies[1]["where"])
}

func TestFindMessagesDecodesBothShapes(t *testing.T) {
	payloads := []string{
		`{"messages":{"total":1,"pages":1,"currentPage":1,"records":[{"id":"m1","key":{"id":"k1","remoteJid":"551100@s.whatsapp.net"},"messageTimestamp":1700000000,"message":{"conversation":"hi"}}]}}`,
		`[{"id":"m1","key":{"id":"k1","remoteJid":"551100@s.whatsapp.net"},"messageTimestamp":"1700000000","message":{"extendedTextMessage":{"text":"hi"}}}]`,
	}
	for _, p := range payloads {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(p))
		}, time.Second)

		page, err := c.FindMessages(context.Background(), FindMessagesRequest{ChatID: "551100@s.whatsapp.net", Limit: 10})
		require.NoError(t, err)
		require.Len(t, page.Records, 1)
		assert.Equal(t, int64(1700000000), page.Records[0].Timestamp)
		assert.Equal(t, "hi", page.Records[0].Text())
	}
}

func TestConnectionStateShapes(t *testing.T) {
	for _, p := range []string{`{"instance":{"instanceName":"main","state":"open"}}`, `{"state":"open"}`} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.True(t, strings.HasSuffix(r.URL.Path, "/instance/connectionState/main"))
			_, _ = w.Write([]byte(p))
		}, time.Second)

		state, err := c.ConnectionState(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "open", state.State)
		assert.Equal(t, "main", state.Instance)
	}
}

func TestUserPart(t *testing.T) {
	assert.Equal(t, "5511999999999", UserPart("5511999999999@s.whatsapp.net"))
	assert.Equal(t, "5511999999999", UserPart("5511999999999:12@s.whatsapp.net"))
	assert.Equal(t, "", UserPart("120363000000@g.us"))
	assert.Equal(t, "", UserPart(""))
	assert.Equal(t, "15551234567@s.whatsapp.net", UserJID("15551234567"))
}

func TestProfileDecodesStatusShapes(t *testing.T) {
	var p Profile
	require.NoError(t, json.Unmarshal([]byte(`{"wuid":"551100@s.whatsapp.net","name":"Ana","status":{"status":"Busy","setAt":"2024-01-01T00:00:00Z"},"website":"https://ana.test"}`), &p))
	assert.Equal(t, "Busy", p.Status.Text)
	assert.Equal(t, StringList{"https://ana.test"}, p.Website)

	p = Profile{}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Available","website":["https://a.test","https://b.test"]}`), &p))
	assert.Equal(t, "Available", p.Status.Text)
	assert.Len(t, p.Website, 2)

	p = Profile{}
	require.NoError(t, json.Unmarshal([]byte(`{"status":null,"website":""}`), &p))
	assert.Empty(t, p.Status.Text)
	assert.Nil(t, p.Website)
}

func TestChatUtilityEndpoints(t *testing.T) {
	bodies := map[string]map[string]any{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		bodies[r.URL.Path] = body
		switch r.URL.Path {
		case "/chat/whatsappNumbers/main":
			_, _ = w.Write([]byte(`[{"exists":true,"jid":"551100@s.whatsapp.net","number":"551100"}]`))
		case "/chat/fetchProfilePictureUrl/main":
			_, _ = w.Write([]byte(`{"wuid":"551100@s.whatsapp.net","profilePictureUrl":"https://pps.test/a.jpg"}`))
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	}, time.Second)
	ctx := context.Background()

	checks, err := c.WhatsAppNumbers(ctx, []string{"551100"})
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.True(t, checks[0].Exists)

	pic, err := c.FetchProfilePicture(ctx, "551100")
	require.NoError(t, err)
	assert.Equal(t, "https://pps.test/a.jpg", pic.ProfilePictureURL)

	require.NoError(t, c.MarkMessagesRead(ctx, []ReadMessage{{RemoteJID: "551100@s.whatsapp.net", ID: "m1"}}))
	require.NoError(t, c.ArchiveChat(ctx, ArchiveChatRequest{Chat: "551100@s.whatsapp.net", Archive: true}))

	assert.Equal(t, []any{"551100"}, bodies["/chat/whatsappNumbers/main"]["numbers"])
	assert.Equal(t, "551100", bodies["/chat/fetchProfilePictureUrl/main"]["number"])
	read := bodies["/chat/markMessageAsRead/main"]["readMessages"].([]any)
	assert.Equal(t, "m1", read[0].(map[string]any)["id"])
	assert.Equal(t, true, bodies["/chat/archiveChat/main"]["archive"])
}
