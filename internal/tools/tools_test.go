package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/directory"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/evolution"
)

const testAPIKey = "tools-test-key"

func connect(t *testing.T, handler http.HandlerFunc) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	evo := httptest.NewServer(handler)
	t.Cleanup(evo.Close)

	client, err := evolution.NewClient(evolution.Config{
		BaseURL:  evo.URL,
		APIKey:   testAPIKey,
		Instance: "main",
		Timeout:  2 * time.Second,
	})
	require.NoError(t, err)

	server := NewServer(operations.New(client, directory.New(client)), "test")
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	mcpClient := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := mcpClient.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestListToolsExposesEveryOperation(t *testing.T) {
	session := connect(t, func(w http.ResponseWriter, r *http.Request) {})

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
		assert.NotNil(t, tool.InputSchema, tool.Name)
	}
	sort.Strings(names)

	want := []string{
		ClearContactCache, FindContacts, GetChatByNumber, GetChatMessages,
		GetConnectionStatus, GetContactCacheStatus, GetInstanceInfo, GetQRCode,
		ListChats, ListContacts, SendAudio, SendDocument, SendImage, SendMedia,
		SendTextMessage, SendVideo, SetPresence,
		SendLocation, SendContact, GetUnreadMessages, MarkChatAsRead, ArchiveChat,
		CheckNumber, GetProfilePicture, GetProfile, GetBusinessProfile,
	}
	sort.Strings(want)
	assert.Equal(t, want, names)
}

func TestCallToolReturnsStructuredResult(t *testing.T) {
	session := connect(t, func(w http.ResponseWriter, r *http.Request) {})

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      GetChatByNumber,
		Arguments: map[string]any{"number": "+1 (555) 123-4567"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "15551234567", out["number"])
	assert.Equal(t, "15551234567@s.whatsapp.net", out["chat_id"])

	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "15551234567@s.whatsapp.net")
}

func TestCallToolSendsText(t *testing.T) {
	var hits atomic.Int32
	session := connect(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/message/sendText/main", r.URL.Path)
		_, _ = w.Write([]byte(`{"key":{"id":"XYZ","remoteJid":"15551234567@s.whatsapp.net"}}`))
	})

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      SendTextMessage,
		Arguments: map[string]any{"number": "+1 (555) 123-4567", "text": "Hello"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "XYZ", res.StructuredContent.(map[string]any)["message_id"])
	assert.Equal(t, int32(1), hits.Load())
}

func TestValidationErrorIsToolError(t *testing.T) {
	var hits atomic.Int32
	session := connect(t, func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: SendMedia,
		Arguments: map[string]any{
			"number":     "15551234567",
			"media_url":  "https://x.test/a.gif",
			"media_type": "sticker",
		},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	assert.Contains(t, res.Content[0].(*mcp.TextContent).Text, "media_type")
	assert.Equal(t, int32(0), hits.Load())
}

func TestGatewayErrorIsRedactedToolError(t *testing.T) {
	session := connect(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad apikey ` + r.Header.Get("apikey") + `"}`))
	})

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      GetConnectionStatus,
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	text := res.Content[0].(*mcp.TextContent).Text
	assert.Contains(t, text, "rejected the credential")
	assert.NotContains(t, text, testAPIKey)
}

func compileSchema(t *testing.T, schema any, label string) *jsonschema.Schema {
	t.Helper()

	raw, err := json.Marshal(schema)
	require.NoError(t, err, "marshal schema for %s", label)
	var schemaDoc any
	require.NoError(t, json.Unmarshal(raw, &schemaDoc), "unmarshal schema for %s", label)

	c := jsonschema.NewCompiler()
	require.NoError(t, c.AddResource("schema.json", schemaDoc), "add schema resource for %s", label)
	compiled, err := c.Compile("schema.json")
	require.NoError(t, err, "compile schema for %s", label)
	return compiled
}

func TestToolSchemasDescribeResults(t *testing.T) {
	session := connect(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat/findContacts/main":
			_, _ = w.Write([]byte(`[{"remoteJid":"111@s.whatsapp.net","pushName":"Ana"}]`))
		case "/chat/whatsappNumbers/main":
			_, _ = w.Write([]byte(`[{"exists":true,"jid":"5511999999999@s.whatsapp.net","number":"5511999999999"}]`))
		case "/chat/fetchProfile/main":
			_, _ = w.Write([]byte(`{"name":"Ana","numberExists":true,"status":"Available","website":"https://ana.test"}`))
		case "/chat/findChats/main":
			_, _ = w.Write([]byte(`[
				{"id":"1","remoteJid":"111@s.whatsapp.net","unreadCount":3,"updatedAt":"2024-01-01T10:00:00Z","lastMessage":{"key":{"id":"k"},"message":{"conversation":"hi"}}},
				{"id":"2","remoteJid":"222@s.whatsapp.net"}
			]`))
		}
	})
	ctx := context.Background()

	res, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	outputs := map[string]*jsonschema.Schema{}
	for _, tool := range res.Tools {
		compileSchema(t, tool.InputSchema, tool.Name+" input")
		if tool.OutputSchema != nil {
			outputs[tool.Name] = compileSchema(t, tool.OutputSchema, tool.Name+" output")
		}
	}

	for _, name := range []string{ListChats, GetContactCacheStatus, GetChatByNumber, GetUnreadMessages, CheckNumber, GetProfile} {
		args := map[string]any{}
		switch name {
		case GetChatByNumber, CheckNumber, GetProfile:
			args["number"] = "5511999999999"
		}
		call, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
		require.NoError(t, err)
		require.False(t, call.IsError, name)

		raw, err := json.Marshal(call.StructuredContent)
		require.NoError(t, err)
		var doc any
		require.NoError(t, json.Unmarshal(raw, &doc))

		schema, ok := outputs[name]
		require.True(t, ok, "no output schema for %s", name)
		assert.NoError(t, schema.Validate(doc), name)
	}
}

func TestCallToolSendsLocation(t *testing.T) {
	var hits atomic.Int32
	session := connect(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/message/sendLocation/main", r.URL.Path)
		_, _ = w.Write([]byte(`{"key":{"id":"LOC","remoteJid":"5511999999999@s.whatsapp.net"}}`))
	})
	ctx := context.Background()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      SendLocation,
		Arguments: map[string]any{"number": "5511999999999", "latitude": -23.55, "longitude": -46.63},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "LOC", res.StructuredContent.(map[string]any)["message_id"])

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      SendLocation,
		Arguments: map[string]any{"number": "5511999999999", "latitude": -123.0, "longitude": 0},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, int32(1), hits.Load())
}
