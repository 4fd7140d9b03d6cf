package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teamchat/config"
	"teamchat/internal/domain"
	"teamchat/internal/domain/user"
	"teamchat/internal/handler"
	"teamchat/internal/middleware"
	"teamchat/internal/proxy"
	"teamchat/internal/repository/memory"
	"teamchat/internal/server"
	"teamchat/internal/services"
	"teamchat/internal/websocket"
	"teamchat/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	t      *testing.T
	router http.Handler
	store  *memory.Store
	auth   *services.AuthService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cfg := &config.Config{AppMode: server.TestMode, JWTSecret: "test-secret", CORSOrigins: []string{"*"}}
	l := logger.NewNop()
	store := memory.New()
	auth := services.NewAuthService(cfg)
	hub := websocket.NewHub()

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Workspaces:    handler.NewWorkspaceHandler(services.NewWorkspaceService(store, nil, l)),
		Channels:      handler.NewChannelHandler(services.NewChannelService(store, nil, l)),
		Members:       handler.NewMemberHandler(services.NewMemberService(store, nil, l)),
		Conversations: handler.NewConversationHandler(services.NewConversationService(store, nil, l)),
		Messages: handler.NewMessageHandler(
			services.NewMessageService(store, services.NewHydrator(store, nil, l), nil, l),
			services.NewReactionService(store, nil, l),
		),
		Uploads:   handler.NewUploadHandler(services.NewUploadService(nil)),
		Users:     handler.NewUserHandler(services.NewUserService(store.Users())),
		WebSocket: websocket.NewHandler(hub, websocket.NewChannelAuthorizer(proxy.NewAccessControl(store.Members())), nil, l),
	}, server.Deps{Auth: auth, Metrics: middleware.NewMetrics()})

	return &env{t: t, router: srv.Handler(), store: store, auth: auth}
}

func (e *env) user(name string) string {
	e.t.Helper()
	u := user.User{ID: domain.New[domain.UserID](), Name: &name, CreatedAt: domain.Now()}
	require.NoError(e.t, e.store.Users().Upsert(e.t.Context(), &u))
	token, err := e.auth.IssueAccessToken(u.ID, time.Hour)
	require.NoError(e.t, err)
	return token
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func (e *env) do(method, path, token string, body any) (int, envelope) {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	var out envelope
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func (e *env) id(method, path, token string, body any) string {
	e.t.Helper()
	code, resp := e.do(method, path, token, body)
	require.Contains(e.t, []int{http.StatusOK, http.StatusCreated}, code, resp.Error)
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(e.t, json.Unmarshal(resp.Data, &out))
	return out.ID
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestWorkspaceLifecycleOverHTTP(t *testing.T) {
	e := newEnv(t)
	u1, u2 := e.user("Ada"), e.user("Grace")

	ws := e.id(http.MethodPost, "/v1/workspaces", u1, map[string]string{"name": "Acme"})

	code, resp := e.do(http.MethodGet, "/v1/workspaces/"+ws+"/channels", u1, nil)
	require.Equal(t, http.StatusOK, code)
	channels := decode[[]struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}](t, resp.Data)
	require.Len(t, channels, 1)
	assert.Equal(t, "general", channels[0].Name)
	general := channels[0].ID

	_, resp = e.do(http.MethodGet, "/v1/workspaces/"+ws, u1, nil)
	joinCode := decode[struct {
		JoinCode string `json:"join_code"`
	}](t, resp.Data).JoinCode

	e.id(http.MethodPost, "/v1/workspaces/"+ws+"/join", u2, map[string]string{"join_code": joinCode})

	_, resp = e.do(http.MethodGet, "/v1/workspaces/"+ws+"/members", u1, nil)
	members := decode[[]struct {
		Role string `json:"role"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	}](t, resp.Data)
	require.Len(t, members, 2)

	msg := e.id(http.MethodPost, "/v1/messages", u1, map[string]string{"body": "hello", "workspace_id": ws, "channel_id": general})
	e.id(http.MethodPost, "/v1/messages/"+msg+"/reactions", u2, map[string]string{"value": "👍"})
	e.id(http.MethodPost, "/v1/messages/"+msg+"/reactions", u2, map[string]string{"value": "👍"})

	code, resp = e.do(http.MethodGet, "/v1/messages?channel_id="+general, u1, nil)
	require.Equal(t, http.StatusOK, code)
	page := decode[struct {
		Page []struct {
			Body        string            `json:"body"`
			Reactions   []json.RawMessage `json:"reactions"`
			ThreadCount int               `json:"thread_count"`
			User        struct {
				Name string `json:"name"`
			} `json:"user"`
		} `json:"page"`
		IsDone bool `json:"is_done"`
	}](t, resp.Data)
	require.Len(t, page.Page, 1)
	assert.Equal(t, "hello", page.Page[0].Body)
	assert.Equal(t, "Ada", page.Page[0].User.Name)
	assert.NotNil(t, page.Page[0].Reactions)
	assert.Empty(t, page.Page[0].Reactions)
	assert.True(t, page.IsDone)

	_, resp = e.do(http.MethodGet, "/v1/workspaces/"+ws+"/members/current", u1, nil)
	self := decode[struct {
		ID string `json:"id"`
	}](t, resp.Data)
	code, resp = e.do(http.MethodDelete, "/v1/members/"+self.ID, u1, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVARIANT_VIOLATION", resp.Code)
	assert.EqualValues(t, 2, e.store.Counts()["members"])
}

func TestAbsentResultsAreNull(t *testing.T) {
	e := newEnv(t)
	u1 := e.user("Ada")
	missing := domain.New[domain.WorkspaceID]().String()

	code, resp := e.do(http.MethodGet, "/v1/workspaces/"+missing, u1, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "null", string(resp.Data))

	code, resp = e.do(http.MethodGet, "/v1/workspaces", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "[]", string(resp.Data))

	code, resp = e.do(http.MethodGet, "/v1/users/me", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "null", string(resp.Data))
}

func TestMutationsRequireAuth(t *testing.T) {
	e := newEnv(t)
	code, _ := e.do(http.MethodPost, "/v1/workspaces", "", map[string]string{"name": "Acme"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = e.do(http.MethodPost, "/v1/workspaces", "not-a-jwt", map[string]string{"name": "Acme"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = e.do(http.MethodGet, "/v1/messages?channel_id="+domain.New[domain.ChannelID]().String(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestBadInputs(t *testing.T) {
	e := newEnv(t)
	u1 := e.user("Ada")

	code, resp := e.do(http.MethodGet, "/v1/channels/not-an-id", u1, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_REQUEST", resp.Code)

	code, _ = e.do(http.MethodPost, "/v1/workspaces", u1, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = e.do(http.MethodGet, "/v1/messages?channel_id=x", u1, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = e.do(http.MethodPost, "/v1/uploads", u1, map[string]string{"content_type": "image/png"})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "UNAVAILABLE", resp.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	e := newEnv(t)
	code, _ := e.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = e.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "teamchat_http_requests_total")
}
