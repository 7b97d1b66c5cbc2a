package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbac-admin/rbac-api/internal/core/ports"
	"github.com/rbac-admin/rbac-api/internal/core/rules"
	"github.com/rbac-admin/rbac-api/internal/core/service"
	"github.com/rbac-admin/rbac-api/internal/core/store"
	"github.com/rbac-admin/rbac-api/internal/infrastructure/db/memory"
	"github.com/rbac-admin/rbac-api/internal/infrastructure/token"
	"github.com/rbac-admin/rbac-api/internal/seed"
)

func newTestRouter(t *testing.T, loginLimit int) *echo.Echo {
	t.Helper()
	log := zerolog.Nop()

	doc, err := seed.Document()
	require.NoError(t, err)
	st, err := store.Open(context.Background(), memory.NewDocumentStore(doc), log)
	require.NoError(t, err)

	tokens := token.NewOpaque(false)
	revocations := memory.NewRevocations(0, time.Hour)
	engine := rules.NewEngine("Super Admin")

	return NewRouter(Deps{
		Log:             log,
		State:           st,
		Resolver:        service.NewPrincipalResolver(st, tokens, revocations, log),
		Auth:            service.NewAuthService(st, tokens, revocations, time.Hour, log),
		Users:           service.NewUserService(st, engine, nil, log),
		Roles:           service.NewRoleService(st, engine, nil, log),
		Health:          map[string]ports.Pinger{"store": st},
		ManagementRoles: []string{"Manager", "Admin"},
		LoginRateLimit:  loginLimit,
		CORSOrigins:     []string{"*"},
	})
}

type session struct {
	token  string
	userID int64
}

func do(e *echo.Echo, method, path string, s *session, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if s != nil {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token)
		req.Header.Set("x-user-id", strconv.FormatInt(s.userID, 10))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, username, password string) *session {
	t.Helper()
	rec := do(e, http.MethodPost, "/auth/login", nil, `{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, strings.HasPrefix(resp.Token, token.OpaquePrefix))
	return &session{token: resp.Token, userID: resp.User.ID}
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_Root(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(e, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mock RBAC API Server with Role Hierarchy", decodeMessage(t, rec)["message"])
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRouter_LoginRejectsBadPassword(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(e, http.MethodPost, "/auth/login", nil, `{"username":"admin","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid username or password", decodeMessage(t, rec)["message"])
}

func TestRouter_MissingToken(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(e, http.MethodGet, "/users", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access token required", decodeMessage(t, rec)["message"])
}

func TestRouter_BothPrefixesServeTheSameRoutes(t *testing.T) {
	e := newTestRouter(t, 0)
	s := login(t, e, "admin", "admin123")

	for _, path := range []string{"/permissions", "/api/permissions"} {
		rec := do(e, http.MethodGet, path, s, "")
		require.Equal(t, http.StatusOK, rec.Code, path)

		var perms []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &perms))
		assert.Len(t, perms, 10, path)
	}
}

func TestRouter_UserListIsScopedToCreator(t *testing.T) {
	e := newTestRouter(t, 0)

	admin := login(t, e, "admin", "admin123")
	rec := do(e, http.MethodGet, "/users", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "manager", users[0]["username"])
	assert.NotContains(t, users[0], "password")

	root := login(t, e, "superadmin", "super123")
	rec = do(e, http.MethodGet, "/users", root, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 5)
}

func TestRouter_RoleGuardNamesRequiredRoles(t *testing.T) {
	e := newTestRouter(t, 0)
	employee := login(t, e, "employee", "employee123")

	rec := do(e, http.MethodGet, "/users", employee, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeMessage(t, rec)
	assert.Equal(t, "Access denied. Required role(s): Manager, Admin. Your role: Employee", body["message"])
	assert.Equal(t, "role_membership", body["rule"])
}

func TestRouter_ResourceHierarchy(t *testing.T) {
	e := newTestRouter(t, 0)
	manager := login(t, e, "manager", "manager123")

	rec := do(e, http.MethodGet, "/users/4", manager, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/users/3", manager, "")
	assert.Equal(t, http.StatusOK, rec.Code, "self is always reachable")

	rec = do(e, http.MethodGet, "/users/2", manager, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "hierarchy", decodeMessage(t, rec)["rule"])

	rec = do(e, http.MethodGet, "/users/999", manager, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CreateUserAboveCaller(t *testing.T) {
	e := newTestRouter(t, 0)
	manager := login(t, e, "manager", "manager123")

	body := `{"username":"newadmin","password":"password1","fullName":"New Admin","email":"new@example.com","roleId":2}`
	rec := do(e, http.MethodPost, "/users", manager, body)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "role_above_caller", decodeMessage(t, rec)["rule"])

	body = `{"username":"newhire","password":"password1","fullName":"New Hire","email":"hire@example.com","roleId":4}`
	rec = do(e, http.MethodPost, "/users", manager, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeMessage(t, rec)
	assert.Equal(t, float64(6), created["id"])
	createdBy, _ := created["createdBy"].(map[string]any)
	assert.Equal(t, float64(3), createdBy["id"])

	rec = do(e, http.MethodGet, "/users/check-username/newhire", manager, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeMessage(t, rec)["available"])
}

func TestRouter_DeleteRoleInUseReportsCount(t *testing.T) {
	e := newTestRouter(t, 0)
	manager := login(t, e, "manager", "manager123")

	rec := do(e, http.MethodDelete, "/roles/3", manager, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeMessage(t, rec)
	assert.Equal(t, "role_in_use", body["rule"])
	assert.Equal(t, float64(1), body["userCount"])
}

func TestRouter_RoleDetailNeedsViewRoles(t *testing.T) {
	e := newTestRouter(t, 0)
	manager := login(t, e, "manager", "manager123")

	rec := do(e, http.MethodGet, "/roles/4", manager, "")
	require.Equal(t, http.StatusOK, rec.Code)
	role := decodeMessage(t, rec)
	assert.Equal(t, "Employee", role["name"])
	assert.Equal(t, float64(1), role["userCount"])
	assert.Equal(t, float64(3), role["permissionCount"])
}

func TestRouter_RoleDetailHidesRolesAboveCaller(t *testing.T) {
	e := newTestRouter(t, 0)
	manager := login(t, e, "manager", "manager123")

	rec := do(e, http.MethodGet, "/roles/1", manager, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeMessage(t, rec)
	assert.Equal(t, "hierarchy", body["rule"])
	assert.NotContains(t, body, "permissionDetails")

	superadmin := login(t, e, "superadmin", "super123")
	rec = do(e, http.MethodGet, "/roles/1", superadmin, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	e := newTestRouter(t, 0)
	s := login(t, e, "manager", "manager123")

	rec := do(e, http.MethodPost, "/auth/logout", s, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/profile", s, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RefreshIssuesWorkingToken(t *testing.T) {
	e := newTestRouter(t, 0)
	s := login(t, e, "manager", "manager123")

	rec := do(e, http.MethodPost, "/api/auth/refresh", s, "")
	require.Equal(t, http.StatusOK, rec.Code)
	fresh, _ := decodeMessage(t, rec)["token"].(string)
	require.NotEmpty(t, fresh)
	assert.NotEqual(t, s.token, fresh)

	rec = do(e, http.MethodGet, "/profile", s, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "old token must be revoked")

	rec = do(e, http.MethodGet, "/profile", &session{token: fresh, userID: s.userID}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	user, _ := decodeMessage(t, rec)["user"].(map[string]any)
	assert.Equal(t, "manager", user["username"])
}

func TestRouter_LoginRateLimit(t *testing.T) {
	e := newTestRouter(t, 2)

	for i := 0; i < 2; i++ {
		rec := do(e, http.MethodPost, "/auth/login", nil, `{"username":"admin","password":"wrong"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := do(e, http.MethodPost, "/auth/login", nil, `{"username":"admin","password":"admin123"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(e, http.MethodGet, "/health/ready", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeMessage(t, rec)["status"])

	do(e, http.MethodGet, "/users", nil, "")
	rec = do(e, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rbac_authz_decisions_total")
}

func TestRouter_UnknownRoute(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(e, http.MethodGet, "/nope", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decodeMessage(t, rec)["message"])
}
