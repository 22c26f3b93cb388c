package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wmhi/site-portal/internal/constants"
	"github.com/wmhi/site-portal/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var errHidden = errors.New("hidden")

type stubDirectory map[string]models.User

func (d stubDirectory) FindUser(id string) (models.User, bool) {
	u, ok := d[id]
	return u, ok
}

type stubJobs map[string]models.Job

func (s stubJobs) Get(viewer models.User, id string) (*models.Job, error) {
	job, ok := s[id]
	if !ok || (!viewer.IsAdmin() && !job.HasMember(viewer.ID)) {
		return nil, errHidden
	}
	return &job, nil
}

var directory = stubDirectory{
	"u1": {ID: "u1", Name: "Sarah", Role: models.RoleAdmin},
	"u2": {ID: "u2", Name: "Mike", Role: models.RoleSiteManager},
}

// newRouter signs the request in as userID via a login route before the
// protected routes run.
func newRouter(t *testing.T, logger *zap.Logger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	if logger != nil {
		r.Use(RequestLogger(logger))
	}

	r.GET("/login/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, c.Param("id"))
		require.NoError(t, session.Save())
		c.Status(http.StatusNoContent)
	})

	authed := r.Group("/", RequireAuth(directory))
	authed.GET("/me", func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.String(http.StatusOK, user.ID)
	})
	authed.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	authed.GET("/jobs/:id", RequireJobAccess(stubJobs{
		"j1": {ID: "j1", AssignedTeam: []string{"u2"}},
		"j2": {ID: "j2"},
	}), func(c *gin.Context) {
		job, ok := GetJob(c)
		require.True(t, ok)
		c.String(http.StatusOK, job.ID)
	})
	return r
}

func signIn(t *testing.T, r *gin.Engine, userID string) []*http.Cookie {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login/"+userID, nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	return w.Result().Cookies()
}

func get(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newRouter(t, nil)

	w := get(r, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")

	w = get(r, "/me", signIn(t, r, "u2"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u2", w.Body.String())

	// a removed user's session no longer authenticates
	w = get(r, "/me", signIn(t, r, "gone"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter(t, nil)

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", signIn(t, r, "u2")).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", signIn(t, r, "u1")).Code)
}

func TestRequireJobAccess(t *testing.T) {
	r := newRouter(t, nil)
	manager := signIn(t, r, "u2")
	admin := signIn(t, r, "u1")

	w := get(r, "/jobs/j1", manager)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "j1", w.Body.String())

	assert.Equal(t, http.StatusNotFound, get(r, "/jobs/j2", manager).Code)
	assert.Equal(t, http.StatusOK, get(r, "/jobs/j2", admin).Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/jobs/nope", admin).Code)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newRouter(t, zap.New(core))
	cookies := signIn(t, r, "u2")

	get(r, "/me", cookies)
	get(r, "/jobs/j2", cookies)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 3)

	me := entries[1].ContextMap()
	assert.Equal(t, "/me", me["route"])
	assert.Equal(t, "u2", me["user_id"])
	assert.Equal(t, int64(http.StatusOK), me["status"])

	assert.Equal(t, zap.WarnLevel, entries[2].Level)
	assert.Equal(t, "/jobs/:id", entries[2].ContextMap()["route"])
}
