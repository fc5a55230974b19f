package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/CUknot/forum_backend/database"
	"github.com/CUknot/forum_backend/models"
	"github.com/CUknot/forum_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

const testSecret = "test-secret"

func setupUser(t *testing.T) (*models.User, string) {
	t.Helper()

	require.NoError(t, database.Open(sqlite.Open(":memory:")))
	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate())

	user := &models.User{Username: "jane", Email: "jane@example.com", Password: "s3cret-pass"}
	require.NoError(t, database.DB.Create(user).Error)

	token, err := utils.GenerateToken(user.ID, testSecret, time.Hour)
	require.NoError(t, err)
	return user, token
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c), "anonymous": CurrentUser(c) == nil})
	})
	router.GET("/target", handlers...)
	return router
}

func TestAuthenticate(t *testing.T) {
	user, token := setupUser(t)
	router := newRouter(Authenticate(testSecret))

	tests := []struct {
		name   string
		setup  func(req *http.Request)
		wantID uint
	}{
		{
			name:   "anonymous",
			setup:  func(req *http.Request) {},
			wantID: 0,
		},
		{
			name:   "bearer token",
			setup:  func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) },
			wantID: user.ID,
		},
		{
			name:   "session cookie",
			setup:  func(req *http.Request) { req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token}) },
			wantID: user.ID,
		},
		{
			name:   "bad cookie is ignored",
			setup:  func(req *http.Request) { req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"}) },
			wantID: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/target", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"user_id":`+uintString(tt.wantID))
		})
	}
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	user, token := setupUser(t)
	require.NoError(t, database.DB.Delete(&models.User{}, user.ID).Error)

	router := newRouter(Authenticate(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/target", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"anonymous":true`)
}

func TestJWTAuth(t *testing.T) {
	_, token := setupUser(t)
	router := newRouter(JWTAuth(testSecret))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantBody: "Authorization header is required"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantBody: "Invalid authorization header format"},
		{name: "bad token", header: "Bearer abc", wantStatus: http.StatusUnauthorized, wantBody: "Invalid or expired token"},
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK, wantBody: `"anonymous":false`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/target", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestLoginRequired(t *testing.T) {
	_, token := setupUser(t)
	router := newRouter(Authenticate(testSecret), LoginRequired("/login"))

	t.Run("anonymous is redirected with next", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/target?x=1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?next=%2Ftarget%3Fx%3D1", w.Header().Get("Location"))
	})

	t.Run("logged in passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/target", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "", bearerToken("bearer abc"))
	assert.Equal(t, "", bearerToken("Bearer"))
	assert.Equal(t, "", bearerToken(""))
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
