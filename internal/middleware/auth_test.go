package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/freqradio/freqradio/internal/auth"
	"github.com/freqradio/freqradio/internal/db/models"
	"github.com/freqradio/freqradio/internal/db/repositories"
)

var userCols = []string{"id", "username", "email", "password_hash", "is_admin", "created_at", "updated_at"}

func newUserRepo(t *testing.T) (*repositories.UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return repositories.NewUserRepository(db), mock
}

func userRow(id int64, username string, isAdmin bool) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).
		AddRow(id, username, username+"@example.com", "$2a$12$hash", isAdmin, time.Now(), time.Now())
}

func generateTestJWT(t *testing.T, userID, username string) string {
	t.Helper()
	token, err := auth.GenerateJWT(userID, username, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return token
}

func newAuthRouter(userRepo *repositories.UserRepository) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(userRepo))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func doAuthRequest(r *gin.Engine, authHeader string) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w.Code
}

// ---------------------------------------------------------------------------
// AuthMiddleware: early-exit paths (no repository calls needed)
// ---------------------------------------------------------------------------

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	if code := doAuthRequest(newAuthRouter(nil), ""); code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", code)
	}
}

func TestAuthMiddleware_NonBearerPrefix(t *testing.T) {
	if code := doAuthRequest(newAuthRouter(nil), "Basic dXNlcjpwYXNz"); code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", code)
	}
}

func TestAuthMiddleware_EmptyToken(t *testing.T) {
	// "Bearer " with only whitespace → trimmed to empty → 401
	if code := doAuthRequest(newAuthRouter(nil), "Bearer   "); code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", code)
	}
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	if code := doAuthRequest(newAuthRouter(nil), "Bearer not.a.jwt"); code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", code)
	}
}

// ---------------------------------------------------------------------------
// AuthMiddleware: JWT path
// ---------------------------------------------------------------------------

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userRepo, mock := newUserRepo(t)
	mock.ExpectQuery("SELECT.*FROM users.*WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(userRow(42, "alice", false))

	r := gin.New()
	r.Use(AuthMiddleware(userRepo))
	r.GET("/", func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			t.Error("expected user in context")
			c.Status(http.StatusInternalServerError)
			return
		}
		if user.ID != 42 || user.Username != "alice" {
			t.Errorf("user = %+v, want ID 42 / alice", user)
		}
		c.Status(http.StatusOK)
	})

	token := generateTestJWT(t, "42", "alice")
	if code := doAuthRequest(r, "Bearer "+token); code != http.StatusOK {
		t.Errorf("status = %d, want 200", code)
	}
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	userRepo, mock := newUserRepo(t)
	mock.ExpectQuery("SELECT.*FROM users.*WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(userCols))

	token := generateTestJWT(t, "42", "alice")
	if code := doAuthRequest(newAuthRouter(userRepo), "Bearer "+token); code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", code)
	}
}

func TestAuthMiddleware_RepoError(t *testing.T) {
	userRepo, mock := newUserRepo(t)
	mock.ExpectQuery("SELECT.*FROM users.*WHERE id").
		WillReturnError(sqlmock.ErrCancelled)

	token := generateTestJWT(t, "42", "alice")
	if code := doAuthRequest(newAuthRouter(userRepo), "Bearer "+token); code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", code)
	}
}

// ---------------------------------------------------------------------------
// RequireAdmin
// ---------------------------------------------------------------------------

func adminRouter(user *models.User) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(UserKey, user)
		}
		c.Next()
	})
	r.Use(RequireAdmin())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRequireAdmin_Admin(t *testing.T) {
	r := adminRouter(&models.User{ID: 1, Username: "root", IsAdmin: true})
	if code := doAuthRequest(r, ""); code != http.StatusOK {
		t.Errorf("status = %d, want 200", code)
	}
}

func TestRequireAdmin_NonAdmin(t *testing.T) {
	r := adminRouter(&models.User{ID: 42, Username: "alice"})
	if code := doAuthRequest(r, ""); code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", code)
	}
}

func TestRequireAdmin_NoUser(t *testing.T) {
	if code := doAuthRequest(adminRouter(nil), ""); code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", code)
	}
}

// ---------------------------------------------------------------------------
// CurrentUser
// ---------------------------------------------------------------------------

func TestCurrentUser_WrongType(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(UserKey, "not a user")
		c.Next()
	})
	r.GET("/", func(c *gin.Context) {
		if CurrentUser(c) != nil {
			t.Error("expected nil for wrong context value type")
		}
		c.Status(http.StatusOK)
	})
	doAuthRequest(r, "")
}
