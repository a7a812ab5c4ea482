package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/provaloop/studyloop-backend/internal/platform/ctxutil"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, sub string, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func authTestRouter(t *testing.T) (*gin.Engine, *uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("dev")
	if err != nil {
		t.Fatal(err)
	}
	am := NewAuthMiddleware(log, testSecret)

	var seen uuid.UUID
	router := gin.New()
	router.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd != nil {
			seen = rd.UserID
		}
		c.String(http.StatusOK, "ok")
	})
	return router, &seen
}

func TestRequireAuthInjectsUserID(t *testing.T) {
	router, seen := authTestRouter(t)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, userID.String(), testSecret))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
	if *seen != userID {
		t.Fatalf("context user %s, want %s", *seen, userID)
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	router, _ := authTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
}

func TestRequireAuthRejectsBadSignature(t *testing.T) {
	router, _ := authTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.NewString(), "other-secret"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
}

func TestRequireAuthRejectsNonUUIDSubject(t *testing.T) {
	router, _ := authTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "not-a-uuid", testSecret))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
}
