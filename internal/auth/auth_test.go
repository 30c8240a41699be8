package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWT("test-secret", time.Hour)
	token, err := svc.Sign(42)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	uid, err := svc.Verify(token)
	if err != nil || uid != 42 {
		t.Fatalf("Verify = %d, %v", uid, err)
	}

	if _, err := NewJWT("other-secret", time.Hour).Verify(token); err == nil {
		t.Error("token signed with another secret must not verify")
	}
}

func TestJWTRejectsExpiredAndForeignMethods(t *testing.T) {
	svc := NewJWT("test-secret", time.Hour)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1,
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	s, _ := expired.SignedString([]byte("test-secret"))
	if _, err := svc.Verify(s); err == nil {
		t.Error("expired token must not verify")
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": 1})
	s, _ = none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := svc.Verify(s); err == nil {
		t.Error("unsigned token must not verify")
	}
}

func TestMiddleware(t *testing.T) {
	svc := NewJWT("test-secret", time.Hour)
	token, _ := svc.Sign(7)

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := UserIDFromContext(r.Context()); ok && uid == 7 {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		mw       func(http.Handler) http.Handler
		header   string
		wantCode int
	}{
		{"require with token", RequireAuth(svc), "Bearer " + token, http.StatusOK},
		{"require without token", RequireAuth(svc), "", http.StatusUnauthorized},
		{"require with garbage", RequireAuth(svc), "Bearer nope", http.StatusUnauthorized},
		{"identify with token", Identify(svc), "Bearer " + token, http.StatusOK},
		{"identify anonymous", Identify(svc), "", http.StatusNoContent},
		{"identify with garbage", Identify(svc), "Basic abc", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			tt.mw(echo).ServeHTTP(w, req)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !ComparePassword(hash, "correct horse") {
		t.Error("expected password to match")
	}
	if ComparePassword(hash, "wrong horse") {
		t.Error("expected mismatch")
	}
}
