package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/masterstock/masterstock/internal/httpx"
	"golang.org/x/crypto/bcrypt"
)

type ctxKey string

const (
	sessionCookieName = "session"
	userCtxKey        = ctxKey("user")
)

// Secret returns SESSION_SECRET or a dev default.
func Secret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

func sign(user string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(user))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateSession sets a signed cookie carrying the user name.
func CreateSession(w http.ResponseWriter, user string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(user)) + "." + sign(user)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(14 * 24 * time.Hour),
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the cookie signature and returns the user name.
func ParseSession(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", false
	}
	user := string(raw)
	if !hmac.Equal([]byte(parts[1]), []byte(sign(user))) {
		return "", false
	}
	return user, true
}

// Middleware attaches the session user (if any) to the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := ParseSession(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), userCtxKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

func UserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(userCtxKey).(string)
	return user, ok && user != ""
}

// Handler serves login/logout/verify against a single env-configured account.
// The password is held only as a bcrypt hash.
type Handler struct {
	User         string
	PasswordHash []byte
}

// NewHandlerFromEnv reads AUTH_USER and AUTH_PASSWORD_HASH. When no hash is
// configured the plaintext AUTH_PASSWORD (dev default "admin") is hashed at
// startup instead.
func NewHandlerFromEnv() *Handler {
	h := &Handler{User: os.Getenv("AUTH_USER")}
	if h.User == "" {
		h.User = "admin"
	}
	if hash := os.Getenv("AUTH_PASSWORD_HASH"); hash != "" {
		h.PasswordHash = []byte(hash)
		return h
	}
	pass := os.Getenv("AUTH_PASSWORD")
	if pass == "" {
		pass = "admin"
	}
	h.PasswordHash, _ = bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	return h
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if !hmac.Equal([]byte(body.Username), []byte(h.User)) ||
		bcrypt.CompareHashAndPassword(h.PasswordHash, []byte(body.Password)) != nil {
		httpx.Fail(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	CreateSession(w, body.Username)
	httpx.OKMessage(w, nil, "logged in")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ClearSession(w)
	httpx.OKMessage(w, nil, "logged out")
}

// Verify implements the dashboard shell's authentication check. The response
// shape is fixed: {"authenticated": bool}.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	_, ok := UserFromContext(r.Context())
	if !ok {
		_, ok = ParseSession(r)
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"authenticated": ok})
}
