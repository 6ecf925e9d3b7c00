package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func themeSeenBy(r *http.Request) (string, *httptest.ResponseRecorder) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ThemeFrom(r)
	})
	w := httptest.NewRecorder()
	Prefs(next).ServeHTTP(w, r)
	return got, w
}

func TestPrefsDefault(t *testing.T) {
	got, _ := themeSeenBy(httptest.NewRequest(http.MethodGet, "/", nil))
	if got != "system" {
		t.Fatalf("expected default theme system, got %q", got)
	}
}

func TestPrefsFromCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
	got, _ := themeSeenBy(r)
	if got != "dark" {
		t.Fatalf("expected dark from cookie, got %q", got)
	}
}

func TestPrefsQueryOverridesCookieAndPersists(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?theme=light", nil)
	r.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
	got, w := themeSeenBy(r)
	if got != "light" {
		t.Fatalf("expected query to win, got %q", got)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "theme" || cookies[0].Value != "light" {
		t.Fatalf("expected persisted theme cookie, got %v", cookies)
	}
}

func TestPrefsIgnoresInvalidValues(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?theme=neon", nil)
	r.AddCookie(&http.Cookie{Name: "theme", Value: "blink"})
	got, w := themeSeenBy(r)
	if got != "system" {
		t.Fatalf("invalid values must fall back to system, got %q", got)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("invalid query value must not be persisted")
	}
}

func TestThemeFromWithoutMiddleware(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ThemeFrom(r); got != "system" {
		t.Fatalf("expected system, got %q", got)
	}
}
