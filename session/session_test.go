package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/blachy/i18n"
)

func TestMiddlewareIssuesAndKeepsSession(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IDFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	first := seen
	if first == "" {
		t.Fatal("expected a session id")
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Name != sessionCookieName {
		t.Fatalf("expected session cookie, got %v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if seen != first {
		t.Fatalf("session changed: %s -> %s", first, seen)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Fatal("valid session must not be reissued")
	}
}

func TestParseSessionRejectsTampering(t *testing.T) {
	rr := httptest.NewRecorder()
	id := CreateSession(rr)
	c := rr.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	if got, ok := ParseSession(req); !ok || got != id {
		t.Fatalf("ParseSession = %q, %v", got, ok)
	}

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "00000000-0000-0000-0000-000000000000." + c.Value[len(id)+1:]})
	if _, ok := ParseSession(bad); ok {
		t.Fatal("forged id accepted")
	}
}

func TestFlashRoundTrip(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(i18n.WithLang(req.Context(), "pl"))
	rr := httptest.NewRecorder()
	Flash(rr, req, "sheet_deleted")

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		next.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	if msg := PopFlash(rr, next); msg != "Blacha została usunięta" {
		t.Fatalf("PopFlash = %q", msg)
	}
	expired := rr.Result().Cookies()
	if len(expired) != 1 || expired[0].MaxAge >= 0 {
		t.Fatalf("flash cookie not expired: %v", expired)
	}
}

func TestLanguagePreference(t *testing.T) {
	var lang string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang = i18n.LangFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		url    string
		header string
		cookie string
		want   string
	}{
		{"default", "/", "", "", "pl"},
		{"header", "/", "en-US,en;q=0.9", "", "en"},
		{"cookie beats header", "/", "en", "pl", "pl"},
		{"query beats cookie", "/?lang=en", "", "pl", "en"},
		{"unsupported query ignored", "/?lang=xx", "", "", "pl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: langCookieName, Value: tt.cookie})
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if lang != tt.want {
				t.Errorf("lang = %q, want %q", lang, tt.want)
			}
		})
	}
}
