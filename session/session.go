// Package session identifies a browser with a signed cookie and carries
// flash messages and the language preference between requests.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/diewo77/blachy/i18n"
	"github.com/google/uuid"
)

type ctxKey string

const (
	sessionCookieName = "session"
	flashCookieName   = "flash"
	langCookieName    = "lang"
	sessionIDCtxKey   = ctxKey("sessionID")
)

var secret = []byte("devsessionsecret")

// SetSecret configures the HMAC key used to sign session cookies.
func SetSecret(s string) {
	if s != "" {
		secret = []byte(s)
	}
}

func sign(value string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateSession issues a new random session id in a signed cookie.
func CreateSession(w http.ResponseWriter) string {
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id + "." + sign(id),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
	return id
}

// ParseSession validates the cookie and returns the session id.
func ParseSession(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	id, sig, ok := strings.Cut(c.Value, ".")
	if !ok {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(sign(id))) {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDCtxKey, id)
}

// IDFromContext extracts the session id set by Middleware.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDCtxKey).(string)
	return id, ok && id != ""
}

// Middleware makes sure every request carries a session id and a language.
// Language order: ?lang= (persisted), cookie, Accept-Language.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := ParseSession(r)
		if !ok {
			id = CreateSession(w)
		}
		ctx := WithID(r.Context(), id)
		ctx = i18n.WithLang(ctx, resolveLang(w, r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func resolveLang(w http.ResponseWriter, r *http.Request) string {
	if q := r.URL.Query().Get("lang"); i18n.Supported(q) {
		http.SetCookie(w, &http.Cookie{Name: langCookieName, Value: q, Path: "/", MaxAge: 86400 * 365, HttpOnly: true})
		return q
	}
	if c, err := r.Cookie(langCookieName); err == nil && i18n.Supported(c.Value) {
		return c.Value
	}
	return i18n.DetectLanguage(r.Header.Get("Accept-Language"))
}

// Flash sets a translated flash message cookie using translation code (or literal if missing).
func Flash(w http.ResponseWriter, r *http.Request, code string) {
	msg := i18n.T(i18n.LangFromContext(r.Context()), code)
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: url.QueryEscape(msg), Path: "/", HttpOnly: true})
}

// PopFlash returns the pending flash message and expires its cookie.
func PopFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
