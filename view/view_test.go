package view

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diewo77/blachy/i18n"
)

func writeTemplates(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRenderStatusWithLayoutAndFlash(t *testing.T) {
	ResetForTests()
	defer ResetForTests()
	SetBaseDir(writeTemplates(t, map[string]string{
		"layout.html":         `<html>{{template "partials/flash.html" .}}{{template "content" .}}</html>`,
		"partials/flash.html": `{{define "partials/flash.html"}}{{if .Flash}}<p class="flash">{{.Flash}}</p>{{end}}{{end}}`,
		"page.html":           `{{define "content"}}{{t "save"}} {{add 1 2}} {{.Name}}{{end}}`,
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(i18n.WithLang(req.Context(), "en"))
	req.AddCookie(&http.Cookie{Name: "flash", Value: "Saved"})
	rr := httptest.NewRecorder()

	if err := RenderStatus(rr, req, http.StatusUnprocessableEntity, "page.html", map[string]any{"Name": "A001"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{`<p class="flash">Saved</p>`, "Save 3 A001"} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}
}

func TestRenderMissingTemplate(t *testing.T) {
	ResetForTests()
	defer ResetForTests()
	SetBaseDir(t.TempDir())

	rr := httptest.NewRecorder()
	if err := Render(rr, httptest.NewRequest(http.MethodGet, "/", nil), "nope.html", nil); err == nil {
		t.Fatal("expected error")
	}
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestDict(t *testing.T) {
	m := dict("Name", "code", "Value", 3, 7, "ignored")
	if m["Name"] != "code" || m["Value"] != 3 || len(m) != 2 {
		t.Fatalf("dict = %v", m)
	}
	if dict("odd") != nil {
		t.Fatal("odd argument count should give nil")
	}
}

func TestRenderCachesPerLanguage(t *testing.T) {
	ResetForTests()
	defer ResetForTests()
	SetBaseDir(writeTemplates(t, map[string]string{
		"layout.html": `{{template "content" .}}`,
		"page.html":   `{{define "content"}}{{t "save"}}{{end}}`,
	}))

	for lang, want := range map[string]string{"en": "Save", "pl": "Zapisz"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(i18n.WithLang(req.Context(), lang))
		rr := httptest.NewRecorder()
		if err := Render(rr, req, "page.html", nil); err != nil {
			t.Fatalf("render %s: %v", lang, err)
		}
		if got := rr.Body.String(); got != want {
			t.Errorf("%s: body = %q, want %q", lang, got, want)
		}
	}
}
