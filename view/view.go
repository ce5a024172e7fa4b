package view

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/diewo77/blachy/i18n"
	"github.com/diewo77/blachy/session"
)

var (
	baseDir  string
	once     sync.Once
	devMode  = os.Getenv("DEV") == "1"
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
)

var partials = []string{
	"partials/flash.html",
	"partials/errors-alert.html",
	"partials/field-text.html",
}

// SetDev disables the template cache so edits show up without a restart.
func SetDev(dev bool) { devMode = dev }

// templateDir returns the first templates directory found from the
// working directory. Tests run from package directories two levels down.
func templateDir() string {
	for _, c := range []string{"templates", "../templates", "../../templates"} {
		if fi, err := os.Stat(c); err == nil && fi.IsDir() {
			return filepath.Clean(c)
		}
	}
	return "templates"
}

func detectBase() { baseDir = templateDir() }

// pageFiles lists layout.html, the page and whichever partials exist.
// The layout is looked up from the page's directory towards the root.
func pageFiles(page string) ([]string, error) {
	if _, err := os.Stat(page); err != nil {
		return nil, err
	}
	root := filepath.Dir(page)
	for {
		if fi, err := os.Stat(filepath.Join(root, "layout.html")); err == nil && !fi.IsDir() {
			break
		}
		parent := filepath.Dir(root)
		if parent == root {
			return nil, fmt.Errorf("no layout.html above %s", page)
		}
		root = parent
	}
	files := []string{filepath.Join(root, "layout.html"), page}
	for _, p := range partials {
		pp := filepath.Join(root, p)
		if fi, err := os.Stat(pp); err == nil && !fi.IsDir() {
			files = append(files, pp)
		}
	}
	return files, nil
}

// Funcs returns the template helpers bound to the request language.
// Templates are cached per language, so nothing request specific beyond
// the language may be captured here.
func Funcs(lang string) template.FuncMap {
	return template.FuncMap{
		"t":     func(code string) string { return i18n.T(lang, code) },
		"lang":  func() string { return lang },
		"add":   func(a, b int) int { return a + b },
		"year":  func() int { return time.Now().Year() },
		"asset": versionedAsset,
		"date":  func(t time.Time) string { return t.Format("2006-01-02 15:04") },
		// selected compares an optional foreign key with an option id.
		"selected": func(p *uint, id uint) bool { return p != nil && *p == id },
		// dict builds the argument map of a partial: (dict "Name" "code" "Value" .Code)
		"dict": dict,
	}
}

// versionedAsset appends a content hash to a /static URL.
func versionedAsset(rel string) string {
	url := "/static/" + rel
	b, err := os.ReadFile(filepath.Join("static", rel))
	if err != nil {
		return url
	}
	sum := sha256.Sum256(b)
	return url + "?v=" + hex.EncodeToString(sum[:6])
}

func dict(pairs ...any) map[string]any {
	if len(pairs)%2 != 0 {
		return nil
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if key, ok := pairs[i].(string); ok {
			m[key] = pairs[i+1]
		}
	}
	return m
}

// SetBaseDir points rendering at another templates directory.
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	baseDir = filepath.Clean(path)
	once = sync.Once{}
}

// ResetForTests empties the cache and forgets the templates directory.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
	baseDir = ""
	once = sync.Once{}
}

func load(name, lang string) (*template.Template, error) {
	key := lang + ":" + name
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[key]
		tplCache.RUnlock()
		if ok {
			return t, nil
		}
	}

	if baseDir == "" {
		once.Do(detectBase)
	}
	files, err := pageFiles(filepath.Join(baseDir, name))
	if err != nil {
		return nil, err
	}
	t, err := template.New("layout.html").Funcs(Funcs(lang)).ParseFiles(files...)
	if err != nil {
		return nil, err
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[key] = t
		tplCache.Unlock()
	}
	return t, nil
}

// Render executes name inside layout.html with status 200.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus renders into a buffer first so a template error can still
// become a 500 instead of a half written page.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	lang := i18n.LangFromContext(r.Context())
	t, err := load(name, lang)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = session.PopFlash(w, r)
	}
	data["Year"] = time.Now().Year()
	data["Lang"] = lang
	data["Path"] = r.URL.Path

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
