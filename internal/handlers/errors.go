package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/blachy/httpx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// pathID parses the {name} path segment. Anything that is not a positive
// integer is answered with 404, like an unknown id.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	n, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || n == 0 {
		http.NotFound(w, r)
		return 0, false
	}
	return uint(n), true
}

func serverError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// isUniqueViolation relies on the TranslateError option set by db.GormConfig.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
