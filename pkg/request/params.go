package request

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// IDParam parses a positive integer URL parameter
func IDParam(r *http.Request, name string) (int64, error) {
	return parseID(chi.URLParam(r, name), name)
}

// QueryID parses a positive integer query parameter
func QueryID(r *http.Request, name string) (int64, error) {
	return parseID(r.URL.Query().Get(name), name)
}

// Page reads page and per_page query parameters, clamped to sane defaults
func Page(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

func parseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidRequest.WithField(name, "must be a positive integer")
	}
	return id, nil
}
