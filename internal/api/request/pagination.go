package request

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ParsePage reads page and limit query parameters, clamping them to sane
// values. Anything unparseable falls back to the defaults.
func ParsePage(r *http.Request) (page, limit int) {
	page, limit = 1, DefaultLimit

	if s := r.URL.Query().Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			page = v
		}
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// ParseFloat reads a numeric query parameter, zero when absent, invalid or
// negative.
func ParseFloat(r *http.Request, name string) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
