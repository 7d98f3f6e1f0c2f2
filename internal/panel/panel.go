// Package panel maintains the server-side state of the dashboard's list
// views. Each panel owns the query the admin currently has open, a cache of
// the rows last fetched for it, and the error banner. Search input is
// debounced so a typing burst costs one backend request, while page, limit
// and status filter changes refresh immediately.
package panel

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/facultypedia"
)

const (
	defaultDebounce = 300 * time.Millisecond
	defaultLimit    = 20
)

var refreshes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dashboard",
	Subsystem: "panel",
	Name:      "refreshes_total",
	Help:      "Backend list refreshes by panel and outcome.",
}, []string{"panel", "outcome"})

// Query is what the admin is currently looking at. Page, limit, search and
// status go to the backend; the facet fields filter the loaded rows locally.
type Query struct {
	Page   int
	Limit  int
	Search string
	Status string

	Subject   string
	MinFee    float64
	MinRating float64
}

func (q Query) normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	return q
}

// backend strips the locally applied facets, leaving the part of the query
// the backend sees.
func (q Query) backend() Query {
	q.Subject = ""
	q.MinFee = 0
	q.MinRating = 0
	return q
}

func (q Query) listParams() facultypedia.ListParams {
	return facultypedia.ListParams{Page: q.Page, Limit: q.Limit, Search: q.Search, Status: q.Status}
}

// Facets are the attributes of a row the local facet filters match against.
// Subject may hold several values joined with ", ".
type Facets struct {
	Subject string
	Fee     float64
	Rating  float64
}

// FacetFunc extracts the filterable attributes from a row.
type FacetFunc[Row any] func(Row) Facets

// Result is one panel snapshot. Stale marks rows served from cache while a
// debounced search refresh is still pending. FacetOptions lists the distinct
// subject values of the loaded page, before facet filtering.
type Result[Row any] struct {
	Rows         []Row                   `json:"rows"`
	Pagination   facultypedia.Pagination `json:"pagination"`
	Query        Query                   `json:"-"`
	Error        string                  `json:"error,omitempty"`
	Stale        bool                    `json:"stale,omitempty"`
	FacetOptions []string                `json:"facetOptions,omitempty"`
}

// FetchFunc loads one page of rows from the backend.
type FetchFunc[Row any] func(ctx context.Context, p facultypedia.ListParams) ([]Row, facultypedia.Pagination, error)

// Panel is the generic list-view state machine. Safe for concurrent use.
type Panel[Row any] struct {
	name     string
	fetch    FetchFunc[Row]
	facets   FacetFunc[Row]
	debounce time.Duration
	logger   zerolog.Logger

	mu         sync.Mutex
	query      Query
	rows       []Row
	pagination facultypedia.Pagination
	bannerErr  string
	loaded     bool
	timer      *time.Timer
	gen        uint64
}

// Option tunes panel construction.
type Option func(*options)

type options struct {
	debounce time.Duration
}

// WithDebounce overrides the search debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// New creates a panel named for logs and metrics, backed by fetch.
func New[Row any](name string, fetch FetchFunc[Row], logger zerolog.Logger, opts ...Option) *Panel[Row] {
	o := options{debounce: defaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}
	return &Panel[Row]{
		name:     name,
		fetch:    fetch,
		debounce: o.debounce,
		logger:   logger.With().Str("panel", name).Logger(),
	}
}

// WithFacetFunc enables facet filtering over the loaded rows and returns the
// panel, for chaining at construction.
func (p *Panel[Row]) WithFacetFunc(fn FacetFunc[Row]) *Panel[Row] {
	p.facets = fn
	return p
}

// View moves the panel to query q and returns the rows to display.
//
// A change limited to the search text serves the current cache immediately
// and schedules a single debounced backend refresh, so each keystroke of a
// burst resets the timer and only the final query hits the backend. Facet
// changes never touch the backend, they re-filter the cached page. Any other
// change, or a first load, refreshes synchronously.
func (p *Panel[Row]) View(ctx context.Context, q Query) Result[Row] {
	q = q.normalize()

	p.mu.Lock()
	facetOnly := p.loaded && q.backend() == p.query.backend()
	searchOnly := p.loaded && !facetOnly &&
		q.Page == p.query.Page && q.Limit == p.query.Limit && q.Status == p.query.Status

	if p.loaded && q == p.query {
		res := p.snapshotLocked(false)
		p.mu.Unlock()
		return res
	}

	p.query = q
	if facetOnly {
		res := p.snapshotLocked(p.timer != nil)
		p.mu.Unlock()
		return res
	}
	if searchOnly {
		p.scheduleRefreshLocked(ctx)
		res := p.snapshotLocked(true)
		p.mu.Unlock()
		return res
	}
	p.cancelPendingLocked()
	p.mu.Unlock()

	p.refresh(ctx, q)

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked(false)
}

// Current returns the panel state without changing the query or touching the
// backend.
func (p *Panel[Row]) Current() Result[Row] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked(p.timer != nil)
}

// Refresh re-fetches the current query immediately, bypassing the debounce.
func (p *Panel[Row]) Refresh(ctx context.Context) Result[Row] {
	p.mu.Lock()
	p.cancelPendingLocked()
	q := p.query.normalize()
	p.query = q
	p.mu.Unlock()

	p.refresh(ctx, q)

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked(false)
}

// Invalidate drops the cache so the next View refetches.
func (p *Panel[Row]) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelPendingLocked()
	p.loaded = false
	p.bannerErr = ""
}

func (p *Panel[Row]) snapshotLocked(stale bool) Result[Row] {
	rows := slices.Clone(p.rows)
	var opts []string
	if p.facets != nil {
		opts = p.facetOptionsLocked()
		rows = p.applyFacetsLocked(rows)
	}
	return Result[Row]{
		Rows:         rows,
		Pagination:   p.pagination,
		Query:        p.query,
		Error:        p.bannerErr,
		Stale:        stale && p.loaded,
		FacetOptions: opts,
	}
}

// facetOptionsLocked lists the distinct subject values present on the loaded
// page, splitting joined multi-subject values apart.
func (p *Panel[Row]) facetOptionsLocked() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, row := range p.rows {
		for _, s := range strings.Split(p.facets(row).Subject, ", ") {
			if s == "" {
				continue
			}
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				out = append(out, s)
			}
		}
	}
	slices.Sort(out)
	return out
}

// applyFacetsLocked filters rows in place against the query's facets. rows
// must already be a copy of the cache.
func (p *Panel[Row]) applyFacetsLocked(rows []Row) []Row {
	q := p.query
	if q.Subject == "" && q.MinFee <= 0 && q.MinRating <= 0 {
		return rows
	}
	out := rows[:0]
	for _, row := range rows {
		f := p.facets(row)
		if q.Subject != "" && !slices.Contains(strings.Split(f.Subject, ", "), q.Subject) {
			continue
		}
		if q.MinFee > 0 && f.Fee < q.MinFee {
			continue
		}
		if q.MinRating > 0 && f.Rating < q.MinRating {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (p *Panel[Row]) scheduleRefreshLocked(ctx context.Context) {
	p.cancelPendingLocked()
	q := p.query
	bg := context.WithoutCancel(ctx)
	p.timer = time.AfterFunc(p.debounce, func() {
		p.mu.Lock()
		p.timer = nil
		current := p.query
		p.mu.Unlock()
		if current.backend() != q.backend() {
			return
		}
		p.refresh(bg, q)
	})
}

func (p *Panel[Row]) cancelPendingLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// refresh fetches q and installs the result unless a newer refresh finished
// first or the panel moved to a different query meanwhile.
func (p *Panel[Row]) refresh(ctx context.Context, q Query) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	rows, pagination, err := p.fetch(ctx, q.listParams())

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.query.backend() != q.backend() {
		refreshes.WithLabelValues(p.name, "superseded").Inc()
		return
	}
	if err != nil {
		refreshes.WithLabelValues(p.name, "error").Inc()
		// A 401 logs the whole gateway out via the session store, so there is
		// nothing useful to show on this one panel.
		if !facultypedia.IsUnauthorized(err) {
			p.bannerErr = err.Error()
			p.logger.Warn().Err(err).Msg("panel refresh failed")
		}
		return
	}
	refreshes.WithLabelValues(p.name, "ok").Inc()
	p.rows = rows
	p.pagination = pagination
	p.bannerErr = ""
	p.loaded = true
}

// mutate applies fn to the first cached row matched by match, returning the
// previous value for rollback.
func (p *Panel[Row]) mutate(match func(Row) bool, fn func(*Row)) (Row, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.rows {
		if match(p.rows[i]) {
			prev := p.rows[i]
			fn(&p.rows[i])
			return prev, true
		}
	}
	var zero Row
	return zero, false
}

// restore puts a previously captured row back, used to roll back an
// optimistic mutation.
func (p *Panel[Row]) restore(match func(Row) bool, prev Row) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.rows {
		if match(p.rows[i]) {
			p.rows[i] = prev
			return
		}
	}
}
