package panel

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/facultypedia"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/view"
)

// EducatorAPI is the slice of the backend client the educator panel needs.
type EducatorAPI interface {
	ListEducators(ctx context.Context, p facultypedia.ListParams) ([]facultypedia.RawEducator, facultypedia.Pagination, error)
	UpdateEducatorStatus(ctx context.Context, id, status string) error
	DeleteEducator(ctx context.Context, id string) error
}

// EducatorPanel is the educators list with its optimistic status toggle.
type EducatorPanel struct {
	*Panel[view.Educator]
	api EducatorAPI
}

func NewEducators(api EducatorAPI, logger zerolog.Logger, opts ...Option) *EducatorPanel {
	fetch := func(ctx context.Context, p facultypedia.ListParams) ([]view.Educator, facultypedia.Pagination, error) {
		raws, pagination, err := api.ListEducators(ctx, p)
		if err != nil {
			return nil, facultypedia.Pagination{}, err
		}
		return normalizeAll(raws, view.NormalizeEducator), pagination, nil
	}
	p := New("educators", fetch, logger, opts...).WithFacetFunc(func(e view.Educator) Facets {
		return Facets{Subject: facetText(e.Specialization), Rating: e.Rating}
	})
	return &EducatorPanel{Panel: p, api: api}
}

// ToggleStatus flips an educator between active and inactive. The cached row
// changes first so the UI updates immediately, and is rolled back if the
// backend rejects the change.
func (p *EducatorPanel) ToggleStatus(ctx context.Context, id string) error {
	var next string
	prev, found := p.mutate(
		func(e view.Educator) bool { return e.ID == id },
		func(e *view.Educator) {
			if e.Status == "active" {
				e.Status = "inactive"
			} else {
				e.Status = "active"
			}
			next = e.Status
		},
	)
	if !found {
		return &facultypedia.APIError{Status: 404, Message: "educator not in current view"}
	}
	if err := p.api.UpdateEducatorStatus(ctx, id, next); err != nil {
		p.restore(func(e view.Educator) bool { return e.ID == id }, prev)
		return err
	}
	return nil
}

func (p *EducatorPanel) Delete(ctx context.Context, id string) error {
	if err := p.api.DeleteEducator(ctx, id); err != nil {
		return err
	}
	p.Invalidate()
	return nil
}

// StudentAPI is the slice of the backend client the student panel needs.
type StudentAPI interface {
	ListStudents(ctx context.Context, p facultypedia.ListParams) ([]facultypedia.RawStudent, facultypedia.Pagination, error)
	UpdateStudentStatus(ctx context.Context, id string, isActive bool) error
	DeleteStudent(ctx context.Context, id string) error
}

type StudentPanel struct {
	*Panel[view.Student]
	api StudentAPI
}

func NewStudents(api StudentAPI, logger zerolog.Logger, opts ...Option) *StudentPanel {
	fetch := func(ctx context.Context, p facultypedia.ListParams) ([]view.Student, facultypedia.Pagination, error) {
		raws, pagination, err := api.ListStudents(ctx, p)
		if err != nil {
			return nil, facultypedia.Pagination{}, err
		}
		return normalizeAll(raws, view.NormalizeStudent), pagination, nil
	}
	p := New("students", fetch, logger, opts...).WithFacetFunc(func(s view.Student) Facets {
		return Facets{Subject: facetText(s.Class)}
	})
	return &StudentPanel{Panel: p, api: api}
}

// ToggleStatus flips a student's active flag optimistically, rolling the
// cached row back on backend failure.
func (p *StudentPanel) ToggleStatus(ctx context.Context, id string) error {
	var activate bool
	prev, found := p.mutate(
		func(s view.Student) bool { return s.ID == id },
		func(s *view.Student) {
			if s.Status == "active" {
				s.Status = "inactive"
				activate = false
			} else {
				s.Status = "active"
				activate = true
			}
		},
	)
	if !found {
		return &facultypedia.APIError{Status: 404, Message: "student not in current view"}
	}
	if err := p.api.UpdateStudentStatus(ctx, id, activate); err != nil {
		p.restore(func(s view.Student) bool { return s.ID == id }, prev)
		return err
	}
	return nil
}

func (p *StudentPanel) Delete(ctx context.Context, id string) error {
	if err := p.api.DeleteStudent(ctx, id); err != nil {
		return err
	}
	p.Invalidate()
	return nil
}

// CatalogAPI is the slice of the backend client the content panels need.
type CatalogAPI interface {
	ListCourses(ctx context.Context, p facultypedia.ListParams) ([]facultypedia.RawCourse, facultypedia.Pagination, error)
	ListTests(ctx context.Context, p facultypedia.ListParams) ([]facultypedia.RawTest, facultypedia.Pagination, error)
	ListTestSeries(ctx context.Context, p facultypedia.ListParams) ([]facultypedia.RawTestSeries, facultypedia.Pagination, error)
	ListWebinars(ctx context.Context, p facultypedia.ListParams) ([]facultypedia.RawWebinar, facultypedia.Pagination, error)
	ListLiveClasses(ctx context.Context, p facultypedia.ListParams) ([]facultypedia.RawLiveClass, facultypedia.Pagination, error)
	DeleteCourse(ctx context.Context, id string) error
	DeleteTest(ctx context.Context, id string) error
	DeleteTestSeries(ctx context.Context, id string) error
	DeleteWebinar(ctx context.Context, id string) error
	DeleteLiveClass(ctx context.Context, id string) error
}

// CatalogPanel wraps a content list with its delete action.
type CatalogPanel[Row any] struct {
	*Panel[Row]
	remove func(ctx context.Context, id string) error
}

func (p *CatalogPanel[Row]) Delete(ctx context.Context, id string) error {
	if err := p.remove(ctx, id); err != nil {
		return err
	}
	p.Invalidate()
	return nil
}

func NewCourses(api CatalogAPI, logger zerolog.Logger, opts ...Option) *CatalogPanel[view.Course] {
	fetch := func(ctx context.Context, p facultypedia.ListParams) ([]view.Course, facultypedia.Pagination, error) {
		raws, pagination, err := api.ListCourses(ctx, p)
		if err != nil {
			return nil, facultypedia.Pagination{}, err
		}
		return normalizeAll(raws, view.NormalizeCourse), pagination, nil
	}
	p := New("courses", fetch, logger, opts...).WithFacetFunc(func(c view.Course) Facets {
		return Facets{Subject: facetText(c.Subject), Fee: c.Fees}
	})
	return &CatalogPanel[view.Course]{Panel: p, remove: api.DeleteCourse}
}

func NewTests(api CatalogAPI, logger zerolog.Logger, opts ...Option) *CatalogPanel[view.Test] {
	fetch := func(ctx context.Context, p facultypedia.ListParams) ([]view.Test, facultypedia.Pagination, error) {
		raws, pagination, err := api.ListTests(ctx, p)
		if err != nil {
			return nil, facultypedia.Pagination{}, err
		}
		return normalizeAll(raws, view.NormalizeTest), pagination, nil
	}
	p := New("tests", fetch, logger, opts...).WithFacetFunc(func(tt view.Test) Facets {
		return Facets{Subject: facetText(tt.Subject)}
	})
	return &CatalogPanel[view.Test]{Panel: p, remove: api.DeleteTest}
}

func NewTestSeries(api CatalogAPI, logger zerolog.Logger, opts ...Option) *CatalogPanel[view.TestSeries] {
	fetch := func(ctx context.Context, p facultypedia.ListParams) ([]view.TestSeries, facultypedia.Pagination, error) {
		raws, pagination, err := api.ListTestSeries(ctx, p)
		if err != nil {
			return nil, facultypedia.Pagination{}, err
		}
		return normalizeAll(raws, view.NormalizeTestSeries), pagination, nil
	}
	p := New("test-series", fetch, logger, opts...).WithFacetFunc(func(ts view.TestSeries) Facets {
		return Facets{Fee: ts.Price}
	})
	return &CatalogPanel[view.TestSeries]{Panel: p, remove: api.DeleteTestSeries}
}

func NewWebinars(api CatalogAPI, logger zerolog.Logger, opts ...Option) *CatalogPanel[view.Webinar] {
	fetch := func(ctx context.Context, p facultypedia.ListParams) ([]view.Webinar, facultypedia.Pagination, error) {
		raws, pagination, err := api.ListWebinars(ctx, p)
		if err != nil {
			return nil, facultypedia.Pagination{}, err
		}
		return normalizeAll(raws, view.NormalizeWebinar), pagination, nil
	}
	p := New("webinars", fetch, logger, opts...).WithFacetFunc(func(wb view.Webinar) Facets {
		return Facets{Subject: facetText(wb.Subject), Fee: wb.Fees}
	})
	return &CatalogPanel[view.Webinar]{Panel: p, remove: api.DeleteWebinar}
}

func NewLiveClasses(api CatalogAPI, logger zerolog.Logger, opts ...Option) *CatalogPanel[view.LiveClass] {
	fetch := func(ctx context.Context, p facultypedia.ListParams) ([]view.LiveClass, facultypedia.Pagination, error) {
		raws, pagination, err := api.ListLiveClasses(ctx, p)
		if err != nil {
			return nil, facultypedia.Pagination{}, err
		}
		now := time.Now()
		out := make([]view.LiveClass, 0, len(raws))
		for _, raw := range raws {
			if lc, ok := view.NormalizeLiveClass(raw, now); ok {
				out = append(out, lc)
			}
		}
		return out, pagination, nil
	}
	p := New("live-classes", fetch, logger, opts...).WithFacetFunc(func(lc view.LiveClass) Facets {
		return Facets{Subject: facetText(lc.Subject)}
	})
	return &CatalogPanel[view.LiveClass]{Panel: p, remove: api.DeleteLiveClass}
}

// facetText drops the dash placeholder the normalizers emit for missing
// text, so it never shows up as a facet option.
func facetText(s string) string {
	if s == "—" {
		return ""
	}
	return s
}

// normalizeAll applies a normalizer and drops records it rejects.
func normalizeAll[Raw, Row any](raws []Raw, normalize func(Raw) (Row, bool)) []Row {
	out := make([]Row, 0, len(raws))
	for _, raw := range raws {
		if row, ok := normalize(raw); ok {
			out = append(out, row)
		}
	}
	return out
}
