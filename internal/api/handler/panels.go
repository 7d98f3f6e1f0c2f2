package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/request"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/response"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/panel"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/view"
)

// Panels bundles every list view the dashboard shows.
type Panels struct {
	Educators   *panel.EducatorPanel
	Students    *panel.StudentPanel
	Courses     *panel.CatalogPanel[view.Course]
	Tests       *panel.CatalogPanel[view.Test]
	TestSeries  *panel.CatalogPanel[view.TestSeries]
	Webinars    *panel.CatalogPanel[view.Webinar]
	LiveClasses *panel.CatalogPanel[view.LiveClass]
}

// list serves one panel request: query parameters move the panel, the
// response is whatever the panel decides to show right now. The subject,
// minFee and minRating parameters filter the loaded page without a backend
// round trip.
func list[Row any](p *panel.Panel[Row]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := request.ParsePage(r)
		res := p.View(r.Context(), panel.Query{
			Page:      page,
			Limit:     limit,
			Search:    r.URL.Query().Get("search"),
			Status:    r.URL.Query().Get("status"),
			Subject:   r.URL.Query().Get("subject"),
			MinFee:    request.ParseFloat(r, "minFee"),
			MinRating: request.ParseFloat(r, "minRating"),
		})
		response.WriteJSON(w, http.StatusOK, response.PaginatedResponse{
			Rows:         res.Rows,
			Pagination:   res.Pagination,
			Error:        res.Error,
			Stale:        res.Stale,
			FacetOptions: res.FacetOptions,
		})
	}
}

func remove[Row any](p *panel.CatalogPanel[Row]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.RequireID(chi.URLParam(r, "id"))
		if err != nil {
			response.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := p.Delete(r.Context(), id); err != nil {
			response.WriteAPIError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Routes mounts the panel endpoints on r.
func (p *Panels) Routes(r chi.Router) {
	r.Get("/educators", list(p.Educators.Panel))
	r.Put("/educators/{id}/status", p.toggleEducator)
	r.Delete("/educators/{id}", p.deleteEducator)

	r.Get("/students", list(p.Students.Panel))
	r.Put("/students/{id}/status", p.toggleStudent)
	r.Delete("/students/{id}", p.deleteStudent)

	r.Get("/courses", list(p.Courses.Panel))
	r.Delete("/courses/{id}", remove(p.Courses))

	r.Get("/tests", list(p.Tests.Panel))
	r.Delete("/tests/{id}", remove(p.Tests))

	r.Get("/test-series", list(p.TestSeries.Panel))
	r.Delete("/test-series/{id}", remove(p.TestSeries))

	r.Get("/webinars", list(p.Webinars.Panel))
	r.Delete("/webinars/{id}", remove(p.Webinars))

	r.Get("/live-classes", list(p.LiveClasses.Panel))
	r.Delete("/live-classes/{id}", remove(p.LiveClasses))
}

func (p *Panels) toggleEducator(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := p.Educators.ToggleStatus(r.Context(), id); err != nil {
		response.WriteAPIError(w, err)
		return
	}
	res := p.Educators.Current()
	response.WritePaginated(w, http.StatusOK, res.Rows, res.Pagination)
}

func (p *Panels) deleteEducator(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := p.Educators.Delete(r.Context(), id); err != nil {
		response.WriteAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (p *Panels) toggleStudent(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := p.Students.ToggleStatus(r.Context(), id); err != nil {
		response.WriteAPIError(w, err)
		return
	}
	res := p.Students.Current()
	response.WritePaginated(w, http.StatusOK, res.Rows, res.Pagination)
}

func (p *Panels) deleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := p.Students.Delete(r.Context(), id); err != nil {
		response.WriteAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
