package response

import (
	"encoding/json"
	"net/http"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/facultypedia"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteAPIError maps a backend client error onto this API's responses.
// Failures that never reached the backend become gateway errors: transport
// failures 502, timeouts 504. Backend statuses pass through.
func WriteAPIError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*facultypedia.APIError)
	if !ok {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	switch apiErr.Status {
	case facultypedia.StatusNetwork:
		WriteError(w, http.StatusBadGateway, "upstream unreachable: "+apiErr.Message)
	case facultypedia.StatusTimeout:
		WriteError(w, http.StatusGatewayTimeout, apiErr.Message)
	default:
		WriteError(w, apiErr.Status, apiErr.Message)
	}
}

// PaginatedResponse wraps a list with the backend's pagination metadata.
type PaginatedResponse struct {
	Rows         any                     `json:"rows"`
	Pagination   facultypedia.Pagination `json:"pagination"`
	Error        string                  `json:"error,omitempty"`
	Stale        bool                    `json:"stale,omitempty"`
	FacetOptions []string                `json:"facetOptions,omitempty"`
}

// WritePaginated writes a paginated JSON response.
func WritePaginated(w http.ResponseWriter, status int, rows any, p facultypedia.Pagination) {
	WriteJSON(w, status, PaginatedResponse{Rows: rows, Pagination: p})
}
