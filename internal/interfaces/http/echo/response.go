package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/directory-import/internal/application/prospect"
	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

// writeError maps application and domain errors to a status and a stable code.
// data is sent alongside the error, e.g. the job a failed search left behind.
func writeError(c echo.Context, err error, data any, fallback string) error {
	status, code, message := http.StatusInternalServerError, "internal_error", fallback

	switch {
	case errors.Is(err, app.ErrInvalidJobID):
		status, code, message = http.StatusBadRequest, "invalid_job_id", "id must be a valid UUID"
	case errors.Is(err, app.ErrImportJobNotFound), errors.Is(err, domain.ErrJobNotFound):
		status, code, message = http.StatusNotFound, "not_found", "import job not found"
	case errors.Is(err, app.ErrInvalidStatusFilter), errors.Is(err, app.ErrInvalidTarget):
		status, code, message = http.StatusBadRequest, "bad_request", err.Error()
	case errors.Is(err, domain.ErrInvalidCriteria):
		status, code, message = http.StatusBadRequest, "invalid_criteria", err.Error()
	case errors.Is(err, app.ErrSelectionNotInBuffer), errors.Is(err, app.ErrEmptySelection):
		status, code, message = http.StatusBadRequest, "invalid_selection", err.Error()
	case errors.Is(err, domain.ErrInvalidList):
		status, code, message = http.StatusUnprocessableEntity, "invalid_list", app.FailureMessage(err)
	case errors.Is(err, domain.ErrNoMatches):
		status, code, message = http.StatusUnprocessableEntity, "no_matches", app.FailureMessage(err)
	case errors.Is(err, domain.ErrRateLimited):
		status, code, message = http.StatusTooManyRequests, "rate_limited", app.FailureMessage(err)
	case errors.Is(err, domain.ErrUpstream):
		status, code, message = http.StatusBadGateway, "upstream_error", app.FailureMessage(err)
	case errors.Is(err, app.ErrNoActiveSession):
		status, code, message = http.StatusConflict, "no_active_session", app.FailureMessage(err)
	case errors.Is(err, app.ErrStaleSession):
		status, code, message = http.StatusConflict, "stale_session", "the result buffer was replaced, reload the results"
	case errors.Is(err, domain.ErrNoMorePages):
		status, code, message = http.StatusConflict, "no_more_pages", "all result pages are already loaded"
	case errors.Is(err, domain.ErrLoadInProgress):
		status, code, message = http.StatusConflict, "load_in_progress", "a page load is already running for this job"
	case errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, app.ErrRetryNotAllowed),
		errors.Is(err, app.ErrImportInProgress):
		status, code, message = http.StatusConflict, "illegal_transition", err.Error()
	}

	return c.JSON(status, apiResponse{Data: data, Error: &errorBody{Code: code, Message: message}})
}

// jobData returns the job carried by a failed search, or nil when none was created.
func jobData(out app.SearchOutput) any {
	if out.Job.ID == "" {
		return nil
	}
	return out.Job
}
