package echo

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/directory-import/internal/application/prospect"
)

type JobHandler struct {
	get    app.GetImportJob
	list   app.ListImportJobs
	remove app.DeleteImportJob
}

func NewJobHandler(get app.GetImportJob, list app.ListImportJobs, remove app.DeleteImportJob) *JobHandler {
	return &JobHandler{get: get, list: list, remove: remove}
}

func (h *JobHandler) GetJob(c echo.Context) error {
	out, err := h.get.Execute(c.Request().Context(), app.GetImportJobInput{ID: c.Param("id")})
	if err != nil {
		return writeError(c, err, nil, "failed to get import job")
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *JobHandler) ListJobs(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "bad_request",
				Message: "limit must be a number",
			}})
		}
		limit = parsed
	}

	out, err := h.list.Execute(c.Request().Context(), app.ListImportJobsInput{
		Status: c.QueryParam("status"),
		Limit:  limit,
	})
	if err != nil {
		return writeError(c, err, nil, "failed to list import jobs")
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *JobHandler) DeleteJob(c echo.Context) error {
	if err := h.remove.Execute(c.Request().Context(), app.DeleteImportJobInput{ID: c.Param("id")}); err != nil {
		return writeError(c, err, nil, "failed to delete import job")
	}
	return c.NoContent(http.StatusNoContent)
}
