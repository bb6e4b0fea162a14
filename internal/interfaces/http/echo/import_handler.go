package echo

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/directory-import/internal/application/prospect"
)

type importStarter interface {
	Start(ctx context.Context, req app.ImportRequest) (app.JobOutput, error)
	Cancel(jobID string) bool
}

type ImportHandler struct {
	importer importStarter
}

type importRecordsRequest struct {
	RecordIDs []string `json:"record_ids"`
	Enrich    bool     `json:"enrich"`
	SessionID string   `json:"session_id"`
}

func NewImportHandler(importer importStarter) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// Import starts the batch import and answers before the first batch runs; the job
// resource reports progress.
func (h *ImportHandler) Import(c echo.Context) error {
	var req importRecordsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: "invalid request body",
		}})
	}

	out, err := h.importer.Start(c.Request().Context(), app.ImportRequest{
		JobID:     c.Param("id"),
		RecordIDs: req.RecordIDs,
		Enrich:    req.Enrich,
		SessionID: req.SessionID,
	})
	if err != nil {
		return writeError(c, err, nil, "failed to start import")
	}

	return c.JSON(http.StatusAccepted, apiResponse{Data: out})
}

func (h *ImportHandler) Cancel(c echo.Context) error {
	if !h.importer.Cancel(c.Param("id")) {
		return c.JSON(http.StatusConflict, apiResponse{Error: &errorBody{
			Code:    "illegal_transition",
			Message: "no import is running for this job",
		}})
	}
	return c.JSON(http.StatusAccepted, apiResponse{Data: map[string]string{"status": "cancelling"}})
}
