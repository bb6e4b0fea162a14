package echo

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/directory-import/internal/application/prospect"
)

type RecordHandler struct {
	list app.ListImportedRecords
}

func NewRecordHandler(list app.ListImportedRecords) *RecordHandler {
	return &RecordHandler{list: list}
}

// ListRecords serves GET /api/v1/prospects/:target where target is people or organizations.
func (h *RecordHandler) ListRecords(c echo.Context) error {
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

	out, err := h.list.Execute(c.Request().Context(), app.ListImportedRecordsInput{
		Target: c.Param("target"),
		Limit:  limit,
	})
	if err != nil {
		return writeError(c, err, nil, "failed to list imported records")
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
