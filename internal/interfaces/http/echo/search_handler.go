package echo

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/directory-import/internal/application/prospect"
	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

type searcher interface {
	Search(ctx context.Context, query domain.QueryCriteria) (app.SearchOutput, error)
	SearchFromList(ctx context.Context, in app.SearchFromListInput) (app.SearchOutput, error)
	LoadMore(ctx context.Context, jobID string) (app.SearchOutput, error)
	Results(ctx context.Context, jobID string) (app.SearchOutput, error)
}

type retrier interface {
	Retry(ctx context.Context, jobID string) (app.SearchOutput, error)
}

type SearchHandler struct {
	searches searcher
	retries  retrier
}

type searchListRequest struct {
	ListID   string `json:"list_id"`
	ListType string `json:"list_type"`
}

func NewSearchHandler(searches searcher, retries retrier) *SearchHandler {
	return &SearchHandler{searches: searches, retries: retries}
}

func (h *SearchHandler) Search(c echo.Context) error {
	var req domain.QueryCriteria
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: "invalid request body",
		}})
	}

	out, err := h.searches.Search(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err, jobData(out), "failed to run search")
	}
	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}

func (h *SearchHandler) SearchList(c echo.Context) error {
	var req searchListRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: "invalid request body",
		}})
	}

	out, err := h.searches.SearchFromList(c.Request().Context(), app.SearchFromListInput{
		ListID:   req.ListID,
		ListType: req.ListType,
	})
	if err != nil {
		return writeError(c, err, jobData(out), "failed to load list")
	}
	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}

func (h *SearchHandler) LoadMore(c echo.Context) error {
	out, err := h.searches.LoadMore(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err, jobData(out), "failed to load more results")
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *SearchHandler) Results(c echo.Context) error {
	out, err := h.searches.Results(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err, jobData(out), "failed to get results")
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *SearchHandler) Retry(c echo.Context) error {
	out, err := h.retries.Retry(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err, jobData(out), "failed to retry import job")
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
