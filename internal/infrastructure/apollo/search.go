package apollo

import (
	"context"
	"net/http"

	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
	"go.uber.org/zap"
)

const defaultPerPage = 25

type peopleSearchRequest struct {
	Keywords       string   `json:"q_keywords,omitempty"`
	Titles         []string `json:"person_titles,omitempty"`
	Locations      []string `json:"person_locations,omitempty"`
	Seniorities    []string `json:"person_seniorities,omitempty"`
	Domains        []string `json:"q_organization_domains_list,omitempty"`
	EmployeeRanges []string `json:"organization_num_employees_ranges,omitempty"`
	Page           int      `json:"page"`
	PerPage        int      `json:"per_page"`
}

type peopleSearchResponse struct {
	People     []person   `json:"people"`
	Contacts   []person   `json:"contacts"`
	Pagination pagination `json:"pagination"`
}

type listSearchRequest struct {
	LabelIDs []string `json:"label_ids"`
	Page     int      `json:"page"`
	PerPage  int      `json:"per_page"`
}

type accountSearchResponse struct {
	Accounts   []organization `json:"accounts"`
	Pagination pagination     `json:"pagination"`
}

type label struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Modality string `json:"modality"`
}

// Search runs a people query. Search pages never consume credits.
func (c *Client) Search(ctx context.Context, query domain.QueryCriteria, page int) (domain.SearchPage, error) {
	perPage := query.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	var res peopleSearchResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/mixed_people/search", peopleSearchRequest{
		Keywords:       query.Keywords,
		Titles:         query.Titles,
		Locations:      query.Locations,
		Seniorities:    query.Seniorities,
		Domains:        query.OrganizationDomains,
		EmployeeRanges: query.EmployeeRanges,
		Page:           page,
		PerPage:        perPage,
	}, &res)
	if err != nil {
		return domain.SearchPage{}, classify(err, false, "", "")
	}

	records := make([]domain.Record, 0, len(res.Contacts)+len(res.People))
	for _, p := range res.Contacts {
		records = append(records, p.toDomain())
	}
	for _, p := range res.People {
		records = append(records, p.toDomain())
	}

	c.logger.Debug("people search page",
		zap.Int("page", page),
		zap.Int("records", len(records)),
		zap.Int64("total_entries", res.Pagination.TotalEntries),
	)

	return domain.SearchPage{
		Records:    records,
		Pagination: res.Pagination.toDomain(page, perPage),
	}, nil
}

// SearchByList pages through a saved list. The list type picks the endpoint and
// the record shape; the list name is looked up on the first page only.
func (c *Client) SearchByList(ctx context.Context, listID string, listType domain.ListType, page int) (domain.SearchPage, error) {
	req := listSearchRequest{LabelIDs: []string{listID}, Page: page, PerPage: defaultPerPage}

	var out domain.SearchPage
	switch listType {
	case domain.ListContacts:
		var res peopleSearchResponse
		if err := c.do(ctx, http.MethodPost, "/api/v1/contacts/search", req, &res); err != nil {
			return domain.SearchPage{}, classify(err, true, listID, listType)
		}
		for _, p := range res.Contacts {
			out.Records = append(out.Records, p.toDomain())
		}
		out.Pagination = res.Pagination.toDomain(page, defaultPerPage)
	case domain.ListOrganizations:
		var res accountSearchResponse
		if err := c.do(ctx, http.MethodPost, "/api/v1/accounts/search", req, &res); err != nil {
			return domain.SearchPage{}, classify(err, true, listID, listType)
		}
		for _, o := range res.Accounts {
			out.Records = append(out.Records, o.toDomain())
		}
		out.Pagination = res.Pagination.toDomain(page, defaultPerPage)
	default:
		return domain.SearchPage{}, &domain.InvalidListError{ListID: listID, ListType: listType, Reason: "unsupported list type"}
	}

	if page == 1 && len(out.Records) > 0 {
		out.ListName = c.listName(ctx, listID)
	}

	return out, nil
}

// listName is best effort: a failed lookup leaves the name empty.
func (c *Client) listName(ctx context.Context, listID string) string {
	var labels []label
	if err := c.do(ctx, http.MethodGet, "/api/v1/labels", nil, &labels); err != nil {
		c.logger.Debug("list name lookup failed", zap.String("list_id", listID), zap.Error(err))
		return ""
	}
	for _, l := range labels {
		if l.ID == listID {
			return l.Name
		}
	}
	return ""
}
