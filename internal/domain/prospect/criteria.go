package prospect

import (
	"encoding/json"
	"fmt"
	"strings"
)

const listSentinelPrefix = "list:"

const maxPerPage = 100

type ListType string

const (
	ListContacts      ListType = "contacts"
	ListOrganizations ListType = "organizations"
)

func ParseListType(raw string) (ListType, error) {
	switch ListType(strings.ToLower(strings.TrimSpace(raw))) {
	case ListContacts:
		return ListContacts, nil
	case ListOrganizations:
		return ListOrganizations, nil
	}
	return "", fmt.Errorf("%w: unknown list type %q", ErrInvalidCriteria, raw)
}

func (t ListType) Target() TargetType {
	if t == ListOrganizations {
		return TargetOrganizations
	}
	return TargetPeople
}

type QueryCriteria struct {
	Keywords            string         `json:"q_keywords,omitempty"`
	Titles              []string       `json:"person_titles,omitempty"`
	Locations           []string       `json:"person_locations,omitempty"`
	Seniorities         []string       `json:"person_seniorities,omitempty"`
	OrganizationDomains []string       `json:"q_organization_domains,omitempty"`
	EmployeeRanges      []string       `json:"organization_num_employees_ranges,omitempty"`
	PerPage             int            `json:"per_page,omitempty"`
	Fallback            *QueryCriteria `json:"fallback,omitempty"`
}

func (q QueryCriteria) IsEmpty() bool {
	return strings.TrimSpace(q.Keywords) == "" &&
		len(q.Titles) == 0 &&
		len(q.Locations) == 0 &&
		len(q.Seniorities) == 0 &&
		len(q.OrganizationDomains) == 0 &&
		len(q.EmployeeRanges) == 0
}

func (q QueryCriteria) Validate() error {
	if q.IsEmpty() {
		return fmt.Errorf("%w: at least one filter is required", ErrInvalidCriteria)
	}
	if q.PerPage < 0 || q.PerPage > maxPerPage {
		return fmt.Errorf("%w: per_page must be between 1 and %d", ErrInvalidCriteria, maxPerPage)
	}
	if q.Fallback != nil {
		if q.Fallback.Fallback != nil {
			return fmt.Errorf("%w: fallback queries cannot be nested", ErrInvalidCriteria)
		}
		if err := q.Fallback.Validate(); err != nil {
			return fmt.Errorf("fallback: %w", err)
		}
	}
	return nil
}

type ListCriteria struct {
	ListID   string
	ListType ListType
}

func (l ListCriteria) Validate() error {
	id := strings.TrimSpace(l.ListID)
	if id == "" || strings.ContainsAny(id, " \t\r\n") {
		return fmt.Errorf("%w: list id is required and cannot contain spaces", ErrInvalidCriteria)
	}
	if _, err := ParseListType(string(l.ListType)); err != nil {
		return err
	}
	return nil
}

// Criteria is the immutable search definition of a job. Exactly one of Query or
// List is set.
type Criteria struct {
	Query *QueryCriteria
	List  *ListCriteria
}

func (c Criteria) IsList() bool {
	return c.List != nil
}

func (c Criteria) Target() TargetType {
	if c.List != nil {
		return c.List.ListType.Target()
	}
	return TargetPeople
}

func (c Criteria) Validate() error {
	switch {
	case c.Query != nil && c.List != nil:
		return fmt.Errorf("%w: query and list criteria are mutually exclusive", ErrInvalidCriteria)
	case c.Query != nil:
		return c.Query.Validate()
	case c.List != nil:
		return c.List.Validate()
	}
	return fmt.Errorf("%w: criteria is empty", ErrInvalidCriteria)
}

// EncodeCriteria renders list criteria as the list:<id>:<type> sentinel and query
// criteria as JSON.
func EncodeCriteria(c Criteria) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if c.List != nil {
		return listSentinelPrefix + strings.TrimSpace(c.List.ListID) + ":" + string(c.List.ListType), nil
	}
	raw, err := json.Marshal(c.Query)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCriteria, err)
	}
	return string(raw), nil
}

func DecodeCriteria(raw string) (Criteria, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, listSentinelPrefix) {
		rest := strings.TrimPrefix(raw, listSentinelPrefix)
		// the type is always the last segment; ids may contain ':'
		sep := strings.LastIndex(rest, ":")
		if sep <= 0 || sep == len(rest)-1 {
			return Criteria{}, fmt.Errorf("%w: malformed list sentinel %q", ErrInvalidCriteria, raw)
		}
		listType, err := ParseListType(rest[sep+1:])
		if err != nil {
			return Criteria{}, err
		}
		c := Criteria{List: &ListCriteria{ListID: rest[:sep], ListType: listType}}
		return c, c.Validate()
	}

	var q QueryCriteria
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return Criteria{}, fmt.Errorf("%w: %v", ErrInvalidCriteria, err)
	}
	c := Criteria{Query: &q}
	return c, c.Validate()
}
