package prospect

import (
	"fmt"
	"net/mail"
	"strings"
)

type TargetType string

const (
	TargetPeople        TargetType = "people"
	TargetOrganizations TargetType = "organizations"
)

// Record is one directory result held in a result buffer until it is imported.
type Record interface {
	ExternalID() string
	Target() TargetType
	Validate() error
}

type Person struct {
	ID                 string
	FirstName          string
	LastName           string
	Name               string
	Title              string
	Seniority          string
	Email              string
	EmailStatus        string
	Phone              string
	LinkedInURL        string
	City               string
	State              string
	Country            string
	OrganizationID     string
	OrganizationName   string
	OrganizationDomain string
	ContactScore       *float64
}

func (p Person) ExternalID() string { return p.ID }

func (p Person) Target() TargetType { return TargetPeople }

func (p Person) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p Person) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: person without directory id", ErrInvalidRecord)
	}
	if p.DisplayName() == "" {
		return fmt.Errorf("%w: person %s has no name", ErrInvalidRecord, p.ID)
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return ErrInvalidEmail
		}
	}
	return nil
}

type Organization struct {
	ID            string
	Name          string
	Domain        string
	WebsiteURL    string
	LinkedInURL   string
	Industry      string
	EmployeeCount int
	Phone         string
	City          string
	State         string
	Country       string
	FoundedYear   int
}

func (o Organization) ExternalID() string { return o.ID }

func (o Organization) Target() TargetType { return TargetOrganizations }

func (o Organization) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("%w: organization without directory id", ErrInvalidRecord)
	}
	if strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("%w: organization %s has no name", ErrInvalidRecord, o.ID)
	}
	return nil
}

type Pagination struct {
	Page         int
	PerPage      int
	TotalEntries int64
	TotalPages   int
}

func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

// SearchPage is one page returned by the directory. Searches never consume
// credits, only enrichment does.
type SearchPage struct {
	Records    []Record
	Pagination Pagination
	ListName   string
}

// EnrichResult reports whether the call was billed and how many credits it used.
// No request is sent when no record can be matched, and then Billable is false.
type EnrichResult struct {
	Records     map[string]Record
	Billable    bool
	CreditsUsed int
}
