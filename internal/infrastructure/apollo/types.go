package apollo

import (
	"strings"

	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

// masked emails look like email_not_unlocked@domain.com until enrichment reveals them
const lockedEmailPrefix = "email_not_unlocked@"

type pagination struct {
	Page         int   `json:"page"`
	PerPage      int   `json:"per_page"`
	TotalEntries int64 `json:"total_entries"`
	TotalPages   int   `json:"total_pages"`
}

func (p pagination) toDomain(requestedPage, perPage int) domain.Pagination {
	out := domain.Pagination{
		Page:         p.Page,
		PerPage:      p.PerPage,
		TotalEntries: p.TotalEntries,
		TotalPages:   p.TotalPages,
	}
	if out.Page <= 0 {
		out.Page = requestedPage
	}
	if out.PerPage <= 0 {
		out.PerPage = perPage
	}
	if out.TotalPages <= 0 && out.PerPage > 0 {
		out.TotalPages = int((out.TotalEntries + int64(out.PerPage) - 1) / int64(out.PerPage))
	}
	return out
}

type phoneNumber struct {
	RawNumber       string `json:"raw_number"`
	SanitizedNumber string `json:"sanitized_number"`
}

type organization struct {
	ID                    string `json:"id"`
	OrganizationID        string `json:"organization_id"`
	Name                  string `json:"name"`
	PrimaryDomain         string `json:"primary_domain"`
	Domain                string `json:"domain"`
	WebsiteURL            string `json:"website_url"`
	LinkedInURL           string `json:"linkedin_url"`
	Industry              string `json:"industry"`
	EstimatedNumEmployees int    `json:"estimated_num_employees"`
	Phone                 string `json:"phone"`
	City                  string `json:"city"`
	State                 string `json:"state"`
	Country               string `json:"country"`
	OrganizationCity      string `json:"organization_city"`
	OrganizationState     string `json:"organization_state"`
	OrganizationCountry   string `json:"organization_country"`
	FoundedYear           int    `json:"founded_year"`
	PrimaryPhone          struct {
		Number string `json:"number"`
	} `json:"primary_phone"`
}

func (o organization) domainName() string {
	return strings.ToLower(firstNonEmpty(o.PrimaryDomain, o.Domain))
}

// toDomain prefers organization_id so accounts from saved lists share identity
// with organizations found by search.
func (o organization) toDomain() domain.Organization {
	return domain.Organization{
		ID:            firstNonEmpty(o.OrganizationID, o.ID),
		Name:          strings.TrimSpace(o.Name),
		Domain:        o.domainName(),
		WebsiteURL:    o.WebsiteURL,
		LinkedInURL:   o.LinkedInURL,
		Industry:      o.Industry,
		EmployeeCount: o.EstimatedNumEmployees,
		Phone:         firstNonEmpty(o.Phone, o.PrimaryPhone.Number),
		City:          firstNonEmpty(o.City, o.OrganizationCity),
		State:         firstNonEmpty(o.State, o.OrganizationState),
		Country:       firstNonEmpty(o.Country, o.OrganizationCountry),
		FoundedYear:   o.FoundedYear,
	}
}

type person struct {
	ID               string        `json:"id"`
	PersonID         string        `json:"person_id"`
	FirstName        string        `json:"first_name"`
	LastName         string        `json:"last_name"`
	Name             string        `json:"name"`
	Title            string        `json:"title"`
	Seniority        string        `json:"seniority"`
	Email            string        `json:"email"`
	EmailStatus      string        `json:"email_status"`
	LinkedInURL      string        `json:"linkedin_url"`
	City             string        `json:"city"`
	State            string        `json:"state"`
	Country          string        `json:"country"`
	OrganizationID   string        `json:"organization_id"`
	OrganizationName string        `json:"organization_name"`
	Organization     *organization `json:"organization"`
	Account          *organization `json:"account"`
	PhoneNumbers     []phoneNumber `json:"phone_numbers"`
	SanitizedPhone   string        `json:"sanitized_phone"`
	ContactScore     *float64      `json:"contact_score"`
}

// toDomain prefers person_id so contacts from saved lists share identity with
// people found by search.
func (p person) toDomain() domain.Person {
	out := domain.Person{
		ID:               firstNonEmpty(p.PersonID, p.ID),
		FirstName:        strings.TrimSpace(p.FirstName),
		LastName:         strings.TrimSpace(p.LastName),
		Name:             strings.TrimSpace(p.Name),
		Title:            p.Title,
		Seniority:        p.Seniority,
		Email:            unmaskEmail(p.Email),
		EmailStatus:      p.EmailStatus,
		LinkedInURL:      p.LinkedInURL,
		City:             p.City,
		State:            p.State,
		Country:          p.Country,
		OrganizationID:   p.OrganizationID,
		OrganizationName: p.OrganizationName,
		Phone:            p.SanitizedPhone,
		ContactScore:     p.ContactScore,
	}

	org := p.Organization
	if org == nil {
		org = p.Account
	}
	if org != nil {
		mapped := org.toDomain()
		out.OrganizationID = firstNonEmpty(out.OrganizationID, mapped.ID)
		out.OrganizationName = firstNonEmpty(out.OrganizationName, mapped.Name)
		out.OrganizationDomain = mapped.Domain
	}

	if out.Phone == "" {
		for _, phone := range p.PhoneNumbers {
			if number := firstNonEmpty(phone.SanitizedNumber, phone.RawNumber); number != "" {
				out.Phone = number
				break
			}
		}
	}

	return out
}

func unmaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if strings.HasPrefix(strings.ToLower(email), lockedEmailPrefix) {
		return ""
	}
	return email
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
