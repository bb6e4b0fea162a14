package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

// PersonTarget stores imported people. A record whose apollo id or email already
// exists is left untouched and reported as a duplicate.
type PersonTarget struct {
	pool *pgxpool.Pool
}

func NewPersonTarget(pool *pgxpool.Pool) *PersonTarget {
	return &PersonTarget{pool: pool}
}

func (t *PersonTarget) Type() domain.TargetType {
	return domain.TargetPeople
}

func (t *PersonTarget) Persist(ctx context.Context, record domain.Record) (domain.PersistOutcome, error) {
	p, ok := record.(domain.Person)
	if !ok {
		return "", fmt.Errorf("%w: %s record sent to people target", domain.ErrMixedTargets, record.Target())
	}

	var id string
	err := t.pool.QueryRow(ctx, `
INSERT INTO people (
  apollo_id, first_name, last_name, full_name, title, seniority, email, email_status,
  phone, linkedin_url, city, state, country,
  organization_apollo_id, organization_name, organization_domain, contact_score,
  created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
ON CONFLICT DO NOTHING
RETURNING id
`,
		p.ID, p.FirstName, p.LastName, p.DisplayName(), p.Title, p.Seniority,
		nullableText(strings.ToLower(p.Email)), p.EmailStatus,
		p.Phone, p.LinkedInURL, p.City, p.State, p.Country,
		p.OrganizationID, p.OrganizationName, p.OrganizationDomain, p.ContactScore,
	).Scan(&id)

	return outcome(err, "insert person")
}

// OrganizationTarget stores imported organizations, deduplicated by apollo id and
// domain.
type OrganizationTarget struct {
	pool *pgxpool.Pool
}

func NewOrganizationTarget(pool *pgxpool.Pool) *OrganizationTarget {
	return &OrganizationTarget{pool: pool}
}

func (t *OrganizationTarget) Type() domain.TargetType {
	return domain.TargetOrganizations
}

func (t *OrganizationTarget) Persist(ctx context.Context, record domain.Record) (domain.PersistOutcome, error) {
	o, ok := record.(domain.Organization)
	if !ok {
		return "", fmt.Errorf("%w: %s record sent to organizations target", domain.ErrMixedTargets, record.Target())
	}

	var id string
	err := t.pool.QueryRow(ctx, `
INSERT INTO organizations (
  apollo_id, name, domain, website_url, linkedin_url, industry, employee_count,
  phone, city, state, country, founded_year, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
ON CONFLICT DO NOTHING
RETURNING id
`,
		o.ID, strings.TrimSpace(o.Name), nullableText(strings.ToLower(o.Domain)),
		o.WebsiteURL, o.LinkedInURL, o.Industry, o.EmployeeCount,
		o.Phone, o.City, o.State, o.Country, o.FoundedYear,
	).Scan(&id)

	return outcome(err, "insert organization")
}

func outcome(err error, op string) (domain.PersistOutcome, error) {
	switch {
	case err == nil:
		return domain.OutcomeInserted, nil
	case errors.Is(err, pgx.ErrNoRows):
		return domain.OutcomeDuplicate, nil
	default:
		return "", fmt.Errorf("%s: %w", op, err)
	}
}

func nullableText(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
