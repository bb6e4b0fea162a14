package prospect_test

import (
	"errors"
	"testing"

	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

func TestEncodeDecodeListCriteria(t *testing.T) {
	t.Parallel()

	criteria := domain.Criteria{List: &domain.ListCriteria{ListID: "abc123", ListType: domain.ListOrganizations}}

	encoded, err := domain.EncodeCriteria(criteria)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if encoded != "list:abc123:organizations" {
		t.Fatalf("unexpected encoding: %s", encoded)
	}

	decoded, err := domain.DecodeCriteria(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !decoded.IsList() || decoded.List.ListID != "abc123" || decoded.List.ListType != domain.ListOrganizations {
		t.Fatalf("unexpected decoded criteria: %+v", decoded.List)
	}
	if decoded.Target() != domain.TargetOrganizations {
		t.Fatalf("expected organizations target, got %s", decoded.Target())
	}
}

func TestDecodeListCriteriaWithColonInID(t *testing.T) {
	t.Parallel()

	decoded, err := domain.DecodeCriteria("list:team:emea:2024:contacts")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.List.ListID != "team:emea:2024" {
		t.Fatalf("unexpected list id: %s", decoded.List.ListID)
	}
	if decoded.List.ListType != domain.ListContacts {
		t.Fatalf("unexpected list type: %s", decoded.List.ListType)
	}
}

func TestEncodeDecodeQueryCriteriaKeepsFallback(t *testing.T) {
	t.Parallel()

	criteria := domain.Criteria{Query: &domain.QueryCriteria{
		Keywords: "fintech CFO",
		Titles:   []string{"CFO"},
		Fallback: &domain.QueryCriteria{Keywords: "fintech finance"},
	}}

	encoded, err := domain.EncodeCriteria(criteria)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := domain.DecodeCriteria(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.IsList() {
		t.Fatal("expected query criteria")
	}
	if decoded.Query.Keywords != "fintech CFO" || len(decoded.Query.Titles) != 1 {
		t.Fatalf("unexpected query: %+v", decoded.Query)
	}
	if decoded.Query.Fallback == nil || decoded.Query.Fallback.Keywords != "fintech finance" {
		t.Fatalf("fallback lost: %+v", decoded.Query.Fallback)
	}
	if decoded.Target() != domain.TargetPeople {
		t.Fatalf("expected people target, got %s", decoded.Target())
	}
}

func TestDecodeCriteriaRejectsMalformed(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"list:abc123",
		"list::contacts",
		"list:abc123:",
		"list:abc123:accounts",
		"{not json",
		"{}",
	}
	for _, raw := range inputs {
		if _, err := domain.DecodeCriteria(raw); !errors.Is(err, domain.ErrInvalidCriteria) {
			t.Fatalf("%q: expected ErrInvalidCriteria, got %v", raw, err)
		}
	}
}

func TestCriteriaValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		criteria domain.Criteria
		valid    bool
	}{
		{"empty", domain.Criteria{}, false},
		{"both", domain.Criteria{Query: &domain.QueryCriteria{Keywords: "x"}, List: &domain.ListCriteria{ListID: "a", ListType: domain.ListContacts}}, false},
		{"empty query", domain.Criteria{Query: &domain.QueryCriteria{}}, false},
		{"per page too large", domain.Criteria{Query: &domain.QueryCriteria{Keywords: "x", PerPage: 101}}, false},
		{"nested fallback", domain.Criteria{Query: &domain.QueryCriteria{Keywords: "x", Fallback: &domain.QueryCriteria{Keywords: "y", Fallback: &domain.QueryCriteria{Keywords: "z"}}}}, false},
		{"list id with space", domain.Criteria{List: &domain.ListCriteria{ListID: "a b", ListType: domain.ListContacts}}, false},
		{"query", domain.Criteria{Query: &domain.QueryCriteria{Locations: []string{"Madrid"}}}, true},
		{"list", domain.Criteria{List: &domain.ListCriteria{ListID: "abc123", ListType: domain.ListContacts}}, true},
	}

	for _, tc := range cases {
		tc := tc
		err := tc.criteria.Validate()
		if tc.valid && err != nil {
			t.Fatalf("%s: expected valid, got %v", tc.name, err)
		}
		if !tc.valid && !errors.Is(err, domain.ErrInvalidCriteria) {
			t.Fatalf("%s: expected ErrInvalidCriteria, got %v", tc.name, err)
		}
	}
}

func TestParseListType(t *testing.T) {
	t.Parallel()

	got, err := domain.ParseListType(" Organizations ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.ListOrganizations {
		t.Fatalf("unexpected list type: %s", got)
	}
	if _, err := domain.ParseListType("accounts"); !errors.Is(err, domain.ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria, got %v", err)
	}
}
