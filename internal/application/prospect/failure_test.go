package prospect_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	app "github.com/mohammadpnp/directory-import/internal/application/prospect"
	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
)

func TestFailureMessagesNeverCollapse(t *testing.T) {
	t.Parallel()

	errs := []error{
		&domain.InvalidListError{ListID: "abc123", ListType: domain.ListOrganizations},
		domain.ErrNoMatches,
		&domain.RateLimitedError{StatusCode: 429},
		&domain.UpstreamError{StatusCode: 500, Message: "internal"},
		app.ErrNoActiveSession,
	}

	seen := map[string]bool{}
	for _, err := range errs {
		msg := app.FailureMessage(fmt.Errorf("wrapped: %w", err))
		if msg == "" || seen[msg] {
			t.Fatalf("message for %v is empty or repeated: %q", err, msg)
		}
		seen[msg] = true
	}
}

func TestFailureMessageTruncatesUnknownErrors(t *testing.T) {
	t.Parallel()

	msg := app.FailureMessage(errors.New(strings.Repeat("é", 1500)))
	if n := len([]rune(msg)); n != 1000 {
		t.Fatalf("expected 1000 runes, got %d", n)
	}
}
