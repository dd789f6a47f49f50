package server

import (
	"net/http/httptest"
	"testing"

	"github.com/gravitas-games/hexfield/pkg/models"
)

func TestExtractTokenFromHeader(t *testing.T) {
	// Sec-WebSocket-Protocol carries the token as the second protocol.
	r := httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Sec-WebSocket-Protocol", "access_token, tok-123")
	if got := extractTokenFromHeader(r); got != "tok-123" {
		t.Fatalf("protocol header token = %q", got)
	}

	// Authorization: Bearer fallback.
	r = httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Authorization", "Bearer tok-456")
	if got := extractTokenFromHeader(r); got != "tok-456" {
		t.Fatalf("bearer token = %q", got)
	}

	// Query parameter fallback.
	r = httptest.NewRequest("GET", "/ws?token=tok-789", nil)
	if got := extractTokenFromHeader(r); got != "tok-789" {
		t.Fatalf("query token = %q", got)
	}

	// Nothing present.
	r = httptest.NewRequest("GET", "/ws", nil)
	if got := extractTokenFromHeader(r); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}

func TestParseProtocols(t *testing.T) {
	got := parseProtocols(" access_token ,  tok-123 ")
	if len(got) != 2 || got[0] != "access_token" || got[1] != "tok-123" {
		t.Fatalf("parseProtocols = %v", got)
	}
}

func TestTeamFromClaims(t *testing.T) {
	// An explicit team claim wins.
	c := &Claims{UserID: 7, Team: "blue"}
	if got := teamFromClaims(c); got != models.StatusTeamBlue {
		t.Fatalf("explicit team claim resolved to %v", got)
	}

	// A non-team status in the claim falls back to the derived team.
	c = &Claims{UserID: 7, Team: "contested"}
	if got := teamFromClaims(c); got != models.TeamForCell(models.CellID(7)) {
		t.Fatalf("non-team claim resolved to %v", got)
	}

	// No claim: derived from the user id, stable across calls.
	c = &Claims{UserID: 99}
	first := teamFromClaims(c)
	if first != models.TeamForCell(models.CellID(99)) {
		t.Fatalf("fallback team = %v", first)
	}
	if again := teamFromClaims(c); again != first {
		t.Fatalf("fallback team changed between calls: %v then %v", first, again)
	}

	// Garbage claim: same fallback.
	c = &Claims{UserID: 99, Team: "purple"}
	if got := teamFromClaims(c); got != first {
		t.Fatalf("garbage claim resolved to %v, want fallback %v", got, first)
	}
}
