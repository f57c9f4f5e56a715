package auth

import "testing"

func TestHasSession(t *testing.T) {
	if HasSession("") {
		t.Fatal("HasSession(\"\") = true, want false")
	}
	if !HasSession("anything-nonempty") {
		t.Fatal("HasSession(\"anything-nonempty\") = false, want true")
	}
	// Garbage passes the edge check on purpose; the full validator catches it.
	if !HasSession("not|a|real|token") {
		t.Fatal("HasSession(garbage) = false, want true")
	}
}

func TestGateDecide(t *testing.T) {
	gate := NewGate("/sign-in")

	tests := []struct {
		name       string
		path       string
		cookie     string
		wantAllow  bool
		wantTarget string
	}{
		{
			name:      "public path outside protected areas",
			path:      "/",
			wantAllow: true,
		},
		{
			name:      "marketing page bypasses gate",
			path:      "/loans/personal",
			wantAllow: true,
		},
		{
			name:       "protected path without cookie redirects",
			path:       "/dashboard/profile",
			wantTarget: "/sign-in?next_route=%2Fdashboard%2Fprofile",
		},
		{
			name:      "protected path with cookie passes",
			path:      "/dashboard/profile",
			cookie:    "garbage-but-nonempty",
			wantAllow: true,
		},
		{
			name:       "protected prefix root",
			path:       "/account",
			wantTarget: "/sign-in?next_route=%2Faccount",
		},
		{
			name:      "prefix must match at segment boundary",
			path:      "/accounting-faq",
			wantAllow: true,
		},
		{
			name:      "admin sign-in is always public",
			path:      "/admin/sign-in",
			wantAllow: true,
		},
		{
			name:      "admin login api is always public",
			path:      "/api/admin/login",
			wantAllow: true,
		},
		{
			name:       "admin area without cookie redirects",
			path:       "/admin/applications",
			wantTarget: "/sign-in?next_route=%2Fadmin%2Fapplications",
		},
		{
			name:       "apply area without cookie redirects",
			path:       "/apply/personal-loan",
			wantTarget: "/sign-in?next_route=%2Fapply%2Fpersonal-loan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := gate.Decide(tt.path, tt.cookie)
			if decision.Allow != tt.wantAllow {
				t.Fatalf("Decide(%q) allow = %v, want %v", tt.path, decision.Allow, tt.wantAllow)
			}
			if decision.RedirectTo != tt.wantTarget {
				t.Fatalf("Decide(%q) redirect = %q, want %q", tt.path, decision.RedirectTo, tt.wantTarget)
			}
		})
	}
}
