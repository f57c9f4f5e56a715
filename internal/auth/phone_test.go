package auth

import "testing"

func TestToStorageForm(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{"bare local form", "9876543210", "9876543210", true},
		{"with country code", "+919876543210", "9876543210", true},
		{"spaces and dashes", "+91 98765-43210", "9876543210", true},
		{"leading zero trunk prefix", "09876543210", "9876543210", true},
		{"too short", "987654321", "", false},
		{"empty", "", "", false},
		{"no digits", "call me", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToStorageForm(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ToStorageForm(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("ToStorageForm(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestToDisplayForm(t *testing.T) {
	if got := ToDisplayForm("9876543210"); got != "+91-9876543210" {
		t.Fatalf("ToDisplayForm() = %q, want %q", got, "+91-9876543210")
	}
	if got := ToDisplayForm(""); got != "" {
		t.Fatalf("ToDisplayForm(\"\") = %q, want empty", got)
	}
}
