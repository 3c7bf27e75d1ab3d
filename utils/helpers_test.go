package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if err := CheckPassword("s3cret-pass", hash); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := CheckPassword("wrong-pass", hash); err == nil {
		t.Fatalf("wrong password accepted")
	}
}

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != 16 {
		t.Fatalf("expected length 16, got %d", len(s))
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string) bool
		input string
		exp   bool
	}{
		{"role member", IsValidRole, "member", true},
		{"role unknown", IsValidRole, "owner", false},
		{"class status active", IsValidClassStatus, "active", true},
		{"class status deleted", IsValidClassStatus, "deleted", false},
		{"specialization yoga", IsValidSpecialization, "yoga", true},
		{"specialization pilates", IsValidSpecialization, "pilates", false},
		{"work shift morning", IsValidWorkShift, "morning", true},
		{"work shift night", IsValidWorkShift, "night", false},
		{"payment method momo", IsValidPaymentMethod, "momo", true},
		{"payment method cash", IsValidPaymentMethod, "cash", false},
		{"payment status success", IsValidPaymentStatus, "success", true},
		{"payment status refunded", IsValidPaymentStatus, "refunded", false},
		{"notification reminder", IsValidNotificationType, "reminder", true},
		{"notification alert", IsValidNotificationType, "alert", false},
		{"enrollment approved", IsValidEnrollmentStatus, "approved", true},
		{"enrollment waitlisted", IsValidEnrollmentStatus, "waitlisted", false},
		{"empty string", IsValidRole, "", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fn(tc.input); got != tc.exp {
				t.Fatalf("expected %v for %q, got %v", tc.exp, tc.input, got)
			}
		})
	}
}

func TestIsValidFileExtension(t *testing.T) {
	allowed := []string{"jpg", "jpeg", "png", "webp"}

	tests := []struct {
		name     string
		filename string
		exp      bool
	}{
		{"jpg", "avatar.jpg", true},
		{"uppercase extension", "avatar.PNG", true},
		{"double extension", "archive.tar.png", true},
		{"disallowed", "script.exe", false},
		{"no extension", "avatar", false},
		{"empty", "", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidFileExtension(tc.filename, allowed); got != tc.exp {
				t.Fatalf("expected %v for %q, got %v", tc.exp, tc.filename, got)
			}
		})
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello\x00world  "); got != "helloworld" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestClampPageSize(t *testing.T) {
	tests := []struct {
		name string
		in   int
		exp  int
	}{
		{"within range", 25, 25},
		{"above max", 500, MaxPageSize},
		{"exactly max", 100, 100},
		{"zero falls back to default", 0, DefaultPageSize},
		{"negative falls back to default", -3, DefaultPageSize},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampPageSize(tc.in); got != tc.exp {
				t.Fatalf("expected %d, got %d", tc.exp, got)
			}
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	p := Pagination{Page: 3, PageSize: 10}
	if got := p.Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
	p = Pagination{Page: 1, PageSize: 50}
	if got := p.Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
}
