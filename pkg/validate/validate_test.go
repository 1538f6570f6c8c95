package validate

import "testing"

func TestEmail(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"user@test.com", true},
		{"a@b.co", true},
		{"first.last+tag@sub.domain.org", true},
		{"", false},
		{"   ", false},
		{"plainaddress", false},
		{"user@", false},
		{"@test.com", false},
		{"user@nodot", false},
		{"user name@test.com", false},
		{"user@test .com", false},
	}
	for _, tc := range cases {
		got := Email(tc.email)
		if (got == "") != tc.valid {
			t.Errorf("Email(%q) = %q, want valid=%v", tc.email, got, tc.valid)
		}
	}
}

func TestLoginPassword(t *testing.T) {
	if msg := LoginPassword(""); msg == "" {
		t.Error("empty password accepted")
	}
	if msg := LoginPassword("12345"); msg == "" {
		t.Error("5-character password accepted at sign-in")
	}
	if msg := LoginPassword("secret"); msg != "" {
		t.Errorf("6-character password rejected: %q", msg)
	}
}

func TestNewPassword(t *testing.T) {
	cases := []struct {
		name                   string
		current, next, confirm string
		valid                  bool
	}{
		{"all valid", "oldpass1", "newpassword", "newpassword", true},
		{"exactly 8", "oldpass1", "12345678", "12345678", true},
		{"missing current", "", "newpassword", "newpassword", false},
		{"missing confirm", "oldpass1", "newpassword", "", false},
		{"mismatch", "oldpass1", "newpassword", "newpassw0rd", false},
		{"too short", "oldpass1", "seven77", "seven77", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewPassword(tc.current, tc.next, tc.confirm)
			if (got == "") != tc.valid {
				t.Errorf("NewPassword = %q, want valid=%v", got, tc.valid)
			}
		})
	}
}

func TestNewPasswordMismatchReportedBeforeLength(t *testing.T) {
	// A short, mismatched pair reports the mismatch first.
	got := NewPassword("oldpass1", "abc", "xyz")
	if got != "New password and confirmation do not match" {
		t.Errorf("got %q", got)
	}
}
