package utils

import "testing"

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"User@Example.COM", "user@example.com"},
		{"  user@example.com \n", "user@example.com"},
		{"user@example.com", "user@example.com"},
	}

	for _, test := range tests {
		if got := SanitizeEmail(test.input); got != test.expected {
			t.Errorf("SanitizeEmail(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestCheckEmailFormat(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"", false},
		{"no-at-sign", false},
		{"user@", false},
		{"user@example", false},
		{"user@@example.com", false},
	}

	for _, test := range tests {
		if got := CheckEmailFormat(test.email); got != test.valid {
			t.Errorf("CheckEmailFormat(%q) = %v, expected %v", test.email, got, test.valid)
		}
	}
}

func TestCheckPasswordFormat(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"", false},
		{"short7!", false},
		{"exactly8", true},
		{"a-much-longer-password", true},
	}

	for _, test := range tests {
		if got := CheckPasswordFormat(test.password); got != test.valid {
			t.Errorf("CheckPasswordFormat(%q) = %v, expected %v", test.password, got, test.valid)
		}
	}
}
