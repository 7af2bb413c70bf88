package entry

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestVerifyPlainPassword(t *testing.T) {
	creds := Credentials{Username: "admin", Password: "rahasia"}

	cases := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"exact match", "admin", "rahasia", true},
		{"username trimmed", "  admin  ", "rahasia", true},
		{"wrong password", "admin", "salah", false},
		{"wrong username", "tamu", "rahasia", false},
		{"both wrong", "tamu", "salah", false},
		{"empty pair", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := creds.Verify(tc.username, tc.password); got != tc.want {
				t.Errorf("Verify(%q, %q) = %v, want %v", tc.username, tc.password, got, tc.want)
			}
		})
	}
}

func TestVerifyBcryptPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	creds := Credentials{Username: "admin", Password: string(hash)}

	if !creds.Verify("admin", "rahasia") {
		t.Error("correct password rejected against bcrypt hash")
	}
	if creds.Verify("admin", "salah") {
		t.Error("wrong password accepted against bcrypt hash")
	}
	// The raw hash string itself must not work as the password.
	if creds.Verify("admin", string(hash)) {
		t.Error("hash accepted as plain password")
	}
}
