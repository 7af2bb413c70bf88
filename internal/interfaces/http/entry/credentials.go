package entry

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Credentials is the single configured login pair. The password may be a
// bcrypt hash (recognized by its prefix) or, for local setups, plain text.
type Credentials struct {
	Username string
	Password string
}

// Verify checks a submitted pair. It deliberately reports only a single
// boolean so callers cannot leak which of the two fields was wrong.
func (c Credentials) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(c.Username)) == 1

	passOK := false
	if strings.HasPrefix(c.Password, "$2a$") || strings.HasPrefix(c.Password, "$2b$") || strings.HasPrefix(c.Password, "$2y$") {
		passOK = bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	}

	return userOK && passOK
}
