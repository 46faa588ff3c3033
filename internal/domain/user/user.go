// Package user holds the typed user entity and its access tier.
package user

import (
	"fmt"

	"github.com/kailas-cloud/pfin/internal/domain/record"
)

// Role is one of the three access tiers, in increasing order of privilege.
type Role string

// Roles.
const (
	Guest    Role = "guest"
	Regional Role = "regional"
	National Role = "national"
)

var roleWeight = map[Role]int{
	Guest:    1,
	Regional: 2,
	National: 3,
}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is a known tier.
func (r Role) Valid() bool {
	_, ok := roleWeight[r]
	return ok
}

// Allows reports whether r grants at least the required tier.
// Unknown roles allow nothing.
func (r Role) Allows(required Role) bool {
	have, ok := roleWeight[r]
	if !ok {
		return false
	}
	return have >= roleWeight[required]
}

// User is a plain value safe to copy into a session store.
type User struct {
	MongoID        string `json:"_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	PasswordDigest string `json:"-"`
	Role           Role   `json:"group"`

	authenticated bool
	active        bool
	anonymous     bool
}

// FromRecord populates a User from a record normalized with record.UserSpec.
// The result is anonymous until Authenticated is called.
func FromRecord(rec record.Record) User {
	return User{
		MongoID:        str(rec[record.UserMongoID]),
		Name:           str(rec[record.UserName]),
		Email:          str(rec[record.UserEmail]),
		PasswordDigest: str(rec[record.UserPassword]),
		Role:           Role(str(rec[record.UserGroup])),
		anonymous:      true,
	}
}

// Authenticated returns a copy marked as logged in.
func (u User) Authenticated() User {
	u.authenticated = true
	u.active = true
	u.anonymous = false
	return u
}

// IsAuthenticated reports whether the credentials were verified.
func (u User) IsAuthenticated() bool { return u.authenticated }

// IsActive reports whether the account may use the portal.
func (u User) IsActive() bool { return u.active }

// IsAnonymous reports whether this value stands for no verified identity.
func (u User) IsAnonymous() bool { return u.anonymous }

// GetID returns the identity key, which is the email address.
func (u User) GetID() string { return u.Email }

func str(v any) string {
	s, _ := v.(string)
	return s
}
