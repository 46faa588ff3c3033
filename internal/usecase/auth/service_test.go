package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/pfin/internal/domain"
	domuser "github.com/kailas-cloud/pfin/internal/domain/user"
	"github.com/kailas-cloud/pfin/internal/metrics"
)

// --- Mocks ---

type mockUsers struct {
	users map[string]domuser.User
	err   error
}

func (m *mockUsers) LookupOne(_ context.Context, email string) (domuser.User, bool, error) {
	if m.err != nil {
		return domuser.User{}, false, m.err
	}
	u, ok := m.users[email]
	return u, ok, nil
}

var testSalt = []byte("pepper")

func newTestService() *Service {
	return New(&mockUsers{users: map[string]domuser.User{
		"ana@example.com": {
			MongoID:        "u1",
			Name:           "Ana",
			Email:          "ana@example.com",
			PasswordDigest: Hash("s3cret", testSalt),
			Role:           domuser.Regional,
		},
	}}, testSalt)
}

// --- Tests ---

func TestHash(t *testing.T) {
	// sha256("pepper" + "s3cret") is stable across runs.
	a := Hash("s3cret", testSalt)
	if a != Hash("s3cret", testSalt) {
		t.Fatal("hash must be deterministic")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a == Hash("s3cret", []byte("other")) {
		t.Error("salt must change the digest")
	}
	if a == Hash("s3cret!", testSalt) {
		t.Error("password must change the digest")
	}
	// Empty input still hashes: sha256("") is a known value.
	if got := Hash("", nil); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("unexpected empty digest %s", got)
	}
}

func TestAuthenticate_Success(t *testing.T) {
	before := testutil.ToFloat64(metrics.LoginAttemptsTotal.WithLabelValues(OutcomeSuccess))

	u, err := newTestService().Authenticate(context.Background(), "ana@example.com", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !u.IsAuthenticated() || !u.IsActive() || u.IsAnonymous() {
		t.Errorf("expected authenticated active user, got %+v", u)
	}
	if u.Role != domuser.Regional || u.GetID() != "ana@example.com" {
		t.Errorf("unexpected user %+v", u)
	}
	if got := testutil.ToFloat64(metrics.LoginAttemptsTotal.WithLabelValues(OutcomeSuccess)); got != before+1 {
		t.Errorf("success counter = %f, want %f", got, before+1)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"unknown user", "bob@example.com", "s3cret", domain.ErrUserNotFound},
		{"wrong password", "ana@example.com", "guess", domain.ErrInvalidCredentials},
		{"empty password", "ana@example.com", "", domain.ErrInvalidCredentials},
		{"email is case sensitive", "ANA@example.com", "s3cret", domain.ErrUserNotFound},
	}

	svc := newTestService()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, err := svc.Authenticate(context.Background(), tc.email, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if !errors.Is(err, domain.ErrAuthRejected) {
				t.Errorf("expected error to wrap ErrAuthRejected, got %v", err)
			}
			if u.IsAuthenticated() {
				t.Error("rejected login must not yield an authenticated user")
			}
		})
	}
}

func TestAuthenticate_StoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := New(&mockUsers{err: storeErr}, testSalt)

	_, err := svc.Authenticate(context.Background(), "ana@example.com", "s3cret")
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if errors.Is(err, domain.ErrAuthRejected) {
		t.Error("store failures must not look like rejections")
	}
}

func TestNew_CopiesSalt(t *testing.T) {
	salt := []byte("pepper")
	svc := New(&mockUsers{users: map[string]domuser.User{
		"a@b.c": {Email: "a@b.c", PasswordDigest: Hash("pw", []byte("pepper"))},
	}}, salt)
	salt[0] = 'X'

	if _, err := svc.Authenticate(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("mutating caller salt must not affect service: %v", err)
	}
}
