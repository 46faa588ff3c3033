// Package auth verifies email and password pairs against stored digests.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pfin/internal/domain"
	domuser "github.com/kailas-cloud/pfin/internal/domain/user"
	"github.com/kailas-cloud/pfin/internal/logger"
	"github.com/kailas-cloud/pfin/internal/metrics"
)

// Login outcomes, used as metric labels.
const (
	OutcomeSuccess     = "success"
	OutcomeUnknownUser = "unknown_user"
	OutcomeBadPassword = "bad_password"
	OutcomeError       = "error"
)

// Hash returns the hex SHA-256 digest of salt followed by password.
func Hash(password string, salt []byte) string {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil))
}

// Service checks credentials.
type Service struct {
	users UserReader
	salt  []byte
}

// New creates an auth service. The salt is copied.
func New(users UserReader, salt []byte) *Service {
	return &Service{users: users, salt: append([]byte(nil), salt...)}
}

// Authenticate returns the authenticated user for a matching email and
// password. Both rejection reasons wrap domain.ErrAuthRejected.
// The digest comparison is not constant time.
func (s *Service) Authenticate(ctx context.Context, email, password string) (domuser.User, error) {
	log := logger.FromContext(ctx)

	u, found, err := s.users.LookupOne(ctx, email)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(OutcomeError).Inc()
		return domuser.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !found {
		metrics.LoginAttemptsTotal.WithLabelValues(OutcomeUnknownUser).Inc()
		log.Info("auth: unknown user")
		return domuser.User{}, domain.ErrUserNotFound
	}

	if Hash(password, s.salt) != u.PasswordDigest {
		metrics.LoginAttemptsTotal.WithLabelValues(OutcomeBadPassword).Inc()
		log.Info("auth: password mismatch", zap.String("user_id", u.MongoID))
		return domuser.User{}, domain.ErrInvalidCredentials
	}

	metrics.LoginAttemptsTotal.WithLabelValues(OutcomeSuccess).Inc()
	return u.Authenticated(), nil
}
