package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/edustream/auth-service/internal/domain/entity"
	repo "github.com/edustream/auth-service/internal/domain/repository"
	"github.com/edustream/auth-service/pkg/helpers"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrUserNotFound       = errors.New("user not found")
)

// TokenRevoker is the revocation-list boundary the service writes through
// on logout and the auth middleware reads on every request.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type Service struct {
	Repo      repo.UserRepository
	JWT       *helpers.JWTManager
	Hasher    *helpers.PasswordHasher
	Blacklist TokenRevoker
	Logger    *logrus.Logger
}

func NewService(r repo.UserRepository, jwt *helpers.JWTManager, hasher *helpers.PasswordHasher, blacklist TokenRevoker, logger *logrus.Logger) *Service {
	return &Service{Repo: r, JWT: jwt, Hasher: hasher, Blacklist: blacklist, Logger: logger}
}

type RegisterInput struct {
	Email     string
	Password  string
	FullName  string
	AvatarURL string
}

// Register creates an account and issues its first token. The plaintext
// password exists only on the stack here; only the hash is persisted.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		// Hashing failure is fatal to the whole operation.
		return nil, "", err
	}

	u := &entity.User{
		Email:     entity.NormalizeEmail(in.Email),
		Password:  hash,
		FullName:  in.FullName,
		AvatarURL: in.AvatarURL,
		Role:      entity.RoleUser,
		IsActive:  true,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, "", ErrEmailExists
		}
		return nil, "", err
	}

	token, _, err := s.JWT.Issue(u)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		return nil, "", err
	}

	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	return u, token, nil
}

// Login validates credentials and issues a fresh token. Unknown email and
// wrong password collapse into the same error so callers cannot test for
// account existence. The active check runs after the password check, so a
// disabled response never doubles as an existence oracle for free.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !s.Hasher.Verify(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, "", ErrAccountDisabled
	}

	token, _, err := s.JWT.Issue(u)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		return nil, "", err
	}

	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user logged in")
	return u, token, nil
}

// Logout revokes the presented token until its natural expiry. A store
// failure is surfaced: reporting success without recording the revocation
// would leave the token usable.
func (s *Service) Logout(ctx context.Context, rawToken string, claims *helpers.Claims) error {
	if err := s.Blacklist.Revoke(ctx, rawToken, claims.ExpiresAt.Time); err != nil {
		s.Logger.WithError(err).WithField("user_id", claims.Subject).Error("token revocation failed")
		return err
	}
	s.Logger.WithField("user_id", claims.Subject).Info("user logged out")
	return nil
}

// Profile loads the account behind an authenticated identity. The account
// may have been deleted after the token was issued.
func (s *Service) Profile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// SetUserStatus enables or disables an account (admin operation). A
// disabled account keeps its row; it just can no longer log in.
func (s *Service) SetUserStatus(ctx context.Context, userID string, active bool) (*entity.User, error) {
	if err := s.Repo.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "active": active}).Info("user status changed")
	return s.Profile(ctx, userID)
}
