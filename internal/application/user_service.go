package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-users-api/internal/domain/entity"
	repo "github.com/oksasatya/go-users-api/internal/domain/repository"
	"github.com/oksasatya/go-users-api/pkg/helpers"
)

var (
	// ErrInvalidCredentials covers both "no such user" and "wrong
	// password" so a caller cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrInactiveUser is returned when credentials are correct but the
	// account has been deactivated.
	ErrInactiveUser = errors.New("inactive user")
)

// Service orchestrates the hasher, the token issuer and the user store.
// It holds no state of its own and passes repository errors through
// untranslated; only the HTTP layer maps them to status codes.
type Service struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewService(repo repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *Service {
	return &Service{
		Repo:   repo,
		JWT:    jwt,
		Logger: logger,
	}
}

// RegisterInput carries the fields accepted at registration. The
// plaintext password never travels past this layer.
type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	IsActive    bool
	IsSuperuser bool
}

// Token is a freshly issued bearer credential.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Register hashes the password and creates the user. A uniqueness
// collision on email or username surfaces as repository.ErrDuplicate.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		IsActive:     in.IsActive,
		IsSuperuser:  in.IsSuperuser,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	return u, nil
}

// Authenticate validates email/password and returns the user without
// issuing a token. Unknown email and wrong password are indistinguishable.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and issues an access token for the user's email.
// Deactivated accounts are rejected distinctly after the credential check.
func (s *Service) Login(ctx context.Context, email, password string) (*Token, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInactiveUser
	}
	access, exp, err := s.JWT.GenerateAccessToken(u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return nil, err
	}
	return &Token{AccessToken: access, TokenType: "bearer", ExpiresAt: exp}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.Repo.GetByEmail(ctx, email)
}

func (s *Service) ListUsers(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	return s.Repo.List(ctx, offset, limit)
}

// UpdateInput carries the optional fields of a partial update. A supplied
// Password is re-hashed here so plaintext never reaches the store layer.
type UpdateInput struct {
	Email       *string
	Username    *string
	Password    *string
	IsActive    *bool
	IsSuperuser *bool
}

func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateInput) (*entity.User, error) {
	upd := repo.UserUpdate{
		Email:       in.Email,
		Username:    in.Username,
		IsActive:    in.IsActive,
		IsSuperuser: in.IsSuperuser,
	}
	if in.Password != nil {
		hash, err := helpers.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = &hash
	}
	return s.Repo.Update(ctx, id, upd)
}

func (s *Service) DeleteUser(ctx context.Context, id string) (bool, error) {
	return s.Repo.Delete(ctx, id)
}
