package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-users-api/internal/domain/entity"
	repo "github.com/oksasatya/go-users-api/internal/domain/repository"
	"github.com/oksasatya/go-users-api/pkg/helpers"
)

// memRepo is an in-memory UserRepository preserving creation order, with
// the same uniqueness and not-found semantics as the postgres
// implementation.
type memRepo struct {
	users []*entity.User
}

func (m *memRepo) Create(_ context.Context, u *entity.User) error {
	for _, e := range m.users {
		if e.Email == u.Email || e.Username == u.Username {
			return repo.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users = append(m.users, &cp)
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, e := range m.users {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, e := range m.users {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memRepo) List(_ context.Context, offset, limit int) ([]*entity.User, error) {
	if offset >= len(m.users) {
		return []*entity.User{}, nil
	}
	end := offset + limit
	if end > len(m.users) {
		end = len(m.users)
	}
	out := make([]*entity.User, 0, end-offset)
	for _, e := range m.users[offset:end] {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, id string, upd repo.UserUpdate) (*entity.User, error) {
	var target *entity.User
	for _, e := range m.users {
		if e.ID == id {
			target = e
			break
		}
	}
	if target == nil {
		return nil, repo.ErrNotFound
	}
	for _, e := range m.users {
		if e.ID == id {
			continue
		}
		if upd.Email != nil && e.Email == *upd.Email {
			return nil, repo.ErrDuplicate
		}
		if upd.Username != nil && e.Username == *upd.Username {
			return nil, repo.ErrDuplicate
		}
	}
	if upd.Email != nil {
		target.Email = *upd.Email
	}
	if upd.Username != nil {
		target.Username = *upd.Username
	}
	if upd.PasswordHash != nil {
		target.PasswordHash = *upd.PasswordHash
	}
	if upd.IsActive != nil {
		target.IsActive = *upd.IsActive
	}
	if upd.IsSuperuser != nil {
		target.IsSuperuser = *upd.IsSuperuser
	}
	target.UpdatedAt = time.Now()
	cp := *target
	return &cp, nil
}

func (m *memRepo) Delete(_ context.Context, id string) (bool, error) {
	for i, e := range m.users {
		if e.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Ping(_ context.Context) error { return nil }

func newTestService() (*Service, *memRepo) {
	r := &memRepo{}
	jwt := helpers.NewJWTManager("test-secret", time.Minute)
	return NewService(r, jwt, nil), r
}

func register(t *testing.T, s *Service, email, username, password string) *entity.User {
	t.Helper()
	u, err := s.Register(context.Background(), RegisterInput{
		Email:    email,
		Username: username,
		Password: password,
		IsActive: true,
	})
	require.NoError(t, err)
	return u
}

func TestRegisterHashesPassword(t *testing.T) {
	s, r := newTestService()

	u := register(t, s, "a@x.com", "a", "secret123")

	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	stored, err := r.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(stored.PasswordHash, "secret123"))
}

func TestRegisterSamePasswordDifferentHashes(t *testing.T) {
	s, _ := newTestService()

	u1 := register(t, s, "a@x.com", "a", "secret123")
	u2 := register(t, s, "b@x.com", "b", "secret123")

	assert.NotEqual(t, u1.PasswordHash, u2.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s, _ := newTestService()
	register(t, s, "a@x.com", "a", "secret123")

	_, err := s.Register(context.Background(), RegisterInput{
		Email: "a@x.com", Username: "other", Password: "secret123", IsActive: true,
	})
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s, _ := newTestService()
	register(t, s, "a@x.com", "a", "secret123")

	_, err := s.Register(context.Background(), RegisterInput{
		Email: "b@x.com", Username: "a", Password: "secret123", IsActive: true,
	})
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

func TestLoginSuccess(t *testing.T) {
	s, _ := newTestService()
	register(t, s, "a@x.com", "a", "secret123")

	tok, err := s.Login(context.Background(), "a@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	claims, err := s.JWT.ParseAccessToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
}

func TestLoginUnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	s, _ := newTestService()
	register(t, s, "a@x.com", "a", "secret123")

	_, errUnknown := s.Login(context.Background(), "nobody@x.com", "secret123")
	_, errWrongPwd := s.Login(context.Background(), "a@x.com", "wrongpass")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPwd, ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrongPwd)
}

func TestLoginInactiveUser(t *testing.T) {
	s, _ := newTestService()
	u, err := s.Register(context.Background(), RegisterInput{
		Email: "a@x.com", Username: "a", Password: "secret123", IsActive: false,
	})
	require.NoError(t, err)
	require.False(t, u.IsActive)

	_, err = s.Login(context.Background(), "a@x.com", "secret123")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestUpdateUserPartial(t *testing.T) {
	s, _ := newTestService()
	u := register(t, s, "a@x.com", "a", "secret123")

	newName := "renamed"
	updated, err := s.UpdateUser(context.Background(), u.ID, UpdateInput{Username: &newName})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Username)
	assert.Equal(t, u.Email, updated.Email)
	assert.Equal(t, u.PasswordHash, updated.PasswordHash)
	assert.Equal(t, u.IsActive, updated.IsActive)
	assert.True(t, updated.UpdatedAt.After(u.UpdatedAt) || updated.UpdatedAt.Equal(u.UpdatedAt))
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	s, r := newTestService()
	u := register(t, s, "a@x.com", "a", "secret123")

	newPwd := "newsecret456"
	_, err := s.UpdateUser(context.Background(), u.ID, UpdateInput{Password: &newPwd})
	require.NoError(t, err)

	stored, err := r.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, newPwd, stored.PasswordHash)
	assert.True(t, helpers.CompareHashAndPassword(stored.PasswordHash, newPwd))

	// old password no longer works
	_, err = s.Login(context.Background(), "a@x.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateUnknownUser(t *testing.T) {
	s, _ := newTestService()
	name := "x"
	_, err := s.UpdateUser(context.Background(), uuid.NewString(), UpdateInput{Username: &name})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestDeleteUserThenGetNotFound(t *testing.T) {
	s, _ := newTestService()
	u := register(t, s, "a@x.com", "a", "secret123")

	removed, err := s.DeleteUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = s.GetByID(context.Background(), u.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// delete is idempotent in effect: second call reports no row
	removed, err = s.DeleteUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestListUsersPagination(t *testing.T) {
	s, _ := newTestService()
	register(t, s, "a@x.com", "a", "secret123")
	register(t, s, "b@x.com", "b", "secret123")
	register(t, s, "c@x.com", "c", "secret123")

	all, err := s.ListUsers(context.Background(), 0, 100)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a@x.com", all[0].Email)
	assert.Equal(t, "c@x.com", all[2].Email)

	page, err := s.ListUsers(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b@x.com", page[0].Email)

	empty, err := s.ListUsers(context.Background(), 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
