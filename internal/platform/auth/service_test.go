package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMemberStore struct {
	members []Member
}

func (f *fakeMemberStore) GetByID(ctx context.Context, userID string) (*Member, error) {
	for i := range f.members {
		if f.members[i].UserID == userID {
			m := f.members[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberStore) GetByEmail(ctx context.Context, email string) (*Member, error) {
	for i := range f.members {
		if f.members[i].Email == email {
			m := f.members[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberStore) Create(ctx context.Context, m *Member) error {
	f.members = append(f.members, *m)
	return nil
}

func (f *fakeMemberStore) List(ctx context.Context) ([]Member, error) {
	return f.members, nil
}

func (f *fakeMemberStore) Delete(ctx context.Context, userID string) (int64, error) {
	for i := range f.members {
		if f.members[i].UserID == userID {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeMemberStore) UpdatePassword(ctx context.Context, userID, passwordHash string) (int64, error) {
	for i := range f.members {
		if f.members[i].UserID == userID {
			f.members[i].PasswordHash = passwordHash
			return 1, nil
		}
	}
	return 0, nil
}

func newTestService(store MemberStore) *Service {
	return &Service{store: store, secret: []byte("test-secret")}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name string
		pw   string
		ok   bool
	}{
		{"valid", "s3cure!pass", true},
		{"too short", "a1!bcde", false},
		{"no digit", "secure!password", false},
		{"no special character", "s3curepass", false},
		{"digit and special at the edges", "1bcdefgh!", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(tc.pw)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrWeakPassword)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a member with the Member role", func(t *testing.T) {
		store := &fakeMemberStore{}
		svc := newTestService(store)

		m, err := svc.Register(ctx, RegisterRequest{
			Email:     "Paul@Atreides.example",
			FirstName: "Paul",
			LastName:  "Atreides",
			Password:  "s3cure!pass",
		})
		require.NoError(t, err)
		assert.Equal(t, RoleMember, m.Role)
		assert.Equal(t, "paul@atreides.example", m.Email)
		assert.NotEmpty(t, m.UserID)
		require.Len(t, store.members, 1)
		assert.NotEqual(t, "s3cure!pass", store.members[0].PasswordHash)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		store := &fakeMemberStore{}
		svc := newTestService(store)

		_, err := svc.Register(ctx, RegisterRequest{Email: "paul@atreides.example", FirstName: "Paul", LastName: "Atreides", Password: "s3cure!pass"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, RegisterRequest{Email: "paul@atreides.example", FirstName: "Leto", LastName: "Atreides", Password: "s3cure!pass"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		svc := newTestService(&fakeMemberStore{})

		_, err := svc.Register(ctx, RegisterRequest{Email: "not-an-email", FirstName: "Paul", LastName: "Atreides", Password: "s3cure!pass"})
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := &fakeMemberStore{}
	svc := newTestService(store)

	_, err := svc.Register(ctx, RegisterRequest{Email: "paul@atreides.example", FirstName: "Paul", LastName: "Atreides", Password: "s3cure!pass"})
	require.NoError(t, err)

	t.Run("issues a token carrying sub, name and role", func(t *testing.T) {
		tokenStr, err := svc.Login(ctx, "paul@atreides.example", "s3cure!pass")
		require.NoError(t, err)

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) { return []byte("test-secret"), nil })
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, store.members[0].UserID, claims["sub"])
		assert.Equal(t, "Paul Atreides", claims["name"])
		assert.Equal(t, RoleMember, claims["role"])
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "paul@atreides.example", "wrong!pass1")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "s3cure!pass")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	store := &fakeMemberStore{}
	svc := newTestService(store)

	_, err := svc.Register(ctx, RegisterRequest{Email: "paul@atreides.example", FirstName: "Paul", LastName: "Atreides", Password: "s3cure!pass"})
	require.NoError(t, err)
	userID := store.members[0].UserID

	t.Run("requires the current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, userID, "wrong!pass1", "n3w!password")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("enforces strength on the new password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, userID, "s3cure!pass", "weak")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("changes the password", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, userID, "s3cure!pass", "n3w!password"))

		_, err := svc.Login(ctx, "paul@atreides.example", "n3w!password")
		assert.NoError(t, err)
	})
}
