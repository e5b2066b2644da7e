package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/pkg/auth"
	"github.com/dnguyen-dev/bistro/pkg/validate"
)

// stubUsers is an in-memory userStore.
type stubUsers struct {
	users []models.User
}

func (s *stubUsers) FindByEmail(email string) (models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *stubUsers) FindByID(id uint) (models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *stubUsers) EmailTaken(email string) (bool, error) {
	_, err := s.FindByEmail(email)
	return err == nil, nil
}

func (s *stubUsers) Create(user *models.User) error {
	user.ID = uint(len(s.users) + 1)
	s.users = append(s.users, *user)
	return nil
}

func sampleRegister() RegisterInput {
	return RegisterInput{
		Name:                 "Nguyen Van A",
		Email:                "a@example.com",
		Phone:                "0912345678",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	}
}

func TestRegisterInputValidates(t *testing.T) {
	errs := validate.Struct(sampleRegister())
	assert.False(t, validate.HasErrors(errs), "valid registration rejected: %v", errs)
}

func TestRegisterInputRejectsMismatchedConfirmation(t *testing.T) {
	in := sampleRegister()
	in.PasswordConfirmation = "something-else"

	errs := validate.Struct(in)
	require.True(t, validate.HasErrors(errs))
	assert.Contains(t, errs, "password")
}

func TestRegisterInputRejectsShortPassword(t *testing.T) {
	in := sampleRegister()
	in.Password = "12345"
	in.PasswordConfirmation = "12345"

	errs := validate.Struct(in)
	require.True(t, validate.HasErrors(errs))
	assert.Contains(t, errs, "password")
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	store := &stubUsers{}
	svc := &AuthService{users: store}

	user, err := svc.Register(sampleRegister())
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "a@example.com", user.Email)

	// The plaintext never reaches the store.
	require.Len(t, store.users, 1)
	stored := store.users[0].Password
	assert.NotEqual(t, "secret123", stored)
	assert.True(t, auth.CheckPassword(stored, "secret123"))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	store := &stubUsers{}
	svc := &AuthService{users: store}

	_, err := svc.Register(sampleRegister())
	require.NoError(t, err)

	_, err = svc.Register(sampleRegister())
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, store.users, 1)
}

func TestLoginIssuesToken(t *testing.T) {
	store := &stubUsers{}
	svc := &AuthService{users: store}
	_, err := svc.Register(sampleRegister())
	require.NoError(t, err)

	user, token, err := svc.Login("a@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Nguyen Van A", user.Name)
}

func TestLoginFailureIsUniform(t *testing.T) {
	store := &stubUsers{}
	svc := &AuthService{users: store}
	_, err := svc.Register(sampleRegister())
	require.NoError(t, err)

	// Unknown email and wrong password are indistinguishable.
	_, _, err = svc.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("a@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProfileReturnsRegisteredUser(t *testing.T) {
	store := &stubUsers{}
	svc := &AuthService{users: store}
	created, err := svc.Register(sampleRegister())
	require.NoError(t, err)

	got, err := svc.Profile(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)
}
