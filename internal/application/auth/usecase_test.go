package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockops-api/internal/application/auth"
	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/stockops-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuth() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewStore().Users(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "stockops-test"})
}

func TestRegisterYLogin_StaffPorDefecto(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "  Ana@Example.com ", Password: "secreta123", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email, "el email se normaliza")
	assert.Equal(t, entity.RoleStaff, user.Role)

	login, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@example.com", Password: "secreta123"})
	require.NoError(t, err)
	userID, role, err := pkgjwt.Parse(testSecret, login.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, entity.RoleStaff, role)
}

func TestRegister_EmailDuplicadoYPasswordCorta(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "secreta123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "A@B.CO", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "c@d.co", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "secreta123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@b.co", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestPromoteToManager(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "jefe@b.co", Password: "secreta123"})
	require.NoError(t, err)

	promoted, err := uc.PromoteToManager(ctx, "jefe@b.co")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, promoted.Role)

	login, err := uc.Login(ctx, dto.LoginRequest{Email: "jefe@b.co", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, login.User.Role)

	_, err = uc.PromoteToManager(ctx, "nadie@b.co")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
