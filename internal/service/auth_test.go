package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"collab-canvas/internal/domain"
	"collab-canvas/internal/repository"
	"collab-canvas/internal/repository/mocks"
	"collab-canvas/internal/service"
)

func newAuthService(t *testing.T, repo *mocks.UserRepository) *service.AuthService {
	t.Helper()
	svc, err := service.NewAuthService(repo, "very-secret-key", 1)
	require.NoError(t, err)
	return svc
}

func TestAuthService_Register_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()
	username := "newbie"
	password := "StrongPass123"
	email := "newbie@example.com"

	mockUserRepo.On("Save", ctx, mock.MatchedBy(func(user *domain.User) bool {
		assert.Equal(t, username, user.Username)
		assert.Equal(t, email, user.Email)
		assert.True(t, user.IsActive)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)))
		return true
	})).
		Run(func(args mock.Arguments) {
			userArg := args.Get(1).(*domain.User)
			userArg.ID = 5
		}).
		Return(nil).
		Once()

	// Act
	registeredUser, err := authService.Register(ctx, username, password, email)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, registeredUser)
	assert.Equal(t, uint(5), registeredUser.ID)
	assert.Empty(t, registeredUser.Password, "password must not leak out of Register")
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("Save", ctx, mock.AnythingOfType("*domain.User")).
		Return(repository.ErrDuplicateEntry).
		Once()

	_, err := authService.Register(ctx, "existing", "password", "e@test.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRegistrationFailed))
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_MissingCredentials(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)

	_, err := authService.Register(context.Background(), "", "password", "")
	require.Error(t, err)
	_, err = authService.Register(context.Background(), "name", "", "")
	require.Error(t, err)

	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Login_Success(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()
	password := "correct-horse"

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &domain.User{ID: 7, Username: "alice", Password: string(hashed), IsActive: true}
	mockUserRepo.On("FindByUsername", ctx, "alice").Return(user, nil).Once()

	token, err := authService.Login(ctx, "alice", password)

	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// The token must carry the user id and be signed with the service secret.
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte("very-secret-key"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(7), claims["user_id"])
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, "ghost").Return(nil, repository.ErrUserNotFound).Once()

	_, err := authService.Login(ctx, "ghost", "whatever")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.DefaultCost)
	user := &domain.User{ID: 3, Username: "bob", Password: string(hashed), IsActive: true}
	mockUserRepo.On("FindByUsername", ctx, "bob").Return(user, nil).Once()

	_, err := authService.Login(ctx, "bob", "wrong")

	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.DefaultCost)
	user := &domain.User{ID: 4, Username: "gone", Password: string(hashed), IsActive: false}
	mockUserRepo.On("FindByUsername", ctx, "gone").Return(user, nil).Once()

	_, err := authService.Login(ctx, "gone", "pw")

	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
}

// issueToken signs a token the way the service does, for gate tests.
func issueToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthService_VerifyToken_Success(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()

	tokenStr := issueToken(t, "very-secret-key", jwt.MapClaims{
		"user_id": 9,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	user := &domain.User{ID: 9, Username: "carol", IsActive: true}
	mockUserRepo.On("FindByID", ctx, uint(9)).Return(user, nil).Once()

	identity, err := authService.VerifyToken(ctx, tokenStr)

	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, uint(9), identity.ID)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_VerifyToken_MissingToken(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)

	_, err := authService.VerifyToken(context.Background(), "")

	assert.True(t, errors.Is(err, service.ErrNoToken))
	assert.Equal(t, "no-token", service.AuthErrorTag(err))
}

func TestAuthService_VerifyToken_BadSignature(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)

	tokenStr := issueToken(t, "a-different-secret", jwt.MapClaims{
		"user_id": 9,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	_, err := authService.VerifyToken(context.Background(), tokenStr)

	assert.True(t, errors.Is(err, service.ErrInvalidToken))
	assert.Equal(t, "invalid-token", service.AuthErrorTag(err))
	mockUserRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthService_VerifyToken_Expired(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)

	tokenStr := issueToken(t, "very-secret-key", jwt.MapClaims{
		"user_id": 9,
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})

	_, err := authService.VerifyToken(context.Background(), tokenStr)

	assert.True(t, errors.Is(err, service.ErrInvalidToken))
}

func TestAuthService_VerifyToken_InactiveUser(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()

	tokenStr := issueToken(t, "very-secret-key", jwt.MapClaims{
		"user_id": 11,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	user := &domain.User{ID: 11, IsActive: false}
	mockUserRepo.On("FindByID", ctx, uint(11)).Return(user, nil).Once()

	_, err := authService.VerifyToken(ctx, tokenStr)

	assert.True(t, errors.Is(err, service.ErrInactiveUser))
	assert.Equal(t, "inactive-user", service.AuthErrorTag(err))
}

func TestAuthService_VerifyToken_UnknownSubject(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()

	tokenStr := issueToken(t, "very-secret-key", jwt.MapClaims{
		"user_id": 404,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	mockUserRepo.On("FindByID", ctx, uint(404)).Return(nil, repository.ErrUserNotFound).Once()

	_, err := authService.VerifyToken(ctx, tokenStr)

	assert.True(t, errors.Is(err, service.ErrInactiveUser))
}
