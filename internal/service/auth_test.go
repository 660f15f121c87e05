package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/multilingual_crud/internal/hash"
	"github.com/Skotchmaster/multilingual_crud/internal/models"
	"github.com/Skotchmaster/multilingual_crud/internal/repo"
	"github.com/Skotchmaster/multilingual_crud/internal/tokens"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Role{}, &models.UserRole{}, &models.RefreshToken{}))
	return db
}

func newTestIssuer() *tokens.Issuer {
	return &tokens.Issuer{
		Secret:   []byte("test-jwt-secret"),
		Issuer:   "test",
		Audience: "test-clients",
	}
}

func newAuthService(db *gorm.DB) *AuthService {
	return &AuthService{Repo: repo.New(db), Issuer: newTestIssuer()}
}

func createTestUser(t *testing.T, db *gorm.DB, username, email, password string, roles ...string) *models.User {
	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := models.User{Username: username, Email: email, PasswordHash: pwHash}
	require.NoError(t, db.Create(&user).Error)

	for _, name := range roles {
		role := models.Role{Name: name}
		require.NoError(t, db.Where("name = ?", name).FirstOrCreate(&role).Error)
		require.NoError(t, db.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error)
	}
	return &user
}

func refreshCount(t *testing.T, db *gorm.DB) int64 {
	var count int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Count(&count).Error)
	return count
}

func TestLogin_ReturnsTokenPairWithRoleClaims(t *testing.T) {
	db := initTestDB(t)
	svc := newAuthService(db)
	user := createTestUser(t, db, "alice", "alice@example.com", "password", "Admin", "User")

	pair, err := svc.Login(context.Background(), "alice", "password")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.Issuer.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(user.ID), claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.ElementsMatch(t, []string{"Admin", "User"}, claims.Roles)

	assert.Equal(t, int64(1), refreshCount(t, db))
}

func TestLogin_ByEmail(t *testing.T) {
	db := initTestDB(t)
	svc := newAuthService(db)
	createTestUser(t, db, "alice", "alice@example.com", "password")

	_, err := svc.Login(context.Background(), "alice@example.com", "password")
	require.NoError(t, err)
}

func TestLogin_WrongPasswordIssuesNothing(t *testing.T) {
	db := initTestDB(t)
	svc := newAuthService(db)
	createTestUser(t, db, "alice", "alice@example.com", "password")

	_, err := svc.Login(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, int64(0), refreshCount(t, db))
}

func TestLoginOrCreate_NoEnumeration(t *testing.T) {
	db := initTestDB(t)
	svc := newAuthService(db)
	createTestUser(t, db, "alice", "alice@example.com", "password")

	_, wrongPwErr := svc.LoginOrCreate(context.Background(), "alice", "wrong", false)
	_, unknownErr := svc.LoginOrCreate(context.Background(), "nobody", "whatever", false)

	require.ErrorIs(t, wrongPwErr, ErrInvalidCredentials)
	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.Equal(t, wrongPwErr, unknownErr)
}

func TestLoginOrCreate_AutoCreateFromEmail(t *testing.T) {
	db := initTestDB(t)
	svc := newAuthService(db)

	pair, err := svc.LoginOrCreate(context.Background(), "bob@x.com", "secret", true)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	var user models.User
	require.NoError(t, db.Where("username = ?", "bob").First(&user).Error)
	assert.Equal(t, "bob@x.com", user.Email)
	assert.True(t, hash.CheckPassword(user.PasswordHash, "secret"))
}

func TestLoginOrCreate_AutoCreateFromUsername(t *testing.T) {
	db := initTestDB(t)
	svc := newAuthService(db)

	_, err := svc.LoginOrCreate(context.Background(), "bob", "secret", true)
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.Where("username = ?", "bob").First(&user).Error)
	assert.Equal(t, "bob@example.com", user.Email)
}

func TestLoginOrCreate_DerivedIdentityCollision(t *testing.T) {
	db := initTestDB(t)
	svc := newAuthService(db)
	createTestUser(t, db, "bob", "bob@elsewhere.com", "password")

	// "bob@x.com" is not a known identifier, but the derived username is taken
	_, err := svc.LoginOrCreate(context.Background(), "bob@x.com", "secret", true)
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginOrCreate_ExistingUserLogsIn(t *testing.T) {
	db := initTestDB(t)
	svc := newAuthService(db)
	createTestUser(t, db, "alice", "alice@example.com", "password")

	_, err := svc.LoginOrCreate(context.Background(), "alice", "password", true)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRefresh_NoRotation(t *testing.T) {
	db := initTestDB(t)
	svc := newAuthService(db)
	createTestUser(t, db, "alice", "alice@example.com", "password", "User")

	pair, err := svc.Login(context.Background(), "alice", "password")
	require.NoError(t, err)

	first, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, first.RefreshToken)
	assert.NotEmpty(t, first.AccessToken)

	// reuse within the validity window keeps working
	second, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, second.RefreshToken)

	assert.Equal(t, int64(1), refreshCount(t, db))
}

func TestRefresh_ExpiredToken(t *testing.T) {
	db := initTestDB(t)
	svc := newAuthService(db)
	user := createTestUser(t, db, "alice", "alice@example.com", "password")

	row := models.RefreshToken{
		Token:     "expired-token",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}
	require.NoError(t, db.Create(&row).Error)

	_, err := svc.Refresh(context.Background(), "expired-token")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefresh_RevokedToken(t *testing.T) {
	db := initTestDB(t)
	svc := newAuthService(db)
	createTestUser(t, db, "alice", "alice@example.com", "password")

	pair, err := svc.Login(context.Background(), "alice", "password")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefresh_UnknownToken(t *testing.T) {
	db := initTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Refresh(context.Background(), "never-issued")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestDeriveIdentity(t *testing.T) {
	tests := []struct {
		identifier string
		username   string
		email      string
	}{
		{"bob@x.com", "bob", "bob@x.com"},
		{"bob", "bob", "bob@example.com"},
		{"  spaced@y.org  ", "spaced", "spaced@y.org"},
	}
	for _, tt := range tests {
		username, email := DeriveIdentity(tt.identifier)
		assert.Equal(t, tt.username, username)
		assert.Equal(t, tt.email, email)
	}
}
