// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shopkit/catalog-backend/internal/config"
	"github.com/shopkit/catalog-backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	suite.svc = NewAuthService(suite.db, cfg)
}

func (suite *AuthServiceTestSuite) register() *AuthResponse {
	resp, err := suite.svc.Register(&RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "TestPass123",
	})
	suite.Require().NoError(err)
	return resp
}

func (suite *AuthServiceTestSuite) TestRegisterIssuesTokens() {
	resp := suite.register()
	suite.NotEmpty(resp.AccessToken)
	suite.NotEmpty(resp.RefreshToken)
	suite.Equal("Bearer", resp.TokenType)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	suite.Require().NoError(err)
	suite.Equal(resp.User.ID.String(), claims.UserID)
	suite.Equal("test@example.com", claims.Email)
}

func (suite *AuthServiceTestSuite) TestRegisterDuplicateEmail() {
	suite.register()

	_, err := suite.svc.Register(&RegisterRequest{
		Name:     "Other User",
		Email:    "test@example.com",
		Password: "TestPass123",
	})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "already exists")
}

func (suite *AuthServiceTestSuite) TestRegisterWeakPassword() {
	_, err := suite.svc.Register(&RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "short",
	})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "validation failed")
}

func (suite *AuthServiceTestSuite) TestLogin() {
	suite.register()

	resp, err := suite.svc.Login(&LoginRequest{
		Email:    "test@example.com",
		Password: "TestPass123",
	})
	suite.Require().NoError(err)
	suite.NotEmpty(resp.AccessToken)
	suite.NotNil(resp.User.LastLoginAt)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	suite.register()

	_, err := suite.svc.Login(&LoginRequest{
		Email:    "test@example.com",
		Password: "WrongPass123",
	})
	suite.Require().Error(err)
	suite.Equal("invalid email or password", err.Error())
}

func (suite *AuthServiceTestSuite) TestLoginUnknownEmail() {
	_, err := suite.svc.Login(&LoginRequest{
		Email:    "nobody@example.com",
		Password: "TestPass123",
	})
	suite.Require().Error(err)
	suite.Equal("invalid email or password", err.Error())
}

func (suite *AuthServiceTestSuite) TestRefreshToken() {
	registered := suite.register()

	resp, err := suite.svc.RefreshToken(registered.RefreshToken)
	suite.Require().NoError(err)
	suite.NotEmpty(resp.AccessToken)
	suite.Equal(registered.User.ID, resp.User.ID)
}

func (suite *AuthServiceTestSuite) TestRefreshTokenRejectsGarbage() {
	_, err := suite.svc.RefreshToken("not-a-token")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "invalid refresh token")
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
