package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/wmhi/site-portal/internal/dto"
	apierrors "github.com/wmhi/site-portal/internal/errors"
)

type AuthHandlerTestSuite struct {
	PortalTestSuite
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	w := suite.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "MIKE@wmhi.co.uk",
		"password": "anything",
	}, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var user dto.UserDTO
	suite.decode(w, &user)
	suite.Equal("u2", user.ID)
	suite.NotEmpty(w.Result().Cookies(), "expected session cookie to be set")

	session, ok := suite.ws.Session()
	suite.Require().True(ok)
	suite.Equal("u2", session.ID)
}

func (suite *AuthHandlerTestSuite) TestLogin_UnknownEmail() {
	w := suite.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nobody@wmhi.co.uk",
		"password": "x",
	}, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	var body apierrors.APIError
	suite.decode(w, &body)
	suite.Equal(apierrors.ErrCodeInvalidCredentials, body.Code)
}

func (suite *AuthHandlerTestSuite) TestLogin_EmptyPassword() {
	w := suite.do(http.MethodPost, "/api/auth/login", map[string]string{"email": adminEmail}, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AuthHandlerTestSuite) TestMe_RequiresSession() {
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/api/auth/me", nil, nil).Code)

	w := suite.do(http.MethodGet, "/api/auth/me", nil, suite.login(builderEmail))
	suite.Require().Equal(http.StatusOK, w.Code)
	var user dto.UserDTO
	suite.decode(w, &user)
	suite.Equal("u3", user.ID)
}

func (suite *AuthHandlerTestSuite) TestLogout_ClearsSession() {
	cookies := suite.login(adminEmail)
	w := suite.do(http.MethodPost, "/api/auth/logout", nil, cookies)
	suite.Require().Equal(http.StatusOK, w.Code)

	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/api/auth/me", nil, w.Result().Cookies()).Code)
	_, ok := suite.ws.Session()
	suite.False(ok)
}

func (suite *AuthHandlerTestSuite) TestResetPassword_ThenLogin() {
	admin := suite.login(adminEmail)

	w := suite.do(http.MethodPost, "/api/users/u3/password", map[string]string{"password": "abc"}, admin)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/users/u3/password", map[string]string{"password": "n3wpass"}, admin)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/api/auth/login", map[string]string{"email": builderEmail, "password": "password"}, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	w = suite.do(http.MethodPost, "/api/auth/login", map[string]string{"email": builderEmail, "password": "n3wpass"}, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func TestAuthHandler_GetCurrentUser_NoContext(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)

	NewAuthHandler(nil).GetCurrentUser(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, apierrors.ErrCodeUnauthorized, body.Code)
}
