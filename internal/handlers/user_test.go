package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/wmhi/site-portal/internal/dto"
	"github.com/wmhi/site-portal/internal/models"
)

type UserHandlerTestSuite struct {
	PortalTestSuite
}

func TestUserHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}

func (suite *UserHandlerTestSuite) TestListUsers() {
	w := suite.do(http.MethodGet, "/api/users", nil, suite.login(builderEmail))
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Users []dto.UserDTO `json:"users"`
	}
	suite.decode(w, &resp)
	suite.Len(resp.Users, 6)
}

func (suite *UserHandlerTestSuite) TestAddUser_AdminOnly() {
	w := suite.do(http.MethodPost, "/api/users", map[string]string{"name": "Jane Doe"}, suite.login(managerEmail))
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, "/api/users", map[string]string{"name": "Jane Doe"}, suite.login(adminEmail))
	suite.Require().Equal(http.StatusCreated, w.Code)

	var user dto.UserDTO
	suite.decode(w, &user)
	suite.Equal("jane.doe@wmhi.co.uk", user.Email)
	suite.Equal(models.RoleBuilder, user.Role)
	suite.Len(suite.ws.Users(), 7)
}

func (suite *UserHandlerTestSuite) TestAddUser_DuplicateEmail() {
	w := suite.do(http.MethodPost, "/api/users", map[string]string{"name": "Another Mike", "email": managerEmail}, suite.login(adminEmail))
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *UserHandlerTestSuite) TestUpdateUser() {
	admin := suite.login(adminEmail)

	w := suite.do(http.MethodPatch, "/api/users/u3", map[string]string{"role": "Site Manager"}, admin)
	suite.Require().Equal(http.StatusOK, w.Code)
	var user dto.UserDTO
	suite.decode(w, &user)
	suite.Equal(models.RoleSiteManager, user.Role)

	w = suite.do(http.MethodPatch, "/api/users/u3", map[string]string{"role": "Wizard"}, admin)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPatch, "/api/users/ghost", map[string]string{"role": "Builder"}, admin)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *UserHandlerTestSuite) TestRemoveUser() {
	admin := suite.login(adminEmail)
	builder := suite.login(builderEmail)

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodDelete, "/api/users/u1", nil, admin).Code)
	suite.Require().Equal(http.StatusOK, suite.do(http.MethodDelete, "/api/users/u3", nil, admin).Code)

	// the removed user's session stops working
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/api/auth/me", nil, builder).Code)
}
