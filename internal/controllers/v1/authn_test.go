package v1_test

import (
	"net/http"

	v1 "github.com/grantflow/backend/internal/controllers/v1"
	"github.com/grantflow/backend/internal/models"
	"github.com/grantflow/backend/test"
)

func (suite *TestSuiteStandard) TestLogin() {
	suite.createToken("staff@example.com", false, false)

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/auth/login",
		v1.LoginEditable{Email: "staff@example.com", Password: "password"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.LoginResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().NotEmpty(response.Data.Token)
	suite.Assert().Equal("staff@example.com", response.Data.User.Email)

	// The issued token grants access to the staff routes
	recorder = test.Request(suite.T(), http.MethodGet, "/v1/grants", "", bearer(response.Data.Token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
}

func (suite *TestSuiteStandard) TestLoginInvalidCredentials() {
	suite.createToken("staff@example.com", false, false)

	// Unknown emails and wrong passwords are indistinguishable
	recorder := test.Request(suite.T(), http.MethodPost, "/v1/auth/login",
		v1.LoginEditable{Email: "staff@example.com", Password: "wrong"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)

	recorder = test.Request(suite.T(), http.MethodPost, "/v1/auth/login",
		v1.LoginEditable{Email: "nobody@example.com", Password: "password"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)

	recorder = test.Request(suite.T(), http.MethodPost, "/v1/auth/login", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCreateUser() {
	admin := suite.createToken("admin@example.com", true, false)

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/auth/users",
		v1.UserEditable{Email: "new@example.com", FirstName: "New", LastName: "Staff", Treasurer: true, Password: "hunter2"},
		bearer(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().True(response.Data.Treasurer)

	var user models.User
	suite.Require().Nil(models.DB.First(&user, "email = ?", "new@example.com").Error)
	suite.Assert().True(user.CheckPassword("hunter2"))

	// Duplicate emails are rejected
	recorder = test.Request(suite.T(), http.MethodPost, "/v1/auth/users",
		v1.UserEditable{Email: "new@example.com", Password: "hunter2"}, bearer(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	// Accounts need a password
	recorder = test.Request(suite.T(), http.MethodPost, "/v1/auth/users",
		v1.UserEditable{Email: "another@example.com"}, bearer(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCreateUserRequiresAdmin() {
	staff := suite.createToken("staff@example.com", false, false)

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/auth/users",
		v1.UserEditable{Email: "new@example.com", Password: "hunter2"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)

	recorder = test.Request(suite.T(), http.MethodPost, "/v1/auth/users",
		v1.UserEditable{Email: "new@example.com", Password: "hunter2"}, bearer(staff))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestRoleSeparation() {
	admin := suite.createToken("admin@example.com", true, false)
	treasurer := suite.createToken("treasurer@example.com", false, true)

	// Admins do not implicitly hold the treasurer role
	recorder := test.Request(suite.T(), http.MethodPost, "/v1/treasurer/S25-1-1",
		v1.DisburseEditable{}, bearer(admin))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	// Treasurers cannot review or manage packs
	recorder = test.Request(suite.T(), http.MethodPost, "/v1/grants/S25-1-1/interview",
		v1.InterviewEditable{}, bearer(treasurer))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	recorder = test.Request(suite.T(), http.MethodGet, "/v1/grants-packs/S25-1/cuts", "", bearer(treasurer))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	recorder = test.Request(suite.T(), http.MethodGet, "/v1/export", "", bearer(treasurer))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}
