package v1_test

import (
	"encoding/csv"
	"net/http"

	v1 "github.com/grantflow/backend/internal/controllers/v1"
	"github.com/grantflow/backend/internal/models"
	"github.com/grantflow/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestNewGrant() {
	recorder := test.Request(suite.T(), http.MethodGet,
		"/new_grant?organization=Chess Club&project=Tournament & Pizza&contact_first_name=Sam&contact_email=sam@example.com&amount_requested=150&app_expense1_type=Food&app_expense1_amount=150", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	// The grant ID is returned as plain text for the survey tool
	suite.Assert().Equal("S25-1-1", recorder.Body.String())

	var grant models.Grant
	suite.Require().Nil(models.DB.First(&grant, "grant_id = ?", "S25-1-1").Error)
	suite.Assert().Equal("Chess Club", grant.Organization)
	suite.Assert().Equal("Tournament & Pizza", grant.Project)
	suite.Assert().True(grant.IsSmallGrant)
	suite.Assert().False(grant.IsUpfront)

	// The organization is known afterwards
	var org models.Organization
	suite.Assert().Nil(models.DB.First(&org, "name = ?", "Chess Club").Error)

	// IDs are sequential within the week
	recorder = test.Request(suite.T(), http.MethodGet, "/new_grant?organization=Debate Society&amount_requested=500", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	suite.Assert().Equal("S25-1-2", recorder.Body.String())
}

func (suite *TestSuiteStandard) TestNewGrantInvalidAmount() {
	recorder := test.Request(suite.T(), http.MethodGet, "/new_grant?organization=Chess Club&amount_requested=a lot", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestSecurityKey() {
	suite.Require().Nil(models.SetSetting(models.DB, models.SettingSecurityKey, "topsecret"))

	recorder := test.Request(suite.T(), http.MethodGet, "/new_grant?organization=Chess Club&amount_requested=100", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	recorder = test.Request(suite.T(), http.MethodGet, "/new_grant?k=wrong&organization=Chess Club&amount_requested=100", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)

	recorder = test.Request(suite.T(), http.MethodGet, "/new_grant?k=topsecret&organization=Chess Club&amount_requested=100", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
}

func (suite *TestSuiteStandard) TestGrantStatus() {
	grant := models.Grant{GrantID: "S25-1-1", Organization: "Chess Club", IsUpfront: true}
	suite.Require().Nil(models.DB.Create(&grant).Error)

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/grants/S25-1-1/status", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.StatusResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("S25-1-1", response.Data.GrantID)
	suite.Assert().Equal(0.14, response.Data.Progress.Percentage)
	suite.Assert().Equal("Interview being scheduled.", response.Data.Progress.Message)

	// Lookup is case insensitive
	recorder = test.Request(suite.T(), http.MethodGet, "/v1/grants/s25-1-1/status", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
}

func (suite *TestSuiteStandard) TestGrantStatusNotFound() {
	recorder := test.Request(suite.T(), http.MethodGet, "/v1/grants/S25-9-9/status", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestReceipts() {
	grant := models.Grant{GrantID: "S25-1-1", IsUpfront: true, IsPaid: true, ContactEmail: "sam@example.com"}
	suite.Require().Nil(models.DB.Create(&grant).Error)

	recorder := test.Request(suite.T(), http.MethodGet,
		"/receipts?grant_id=S25-1-1&expense1_description=Hall rental&expense1_amount=550&receipt_images=a.jpg,b.jpg,", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	suite.Require().Nil(models.DB.First(&grant, "grant_id = ?", "S25-1-1").Error)
	suite.Assert().True(grant.ReceiptsSubmitted)
	suite.Require().Len(grant.ActualExpenses, 1)
	suite.Assert().True(decimal.NewFromInt(550).Equal(grant.ActualExpenses[0].Amount))
	suite.Assert().Equal([]string{"a.jpg", "b.jpg"}, grant.ReceiptImages)

	// A second submission must go through the resubmission endpoint
	recorder = test.Request(suite.T(), http.MethodGet, "/receipts?grant_id=S25-1-1&expense1_amount=10", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	recorder = test.Request(suite.T(), http.MethodGet,
		"/resubmit-receipts?grant_id=S25-1-1&expense1_description=Hall rental&expense1_amount=500", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	suite.Require().Nil(models.DB.First(&grant, "grant_id = ?", "S25-1-1").Error)
	suite.Require().Len(grant.ActualExpenses, 1)
	suite.Assert().True(decimal.NewFromInt(500).Equal(grant.ActualExpenses[0].Amount))
	suite.Assert().Len(grant.ReceiptsResubmitHistory, 1)
}

func (suite *TestSuiteStandard) TestReceiptsUnknownGrant() {
	recorder := test.Request(suite.T(), http.MethodGet, "/receipts?grant_id=S25-9-9&expense1_amount=10", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), http.MethodGet, "/receipts?expense1_amount=10", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetGrantsRequiresToken() {
	recorder := test.Request(suite.T(), http.MethodGet, "/v1/grants", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)

	recorder = test.Request(suite.T(), http.MethodGet, "/v1/grants", "", bearer("not a token"))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestGetGrants() {
	token := suite.createToken("staff@example.com", false, false)

	for _, g := range []models.Grant{
		{GrantID: "S25-1-1", Organization: "Chess Club", Project: "Spring Open", IsUpfront: true},
		{GrantID: "S25-1-2", Organization: "Chess Club", Project: "Blitz Night"},
		{GrantID: "S25-1-3", Organization: "Debate Society", Project: "Nationals Trip"},
	} {
		suite.Require().Nil(models.DB.Create(&g).Error)
	}

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/grants", "", bearer(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.GrantListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 3)
	suite.Require().NotNil(response.Pagination)
	suite.Assert().Equal(int64(3), response.Pagination.Total)

	// Globs on the organization
	recorder = test.Request(suite.T(), http.MethodGet, "/v1/grants?organization=Chess*", "", bearer(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 2)

	// Boolean filters
	recorder = test.Request(suite.T(), http.MethodGet, "/v1/grants?upfront=true", "", bearer(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("S25-1-1", response.Data[0].GrantID)

	// Pagination
	recorder = test.Request(suite.T(), http.MethodGet, "/v1/grants?limit=2", "", bearer(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 2)

	recorder = test.Request(suite.T(), http.MethodGet, "/v1/grants?offset=2", "", bearer(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 1)
}

func (suite *TestSuiteStandard) TestGetGrant() {
	token := suite.createToken("staff@example.com", false, false)

	grant := models.Grant{GrantID: "S25-1-1", Organization: "Chess Club", ContactEmail: "sam@example.com"}
	suite.Require().Nil(models.DB.Create(&grant).Error)

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/grants/S25-1-1", "", bearer(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.GrantResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("sam@example.com", response.Data.ContactEmail)

	recorder = test.Request(suite.T(), http.MethodGet, "/v1/grants/S25-9-9", "", bearer(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestExport() {
	token := suite.createToken("admin@example.com", true, false)

	for _, id := range []string{"S25-1-1", "S25-1-2"} {
		grant := models.Grant{GrantID: id, Organization: "Chess Club"}
		suite.Require().Nil(models.DB.Create(&grant).Error)
	}

	recorder := test.Request(suite.T(), http.MethodGet, "/v1/export", "", bearer(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	suite.Assert().Contains(recorder.Header().Get("Content-Type"), "text/csv")

	// Every record is flushed: the header line plus one line per grant
	records, err := csv.NewReader(recorder.Body).ReadAll()
	suite.Require().Nil(err)
	suite.Require().Len(records, 3)
	suite.Assert().Equal("grant_id", records[0][0])
	suite.Assert().Equal("S25-1-1", records[1][0])
	suite.Assert().Equal("S25-1-2", records[2][0])
}
