package models_test

import (
	"github.com/grantflow/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestGrantIDNormalizedOnSave() {
	grant := models.Grant{GrantID: "  s25-1-1 ", Organization: " Chess Club "}
	err := models.DB.Create(&grant).Error
	suite.Require().Nil(err)

	suite.Assert().Equal("S25-1-1", grant.GrantID)
	suite.Assert().Equal("Chess Club", grant.Organization)
	suite.Assert().False(grant.SubmitTime.IsZero())
}

func (suite *TestSuiteStandard) TestGrantIDUnique() {
	err := models.DB.Create(&models.Grant{GrantID: "S25-1-1"}).Error
	suite.Require().Nil(err)

	err = models.DB.Create(&models.Grant{GrantID: "S25-1-1"}).Error
	suite.Assert().ErrorIs(err, models.ErrGrantIDNotUnique)
}

func (suite *TestSuiteStandard) TestGrantNotFoundError() {
	err := models.DB.First(&models.Grant{}, "grant_id = ?", "S25-9-9").Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestPreCutTotal() {
	grant := models.Grant{
		Allocations: []models.AllocationLine{
			{Category: "Food", Amount: decimal.NewFromInt(100)},
			{Category: "Venue", Amount: decimal.NewFromFloat(49.50)},
		},
	}

	suite.Assert().True(decimal.NewFromFloat(149.50).Equal(grant.PreCutTotal()))
	suite.Assert().True(models.Grant{}.PreCutTotal().IsZero())
}

func (suite *TestSuiteStandard) TestDenied() {
	suite.Assert().False(models.Grant{}.Denied())
	suite.Assert().True(models.Grant{CouncilApproved: true}.Denied())
	suite.Assert().False(models.Grant{CouncilApproved: true, AmountAllocated: decimal.NewFromInt(10)}.Denied())
}

func (suite *TestSuiteStandard) TestDetermineSmallGrant() {
	food := models.ExpenseLine{Type: "Food", Amount: decimal.NewFromInt(100)}
	travel := models.ExpenseLine{Type: "Travel", Amount: decimal.NewFromInt(50)}

	// Below the cap with allow-listed categories only
	suite.Assert().True(models.DetermineSmallGrant(decimal.NewFromInt(150), []models.ExpenseLine{food}))

	// The cap itself is not a small grant
	suite.Assert().False(models.DetermineSmallGrant(decimal.NewFromInt(200), []models.ExpenseLine{food}))

	// A single category off the allow-list disqualifies
	suite.Assert().False(models.DetermineSmallGrant(decimal.NewFromInt(150), []models.ExpenseLine{food, travel}))

	// Category matching is case insensitive
	lower := models.ExpenseLine{Type: "food", Amount: decimal.NewFromInt(100)}
	suite.Assert().True(models.DetermineSmallGrant(decimal.NewFromInt(150), []models.ExpenseLine{lower}))

	// Empty lines are ignored
	suite.Assert().True(models.DetermineSmallGrant(decimal.NewFromInt(150), []models.ExpenseLine{food, {}}))
}

func (suite *TestSuiteStandard) TestGrantLineItemsRoundTrip() {
	grant := models.Grant{
		GrantID: "S25-1-1",
		RequestedExpenses: []models.ExpenseLine{
			{Type: "Food", Description: "Pizza", Amount: decimal.NewFromFloat(42.50)},
		},
		ReceiptImages: []string{"a.jpg", "b.jpg"},
	}
	suite.Require().Nil(models.DB.Create(&grant).Error)

	var reloaded models.Grant
	suite.Require().Nil(models.DB.First(&reloaded, "grant_id = ?", "S25-1-1").Error)

	suite.Require().Len(reloaded.RequestedExpenses, 1)
	suite.Assert().Equal("Pizza", reloaded.RequestedExpenses[0].Description)
	suite.Assert().True(decimal.NewFromFloat(42.50).Equal(reloaded.RequestedExpenses[0].Amount))
	suite.Assert().Equal([]string{"a.jpg", "b.jpg"}, reloaded.ReceiptImages)
}
