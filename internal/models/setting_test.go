package models_test

import (
	"github.com/grantflow/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestSettingsSeeded() {
	value, err := models.GetSetting(models.DB, models.SettingCouncilSemester)
	suite.Require().Nil(err)
	suite.Assert().Equal("S25", value)

	prefix, err := models.CurrentWeekPrefix(models.DB)
	suite.Require().Nil(err)
	suite.Assert().Equal("S25-1", prefix)

	budget, err := models.DefaultBudget(models.DB)
	suite.Require().Nil(err)
	suite.Assert().True(decimal.NewFromInt(10000).Equal(budget))
}

func (suite *TestSuiteStandard) TestSetSetting() {
	suite.Require().Nil(models.SetSetting(models.DB, models.SettingCouncilSemester, "F25"))

	value, err := models.GetSetting(models.DB, models.SettingCouncilSemester)
	suite.Require().Nil(err)
	suite.Assert().Equal("F25", value)
}

func (suite *TestSuiteStandard) TestEmailEnabled() {
	suite.Assert().False(models.EmailEnabled(models.DB))

	suite.Require().Nil(models.SetSetting(models.DB, models.SettingEnableEmail, "1"))
	suite.Assert().True(models.EmailEnabled(models.DB))
}
