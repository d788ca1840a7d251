package models_test

import (
	"github.com/grantflow/backend/internal/models"
)

func (suite *TestSuiteStandard) TestUserPassword() {
	var user models.User
	suite.Require().Nil(user.SetPassword("correct horse battery staple"))

	suite.Assert().True(user.CheckPassword("correct horse battery staple"))
	suite.Assert().False(user.CheckPassword("Tr0ub4dor&3"))
}

func (suite *TestSuiteStandard) TestUserEmailNormalized() {
	user := models.User{Email: " Treasurer@Example.com "}
	suite.Require().Nil(user.SetPassword("password"))
	suite.Require().Nil(models.DB.Create(&user).Error)

	suite.Assert().Equal("treasurer@example.com", user.Email)
}

func (suite *TestSuiteStandard) TestUserEmailUnique() {
	user := models.User{Email: "staff@example.com"}
	suite.Require().Nil(user.SetPassword("password"))
	suite.Require().Nil(models.DB.Create(&user).Error)

	duplicate := models.User{Email: "staff@example.com"}
	suite.Require().Nil(duplicate.SetPassword("password"))
	err := models.DB.Create(&duplicate).Error
	suite.Assert().ErrorIs(err, models.ErrUserEmailNotUnique)
}

func (suite *TestSuiteStandard) TestEnsureOrganization() {
	org, err := models.EnsureOrganization(models.DB, "Chess Club")
	suite.Require().Nil(err)

	again, err := models.EnsureOrganization(models.DB, "Chess Club")
	suite.Require().Nil(err)
	suite.Assert().Equal(org.ID, again.ID)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.Organization{}).Count(&count).Error)
	suite.Assert().Equal(int64(1), count)
}
