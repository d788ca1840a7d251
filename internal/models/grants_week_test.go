package models_test

import (
	"fmt"
	"sync"

	"github.com/grantflow/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestNextGrantIDSequential() {
	for i := 1; i <= 3; i++ {
		id, err := models.NextGrantID(models.DB)
		suite.Require().Nil(err)
		suite.Assert().Equal(fmt.Sprintf("S25-1-%d", i), id)
	}

	var week models.GrantsWeek
	suite.Require().Nil(models.DB.First(&week, "grant_week = ?", "S25-1").Error)
	suite.Assert().Equal(3, week.NumGrants)

	// The week was created with the configured default budget
	suite.Assert().True(decimal.NewFromInt(10000).Equal(week.Budget))
}

// TestNextGrantIDConcurrent verifies that parallel submissions never
// receive the same grant ID.
func (suite *TestSuiteStandard) TestNextGrantIDConcurrent() {
	const submissions = 20

	ids := make(chan string, submissions)

	var wg sync.WaitGroup
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			id, err := models.NextGrantID(models.DB)
			suite.Assert().Nil(err)
			ids <- id
		}()
	}

	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		suite.Assert().False(seen[id], "grant ID %s was assigned twice", id)
		seen[id] = true
	}

	// The sequence is contiguous, no number is skipped
	for i := 1; i <= submissions; i++ {
		suite.Assert().True(seen[fmt.Sprintf("S25-1-%d", i)])
	}
}

func (suite *TestSuiteStandard) TestNextGrantIDUsesCurrentWeek() {
	suite.Require().Nil(models.SetSetting(models.DB, models.SettingGrantWeek, "4"))

	id, err := models.NextGrantID(models.DB)
	suite.Require().Nil(err)
	suite.Assert().Equal("S25-4-1", id)
}
