package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Setting is one configuration key-value pair used for general
// application setup.
type Setting struct {
	Key   string `json:"key" gorm:"primaryKey"`
	Value string `json:"value"`
}

// Setting keys used by the application.
const (
	SettingSecurityKey     = "security_key"     // Shared key gating applicant-facing endpoints
	SettingCouncilSemester = "council_semester" // e.g. "S25"
	SettingGrantWeek       = "grant_week"       // Current week number within the semester
	SettingDefaultBudget   = "default_budget"   // Budget assigned to newly created grant weeks
	SettingEnableEmail     = "enable_email"     // "1" enables notification emails
)

var settingDefaults = map[string]string{
	SettingSecurityKey:     "",
	SettingCouncilSemester: "S25",
	SettingGrantWeek:       "1",
	SettingDefaultBudget:   "10000",
	SettingEnableEmail:     "0",
}

// seedSettings creates any missing configuration rows with their
// default values. Existing values are never overwritten.
func seedSettings(db *gorm.DB) error {
	for key, value := range settingDefaults {
		err := db.Where(Setting{Key: key}).
			Attrs(Setting{Value: value}).
			FirstOrCreate(&Setting{}).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// GetSetting returns the value for a configuration key.
func GetSetting(db *gorm.DB, key string) (string, error) {
	var setting Setting
	err := db.First(&setting, "key = ?", key).Error
	if err != nil {
		return "", err
	}

	return setting.Value, nil
}

// SetSetting updates or creates a configuration value.
func SetSetting(db *gorm.DB, key, value string) error {
	return db.Save(&Setting{Key: key, Value: value}).Error
}

// CurrentWeekPrefix returns the grant ID prefix for the current grant
// week, "<semester>-<week>".
func CurrentWeekPrefix(db *gorm.DB) (string, error) {
	semester, err := GetSetting(db, SettingCouncilSemester)
	if err != nil {
		return "", err
	}

	week, err := GetSetting(db, SettingGrantWeek)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s", semester, week), nil
}

// DefaultBudget returns the weekly budget assigned to new grant weeks.
func DefaultBudget(db *gorm.DB) (decimal.Decimal, error) {
	value, err := GetSetting(db, SettingDefaultBudget)
	if err != nil {
		return decimal.Zero, err
	}

	budget, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("the configured default budget %q is not a number", value)
	}

	return budget, nil
}

// EmailEnabled reports whether notification emails should be sent.
func EmailEnabled(db *gorm.DB) bool {
	value, err := GetSetting(db, SettingEnableEmail)
	if err != nil {
		return false
	}

	return value == "1"
}
