package models

import (
	"strings"

	"gorm.io/gorm"
)

// Organization is a student organization on campus, deduplicated by
// name. The bank name is captured by the treasurer for direct deposits.
type Organization struct {
	DefaultModel
	Name     string `json:"name" gorm:"uniqueIndex"`
	BankName string `json:"bankName,omitempty"`
}

func (o *Organization) BeforeSave(_ *gorm.DB) error {
	o.Name = strings.TrimSpace(o.Name)
	o.BankName = strings.TrimSpace(o.BankName)

	return nil
}

// EnsureOrganization creates the organization if it is not known yet.
func EnsureOrganization(db *gorm.DB, name string) (Organization, error) {
	name = strings.TrimSpace(name)

	var org Organization
	err := db.Where(Organization{Name: name}).FirstOrCreate(&org).Error
	return org, err
}
