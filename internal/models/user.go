package models

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is a staff account. Admins manage reviews and packs, the
// treasurer flag additionally allows disbursement and reconciliation.
type User struct {
	DefaultModel
	Email        string `json:"email" gorm:"uniqueIndex"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Admin        bool   `json:"admin"`
	Treasurer    bool   `json:"treasurer"`
	PasswordHash string `json:"-"`
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	return nil
}

// SetPassword hashes the password and stores the hash on the user.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the password matches the stored hash.
func (u User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
