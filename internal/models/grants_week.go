package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GrantsWeek is one weekly batch of grants reviewed and funded together
// under a shared budget. It also carries the running counter used to
// assign grant IDs for the week.
type GrantsWeek struct {
	GrantWeek string `json:"grantWeek" gorm:"primaryKey" example:"S25-3"` // "<semester>-<week number>"
	Timestamps
	NumGrants int             `json:"numGrants"`                               // Counter for ID assignment. Not all of these end up in this week's pack.
	Finalized bool            `json:"finalized" gorm:"column:grants_pack_finalized"` // Locks the pack for editing once cuts are final
	Budget    decimal.Decimal `json:"budget" gorm:"type:DECIMAL(20,8)"`
	Requested decimal.Decimal `json:"requested" gorm:"type:DECIMAL(20,8)"` // Total requested by all grants in the pack
	Allocated decimal.Decimal `json:"allocated" gorm:"type:DECIMAL(20,8)"` // Total allocated when the pack was finalized
}

// NextGrantID reserves the next grant ID for the current grant week.
//
// The counter increment and the read happen inside a single
// transaction on a single-connection pool, so concurrent submissions
// always receive distinct, contiguous sequence numbers.
func NextGrantID(db *gorm.DB) (string, error) {
	prefix, err := CurrentWeekPrefix(db)
	if err != nil {
		return "", err
	}

	budget, err := DefaultBudget(db)
	if err != nil {
		return "", err
	}

	var week GrantsWeek
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where(GrantsWeek{GrantWeek: prefix}).
			Attrs(GrantsWeek{Budget: budget}).
			FirstOrCreate(&week).Error
		if err != nil {
			return err
		}

		err = tx.Model(&GrantsWeek{GrantWeek: prefix}).
			UpdateColumn("num_grants", gorm.Expr("num_grants + 1")).Error
		if err != nil {
			return err
		}

		return tx.First(&week, "grant_week = ?", prefix).Error
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%d", prefix, week.NumGrants), nil
}
