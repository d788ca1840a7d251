// Package cuts implements the grants pack allocation engine. When the
// total reviewed allocations of a weekly pack exceed its budget, a
// uniform proportional cut is applied to every grant that is not
// exempt through a confirmed collaboration.
package cuts

import (
	"strconv"

	"github.com/grantflow/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// GrantResult is the outcome of the cuts calculation for one grant.
type GrantResult struct {
	GrantID       string          `json:"grantId" example:"S25-3-14"`
	Organization  string          `json:"organization"`
	Project       string          `json:"project"`
	Exempt        bool            `json:"exempt"`                                   // Confirmed collaborations are exempt from cuts
	PreCut        decimal.Decimal `json:"preCut" swaggertype:"primitive,string"`    // Sum of the reviewed category allocations
	PercentageCut decimal.Decimal `json:"percentageCut" swaggertype:"primitive,string"` // In [0,100]
	Allocated     decimal.Decimal `json:"allocated" swaggertype:"primitive,string"` // Payout after the cut, rounded to cents
}

// Summary is the result of a cuts calculation across a whole pack.
type Summary struct {
	GrantWeek      string          `json:"grantWeek" example:"S25-3"`
	Budget         decimal.Decimal `json:"budget" swaggertype:"primitive,string"`
	TotalAllocated decimal.Decimal `json:"totalAllocated" swaggertype:"primitive,string"` // Pre-cut total across all grants
	ExemptTotal    decimal.Decimal `json:"exemptTotal" swaggertype:"primitive,string"`    // Pre-cut total of cut-exempt grants
	CutFraction    decimal.Decimal `json:"cutFraction" swaggertype:"primitive,string"`    // In [0,1]
	Finalized      bool            `json:"finalized"`
	Grants         []GrantResult   `json:"grants"`
}

// Preview computes the cuts for a pack without persisting anything.
//
// A finalized pack is never re-entered, not even read-only: the stored
// per-grant amounts are authoritative once the council has locked the
// pack.
func Preview(db *gorm.DB, grantWeek string) (Summary, error) {
	week, grants, err := load(db, grantWeek)
	if err != nil {
		return Summary{}, err
	}

	return compute(week, grants), nil
}

// Finalize applies the cuts to every grant in the pack, locks the pack
// and, if this pack is the active one, rolls the council forward to a
// fresh week with the default budget.
func Finalize(db *gorm.DB, grantWeek string) (Summary, error) {
	week, grants, err := load(db, grantWeek)
	if err != nil {
		return Summary{}, err
	}

	summary := compute(week, grants)

	err = db.Transaction(func(tx *gorm.DB) error {
		requested := decimal.Zero
		allocated := decimal.Zero

		for i, grant := range grants {
			result := summary.Grants[i]

			err := tx.Model(&grant).
				Select("PercentageCut", "AmountAllocated").
				Updates(models.Grant{
					PercentageCut:   result.PercentageCut,
					AmountAllocated: result.Allocated,
				}).Error
			if err != nil {
				return err
			}

			requested = requested.Add(grant.AmountRequested)
			allocated = allocated.Add(result.Allocated)
		}

		week.Requested = requested
		week.Allocated = allocated
		week.Finalized = true
		err := tx.Save(&week).Error
		if err != nil {
			return err
		}

		return advanceCurrentWeek(tx, grantWeek)
	})
	if err != nil {
		return Summary{}, err
	}

	summary.Finalized = true
	return summary, nil
}

func load(db *gorm.DB, grantWeek string) (models.GrantsWeek, []models.Grant, error) {
	var week models.GrantsWeek
	err := db.First(&week, "grant_week = ?", grantWeek).Error
	if err != nil {
		return models.GrantsWeek{}, nil, err
	}

	if week.Finalized {
		return models.GrantsWeek{}, nil, models.ErrGrantsWeekFinalized
	}

	var grants []models.Grant
	err = db.Where("grants_pack = ?", grantWeek).Order("grant_id ASC").Find(&grants).Error
	if err != nil {
		return models.GrantsWeek{}, nil, err
	}

	return week, grants, nil
}

func compute(week models.GrantsWeek, grants []models.Grant) Summary {
	summary := Summary{
		GrantWeek: week.GrantWeek,
		Budget:    week.Budget,
	}

	for _, grant := range grants {
		preCut := grant.PreCutTotal()

		summary.TotalAllocated = summary.TotalAllocated.Add(preCut)
		if grant.IsCollaborationConfirmed {
			summary.ExemptTotal = summary.ExemptTotal.Add(preCut)
		}

		summary.Grants = append(summary.Grants, GrantResult{
			GrantID:      grant.GrantID,
			Organization: grant.Organization,
			Project:      grant.Project,
			Exempt:       grant.IsCollaborationConfirmed,
			PreCut:       preCut,
		})
	}

	summary.CutFraction = cutFraction(week.Budget, summary.TotalAllocated, summary.ExemptTotal)

	for i := range summary.Grants {
		result := &summary.Grants[i]

		if !result.Exempt {
			result.PercentageCut = summary.CutFraction.Mul(hundred)
		}

		result.Allocated = hundred.Sub(result.PercentageCut).
			Div(hundred).
			Mul(result.PreCut).
			Round(2)
	}

	return summary
}

// cutFraction computes the uniform cut applied to non-exempt grants.
//
// When everything allocated is exempt the denominator is zero; the
// engine then applies no cut and the pack may exceed its budget. The
// original intent for this case is unconfirmed, see DESIGN.md.
func cutFraction(budget, total, exempt decimal.Decimal) decimal.Decimal {
	if total.LessThanOrEqual(budget) {
		return decimal.Zero
	}

	nonExempt := total.Sub(exempt)
	if !nonExempt.IsPositive() {
		return decimal.Zero
	}

	fraction := decimal.NewFromInt(1).Sub(budget.Sub(exempt).Div(nonExempt))

	// Clamp: an exempt total above the budget would push the fraction
	// past 1
	if fraction.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	if fraction.IsNegative() {
		return decimal.Zero
	}

	return fraction
}

// advanceCurrentWeek rolls the council forward when the finalized pack
// is the active one: the week number is incremented and the next
// GrantsWeek row is created with the configured default budget.
func advanceCurrentWeek(tx *gorm.DB, finalized string) error {
	current, err := models.CurrentWeekPrefix(tx)
	if err != nil {
		return err
	}

	if current != finalized {
		return nil
	}

	weekNumber, err := models.GetSetting(tx, models.SettingGrantWeek)
	if err != nil {
		return err
	}

	number, err := strconv.Atoi(weekNumber)
	if err != nil {
		number = 0
	}

	err = models.SetSetting(tx, models.SettingGrantWeek, strconv.Itoa(number+1))
	if err != nil {
		return err
	}

	next, err := models.CurrentWeekPrefix(tx)
	if err != nil {
		return err
	}

	budget, err := models.DefaultBudget(tx)
	if err != nil {
		return err
	}

	return tx.Where(models.GrantsWeek{GrantWeek: next}).
		Attrs(models.GrantsWeek{Budget: budget}).
		FirstOrCreate(&models.GrantsWeek{}).Error
}
