package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// The small grant dollar cap and the expense categories a small grant
// may request. A single request outside this list makes the grant a
// standard grant regardless of the amount.
var (
	SmallGrantCap          = decimal.NewFromInt(200)
	SmallGrantExpenseTypes = []string{"Food", "Publicity"}
)

// Line item cardinalities as collected by the application form.
const (
	MaxRevenueLines      = 10
	MaxRequestedExpenses = 12
	MaxActualExpenses    = 12
)

// AllocationCategories are the funding categories the council can
// allocate money to during review.
var AllocationCategories = []string{
	"Food",
	"Travel",
	"Publicity",
	"Materials",
	"Venue",
	"Decorations",
	"Media",
	"Admissions",
	"Security",
	"Personnel",
	"Other",
}

// RevenueLine is one expected revenue source on the application.
type RevenueLine struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// ExpenseLine is one expense line item. Requested expenses carry a
// category type, actual (reconciliation) expenses only a description.
type ExpenseLine struct {
	Type        string          `json:"type,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// AllocationLine is the reviewed allocation for one funding category,
// before any pack-wide cut is applied.
type AllocationLine struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Notes    string          `json:"notes,omitempty"`
}

// Grant holds everything submitted and decided across a grant's
// lifecycle: the application, the review, the pack decision, the
// disbursement and the receipt reconciliation.
type Grant struct {
	DefaultModel
	GrantID string `json:"grantId" gorm:"uniqueIndex" example:"S25-3-14"` // Human readable ID, assigned from the weekly counter

	// Application
	SubmitTime               time.Time       `json:"submitTime"`
	AmountRequested          decimal.Decimal `json:"amountRequested" gorm:"type:DECIMAL(20,8)"`
	IsCollaboration          bool            `json:"isCollaboration"`
	Collaborators            string          `json:"collaborators,omitempty"`
	CollaborationExplanation string          `json:"collaborationExplanation,omitempty"`
	ContactFirstName         string          `json:"contactFirstName"`
	ContactLastName          string          `json:"contactLastName"`
	ContactEmail             string          `json:"contactEmail"`
	ContactPhone             string          `json:"contactPhone,omitempty"`
	ContactRole              string          `json:"contactRole,omitempty"`
	IsUpfront                bool            `json:"isUpfront"`
	Organization             string          `json:"organization"`
	TaxID                    string          `json:"taxId,omitempty"`
	Project                  string          `json:"project"`
	ProjectDescription       string          `json:"projectDescription,omitempty"`
	IsEvent                  bool            `json:"isEvent"`
	ProjectLocation          string          `json:"projectLocation,omitempty"`
	ProjectStart             *time.Time      `json:"projectStart,omitempty"`
	ProjectEnd               *time.Time      `json:"projectEnd,omitempty"`
	CollegeAttendees         int             `json:"collegeAttendees,omitempty"`
	FacebookLink             string          `json:"facebookLink,omitempty"`
	RevenueLines             []RevenueLine   `json:"revenueLines" gorm:"serializer:json"`
	RequestedExpenses        []ExpenseLine   `json:"requestedExpenses" gorm:"serializer:json"`
	ApplicationComments      string          `json:"applicationComments,omitempty"`
	IsSmallGrant             bool            `json:"isSmallGrant"`

	// Small grant review (standard grants don't use these)
	SmallGrantReviewed   bool       `json:"smallGrantReviewed"`
	SmallGrantReviewer   string     `json:"smallGrantReviewer,omitempty"`
	SmallGrantReviewDate *time.Time `json:"smallGrantReviewDate,omitempty"`

	// Interview (small grants don't use these)
	Interviewer              string       `json:"interviewer,omitempty"`
	InterviewOccurred        bool         `json:"interviewOccurred"`
	InterviewDate            *time.Time   `json:"interviewDate,omitempty"`
	InterviewScheduleDate    *time.Time   `json:"interviewScheduleDate,omitempty"` // Next scheduled interview
	InterviewScheduleHistory []time.Time  `json:"interviewScheduleHistory,omitempty" gorm:"serializer:json"`
	InterviewerNotes         string       `json:"interviewerNotes,omitempty"`

	// Review allocation, cuts and pack decision
	Allocations              []AllocationLine `json:"allocations" gorm:"serializer:json"`
	PercentageCut            decimal.Decimal  `json:"percentageCut" gorm:"type:DECIMAL(20,8)"` // In [0,100], set by the cuts engine
	AmountAllocated          decimal.Decimal  `json:"amountAllocated" gorm:"type:DECIMAL(20,8)"`
	IsCollaborationConfirmed bool             `json:"isCollaborationConfirmed"` // Exempts the grant from pack-wide cuts
	ReceiptsDue              *time.Time       `json:"receiptsDue,omitempty"`
	GrantsPack               string           `json:"grantsPack,omitempty"`
	CouncilApproved          bool             `json:"councilApproved"`

	// Receipt reconciliation
	ActualExpenses           []ExpenseLine `json:"actualExpenses" gorm:"serializer:json"`
	ReceiptImages            []string      `json:"receiptImages,omitempty" gorm:"serializer:json"`
	CompletedProjectComments string        `json:"completedProjectComments,omitempty"`
	ReceiptsSubmitDate       *time.Time    `json:"receiptsSubmitDate,omitempty"`
	ReceiptsSubmitted        bool          `json:"receiptsSubmitted"`
	ReceiptsResubmitHistory  []time.Time   `json:"receiptsResubmitHistory,omitempty" gorm:"serializer:json"`

	// Treasurer
	IsPaid                 bool            `json:"isPaid"`
	ReceiptsReviewed       bool            `json:"receiptsReviewed"`
	PayDate                *time.Time      `json:"payDate,omitempty"`
	ReceiptsReviewer       string          `json:"receiptsReviewer,omitempty"`
	IsDirectDeposit        *bool           `json:"isDirectDeposit,omitempty"`
	CheckNumber            string          `json:"checkNumber,omitempty"`
	AmountDispensed        decimal.Decimal `json:"amountDispensed" gorm:"type:DECIMAL(20,8)"`
	TreasurerNotes         string          `json:"treasurerNotes,omitempty"`
	AmountSpent            decimal.Decimal `json:"amountSpent" gorm:"type:DECIMAL(20,8)"`
	MustReimburseCouncil   bool            `json:"mustReimburseCouncil"` // The organization spent less than the upfront grant dispensed
	ReimburseCouncilAmount decimal.Decimal `json:"reimburseCouncilAmount" gorm:"type:DECIMAL(20,8)"`
	ReimbursedCouncil      bool            `json:"reimbursedCouncil"`
}

// NormalizeGrantID canonicalizes a user supplied grant ID for lookup.
func NormalizeGrantID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func (g *Grant) BeforeSave(_ *gorm.DB) error {
	g.GrantID = NormalizeGrantID(g.GrantID)
	g.Organization = strings.TrimSpace(g.Organization)
	g.Project = strings.TrimSpace(g.Project)

	if g.SubmitTime.IsZero() {
		g.SubmitTime = time.Now().In(time.UTC)
	} else {
		g.SubmitTime = g.SubmitTime.In(time.UTC)
	}

	return nil
}

// PreCutTotal sums the reviewed per-category allocations without any
// cut applied. Unset categories count as zero.
func (g Grant) PreCutTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range g.Allocations {
		total = total.Add(a.Amount)
	}

	return total
}

// Denied reports whether the council reviewed the grant and allocated
// nothing.
func (g Grant) Denied() bool {
	return g.CouncilApproved && !g.AmountAllocated.IsPositive()
}

// Terminal reports whether the grant has completed its lifecycle.
func (g Grant) Terminal() bool {
	return g.IsPaid && (!g.MustReimburseCouncil || g.ReimbursedCouncil)
}

// DetermineSmallGrant decides at submission time whether a grant
// qualifies for the lighter small grant review. The amount must be
// below the cap and every populated requested expense must come from
// the small grant category allow-list.
func DetermineSmallGrant(requested decimal.Decimal, expenses []ExpenseLine) bool {
	if requested.GreaterThanOrEqual(SmallGrantCap) {
		return false
	}

	for _, e := range expenses {
		if e.Type == "" && e.Description == "" && e.Amount.IsZero() {
			continue
		}

		allowed := false
		for _, t := range SmallGrantExpenseTypes {
			if strings.EqualFold(e.Type, t) {
				allowed = true
				break
			}
		}

		if !allowed {
			return false
		}
	}

	return true
}
