// Package progress derives the human readable stage and the progress
// bar percentage for a grant's status page.
//
// There is no single linear state machine: two orthogonal flags
// (upfront funding and small grant) select one of four tracks. Each
// track is a strictly ordered list of milestones checked in reverse
// chronological order, so the first match wins and implies all earlier
// milestones are satisfied.
//
// The percentages are hand tuned progress bar values, not computed
// proportions. They must stay exactly as they are.
package progress

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/grantflow/backend/internal/models"
)

// Progress describes the current stage of a grant for display.
type Progress struct {
	Percentage float64 `json:"percentage" example:"0.56"` // In [0,1]
	Message    string  `json:"message" example:"Approved. Funds Processing."`
}

type milestone struct {
	match  func(g models.Grant, now time.Time) bool
	render func(g models.Grant) Progress
}

// Calculate returns the progress of a grant at the given time. It is a
// pure function of the record, all date rendering happens here and
// never at write time.
func Calculate(g models.Grant, now time.Time) Progress {
	var track []milestone
	switch {
	case g.IsUpfront && g.IsSmallGrant:
		track = upfrontSmall
	case g.IsUpfront:
		track = upfrontStandard
	case g.IsSmallGrant:
		track = retroactiveSmall
	default:
		track = retroactiveStandard
	}

	for _, m := range track {
		if m.match(g, now) {
			return m.render(g)
		}
	}

	// The last milestone of every track matches unconditionally
	return Progress{}
}

var easternOnce sync.Once
var eastern *time.Location

// easternZone returns the US Eastern location the council operates in.
func easternZone() *time.Location {
	easternOnce.Do(func() {
		var err error
		eastern, err = time.LoadLocation("America/New_York")
		if err != nil {
			eastern = time.UTC
		}
	})

	return eastern
}

// FormatDate renders a stored UTC timestamp as an Eastern date.
func FormatDate(t time.Time) string {
	return t.In(easternZone()).Format("January 2, 2006")
}

// FormatDateTime renders a stored UTC timestamp as an Eastern date and
// time.
func FormatDateTime(t time.Time) string {
	return t.In(easternZone()).Format("January 2, 2006 3:04 PM")
}

func always(models.Grant, time.Time) bool { return true }

func static(percentage float64, message string) func(models.Grant) Progress {
	return func(models.Grant) Progress {
		return Progress{Percentage: percentage, Message: message}
	}
}

// receiptsOverdue reports whether an upfront grant has been paid out
// but receipts were not submitted by the deadline. The council
// escalates these to a funding hearing.
func receiptsOverdue(g models.Grant, now time.Time) bool {
	return g.IsPaid && !g.ReceiptsSubmitted && g.ReceiptsDue != nil && now.After(*g.ReceiptsDue)
}

func mustReimburse(g models.Grant, _ time.Time) bool {
	return g.MustReimburseCouncil
}

func receiptsReviewed(g models.Grant, _ time.Time) bool {
	return g.ReceiptsReviewed
}

func receiptsSubmitted(g models.Grant, _ time.Time) bool {
	return g.ReceiptsSubmitted
}

func paid(g models.Grant, _ time.Time) bool {
	return g.IsPaid
}

func fundsProcessing(g models.Grant, _ time.Time) bool {
	return g.CouncilApproved && g.AmountAllocated.IsPositive()
}

func denied(g models.Grant, _ time.Time) bool {
	return g.Denied()
}

func docketed(g models.Grant, _ time.Time) bool {
	return g.GrantsPack != ""
}

func interviewOccurred(g models.Grant, _ time.Time) bool {
	return g.InterviewOccurred
}

func renderReimbursement(g models.Grant) Progress {
	if g.ReimbursedCouncil {
		return Progress{Percentage: 1.0, Message: "Grant complete. Thank you for reimbursing the council."}
	}

	return Progress{
		Percentage: 0.9,
		Message:    fmt.Sprintf("Your organization owes the council $%s. The grant completes once the reimbursement is received.", g.ReimburseCouncilAmount.StringFixed(2)),
	}
}

// renderPaid sub-branches the message on the payment method.
func renderPaid(percentage float64, submitReceipts bool) func(g models.Grant) Progress {
	return func(g models.Grant) Progress {
		message := "Funds dispensed."

		if g.IsDirectDeposit != nil {
			if *g.IsDirectDeposit {
				message = "Funds direct deposited into your organization's account"
				if g.PayDate != nil {
					message += " on " + FormatDate(*g.PayDate)
				}
				message += "."
			} else {
				message = "Check #" + g.CheckNumber + " is ready for pickup at the council office."
			}
		}

		if submitReceipts {
			message += " Submit your receipts once the project is complete."
		}

		return Progress{Percentage: percentage, Message: message}
	}
}

// renderScheduling sub-branches the base milestone of the standard
// tracks on whether an interview has been scheduled yet.
func renderScheduling(percentage float64) func(g models.Grant) Progress {
	return func(g models.Grant) Progress {
		if g.InterviewScheduleDate != nil {
			return Progress{
				Percentage: percentage,
				Message:    "Interview scheduled for " + FormatDateTime(*g.InterviewScheduleDate) + ".",
			}
		}

		return Progress{Percentage: percentage, Message: "Interview being scheduled."}
	}
}

// renderUnderReview sub-branches the base milestone of the small
// tracks on whether the review has happened.
func renderUnderReview(percentage float64) func(g models.Grant) Progress {
	return func(g models.Grant) Progress {
		if g.SmallGrantReviewed {
			return Progress{Percentage: percentage, Message: "Review complete. Awaiting docketing."}
		}

		return Progress{Percentage: percentage, Message: "Application under review."}
	}
}

var upfrontSmall = []milestone{
	{receiptsOverdue, static(0.9, "Receipts are overdue. A funding hearing is pending.")},
	{mustReimburse, renderReimbursement},
	{receiptsReviewed, static(1.0, "Grant complete. Receipts reviewed and approved.")},
	{receiptsSubmitted, static(0.85, "Receipts Processing")},
	{paid, renderPaid(0.68, true)},
	{fundsProcessing, static(0.51, "Approved. Funds Processing.")},
	{denied, static(1.0, "Grant Denied")},
	{docketed, static(0.34, "Docketed for council review")},
	{always, renderUnderReview(0.17)},
}

var upfrontStandard = []milestone{
	{receiptsOverdue, static(0.9, "Receipts are overdue. A funding hearing is pending.")},
	{mustReimburse, renderReimbursement},
	{receiptsReviewed, static(1.0, "Grant complete. Receipts reviewed and approved.")},
	{receiptsSubmitted, static(0.84, "Receipts Processing")},
	{paid, renderPaid(0.70, true)},
	{fundsProcessing, static(0.56, "Approved. Funds Processing.")},
	{denied, static(1.0, "Grant Denied")},
	{docketed, static(0.42, "Docketed for council review")},
	{interviewOccurred, static(0.28, "Interview complete. Awaiting docketing.")},
	{always, renderScheduling(0.14)},
}

var retroactiveSmall = []milestone{
	{paid, renderPaid(1.0, false)},
	{receiptsSubmitted, static(0.8, "Receipts Processing")},
	{fundsProcessing, static(0.6, "Approved. Submit your receipts to receive your funds.")},
	{denied, static(1.0, "Grant Denied")},
	{docketed, static(0.4, "Docketed for council review")},
	{always, renderUnderReview(0.2)},
}

var retroactiveStandard = []milestone{
	{paid, renderPaid(1.0, false)},
	{receiptsSubmitted, static(0.83, "Receipts Processing")},
	{fundsProcessing, static(0.67, "Approved. Submit your receipts to receive your funds.")},
	{denied, static(1.0, "Grant Denied")},
	{docketed, static(0.5, "Docketed for council review")},
	{interviewOccurred, static(0.33, "Interview complete. Awaiting docketing.")},
	{always, renderScheduling(0.17)},
}
