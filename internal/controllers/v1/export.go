package v1

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/grantflow/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// exportHeader is the column layout of the CSV export.
var exportHeader = []string{
	"grant_id",
	"submit_time",
	"organization",
	"project",
	"contact_name",
	"contact_email",
	"is_upfront",
	"is_small_grant",
	"amount_requested",
	"grants_pack",
	"percentage_cut",
	"amount_allocated",
	"council_approved",
	"is_paid",
	"pay_date",
	"amount_dispensed",
	"receipts_submitted",
	"receipts_reviewed",
	"amount_spent",
	"must_reimburse_council",
	"reimburse_council_amount",
	"reimbursed_council",
}

func exportRow(g models.Grant) []string {
	payDate := ""
	if g.PayDate != nil {
		payDate = g.PayDate.Format("2006-01-02")
	}

	return []string{
		g.GrantID,
		g.SubmitTime.Format("2006-01-02 15:04:05"),
		g.Organization,
		g.Project,
		g.ContactFirstName + " " + g.ContactLastName,
		g.ContactEmail,
		strconv.FormatBool(g.IsUpfront),
		strconv.FormatBool(g.IsSmallGrant),
		g.AmountRequested.StringFixed(2),
		g.GrantsPack,
		g.PercentageCut.StringFixed(2),
		g.AmountAllocated.StringFixed(2),
		strconv.FormatBool(g.CouncilApproved),
		strconv.FormatBool(g.IsPaid),
		payDate,
		g.AmountDispensed.StringFixed(2),
		strconv.FormatBool(g.ReceiptsSubmitted),
		strconv.FormatBool(g.ReceiptsReviewed),
		g.AmountSpent.StringFixed(2),
		strconv.FormatBool(g.MustReimburseCouncil),
		g.ReimburseCouncilAmount.StringFixed(2),
		strconv.FormatBool(g.ReimbursedCouncil),
	}
}

// @Summary		Export grants
// @Description	Streams all grant records as CSV for semester bookkeeping
// @Tags			Export
// @Produce		text/csv
// @Success		200	{string}	string
// @Failure		500	{object}	httpError
// @Router			/v1/export [get]
func ExportGrants(c *gin.Context) {
	var grants []models.Grant
	err := models.DB.Order("grant_id ASC").Find(&grants).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="grants.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportHeader)
	for _, grant := range grants {
		_ = w.Write(exportRow(grant))
	}

	// The status line is already sent, a failed flush can only be logged
	w.Flush()
	if err := w.Error(); err != nil {
		log.Error().Err(err).Msg("grant export stream failed")
	}
}
