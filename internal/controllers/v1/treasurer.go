package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grantflow/backend/internal/auth"
	"github.com/grantflow/backend/internal/httputil"
	"github.com/grantflow/backend/internal/mail"
	"github.com/grantflow/backend/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// receiptsGracePeriod is how long an organization has to submit
// receipts after an upfront payout.
const receiptsGracePeriod = 30 * 24 * time.Hour

// RegisterTreasurerRoutes registers the disbursement and
// reconciliation routes.
func RegisterTreasurerRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:grantID", httputil.OptionsPost)
	r.POST("/:grantID", Disburse)
	r.OPTIONS("/upfront/:grantID", httputil.OptionsPost)
	r.POST("/upfront/:grantID", ReviewUpfrontReceipts)
	r.OPTIONS("/upfront/:grantID/reimbursed", httputil.OptionsPost)
	r.POST("/upfront/:grantID/reimbursed", MarkReimbursed)
}

// DisburseEditable is the request body for the disbursement endpoint.
type DisburseEditable struct {
	IsDirectDeposit bool             `json:"isDirectDeposit"`
	CheckNumber     string           `json:"checkNumber" example:"1374"` // Required when not a direct deposit
	Amount          *decimal.Decimal `json:"amount"`                     // Defaults to the allocated amount
	BankName        string           `json:"bankName"`                   // Updates the organization's bank on file
	Notes           string           `json:"notes"`
}

// @Summary		Disburse grant
// @Description	Pays out an approved grant. Upfront grants start their receipts deadline, retroactive grants complete with the payout.
// @Tags			Treasurer
// @Accept			json
// @Produce		json
// @Success		200		{object}	GrantResponse
// @Failure		400		{object}	GrantResponse
// @Failure		404		{object}	GrantResponse
// @Failure		500		{object}	GrantResponse
// @Param			grantID	path		string				true	"The grant ID"
// @Param			body	body		DisburseEditable	true	"Disbursement"
// @Router			/v1/treasurer/{grantID} [post]
func Disburse(c *gin.Context) {
	var uri URIGrantID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GrantResponse{Error: &s})
		return
	}

	var grant models.Grant
	err = models.DB.First(&grant, "grant_id = ?", models.NormalizeGrantID(uri.GrantID)).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GrantResponse{Error: &s})
		return
	}

	if !grant.CouncilApproved || !grant.AmountAllocated.IsPositive() {
		s := models.ErrGrantNotApproved.Error()
		c.JSON(http.StatusBadRequest, GrantResponse{Error: &s})
		return
	}

	if grant.IsPaid {
		s := models.ErrGrantAlreadyPaid.Error()
		c.JSON(http.StatusBadRequest, GrantResponse{Error: &s})
		return
	}

	// Retroactive grants are paid against submitted receipts
	if !grant.IsUpfront && !grant.ReceiptsSubmitted {
		s := errReceiptsNotSubmitted.Error()
		c.JSON(http.StatusBadRequest, GrantResponse{Error: &s})
		return
	}

	var editable DisburseEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, GrantResponse{Error: &s})
		return
	}

	now := time.Now().In(time.UTC)

	grant.IsPaid = true
	grant.PayDate = &now
	grant.IsDirectDeposit = &editable.IsDirectDeposit
	grant.CheckNumber = editable.CheckNumber
	grant.TreasurerNotes = editable.Notes

	grant.AmountDispensed = grant.AmountAllocated
	if editable.Amount != nil {
		grant.AmountDispensed = *editable.Amount
	}

	if grant.IsUpfront {
		due := now.Add(receiptsGracePeriod)
		grant.ReceiptsDue = &due
	} else {
		// The payout closes out a retroactive grant
		grant.ReceiptsReviewed = true
		grant.ReceiptsReviewer = auth.CurrentClaims(c).Name()
	}

	err = models.DB.Save(&grant).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GrantResponse{Error: &s})
		return
	}

	if editable.BankName != "" && grant.Organization != "" {
		err = models.DB.Model(&models.Organization{}).
			Where("name = ?", grant.Organization).
			Update("bank_name", editable.BankName).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), GrantResponse{Error: &s})
			return
		}
	}

	log.Info().Str("grant", grant.GrantID).Str("amount", grant.AmountDispensed.String()).Msg("grant disbursed")

	if editable.IsDirectDeposit {
		mail.Notify(mail.EventDirectDeposit, grant)
	} else {
		mail.Notify(mail.EventCheckReady, grant)
	}

	c.JSON(http.StatusOK, GrantResponse{Data: &grant})
}

// UpfrontReviewEditable is the request body for the upfront receipt
// review endpoint.
type UpfrontReviewEditable struct {
	VerifiedSpend *decimal.Decimal `json:"verifiedSpend"` // Defaults to the sum of the submitted expense lines
	Notes         string           `json:"notes"`
}

// @Summary		Review upfront receipts
// @Description	Reconciles the receipts of a paid out upfront grant. When the verified spending falls short of the dispensed amount, the organization owes the difference back to the council.
// @Tags			Treasurer
// @Accept			json
// @Produce		json
// @Success		200		{object}	GrantResponse
// @Failure		400		{object}	GrantResponse
// @Failure		404		{object}	GrantResponse
// @Failure		500		{object}	GrantResponse
// @Param			grantID	path		string					true	"The grant ID"
// @Param			body	body		UpfrontReviewEditable	true	"Review"
// @Router			/v1/treasurer/upfront/{grantID} [post]
func ReviewUpfrontReceipts(c *gin.Context) {
	var uri URIGrantID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GrantResponse{Error: &s})
		return
	}

	var grant models.Grant
	err = models.DB.First(&grant, "grant_id = ?", models.NormalizeGrantID(uri.GrantID)).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GrantResponse{Error: &s})
		return
	}

	if !grant.IsUpfront {
		s := errNotUpfront.Error()
		c.JSON(http.StatusBadRequest, GrantResponse{Error: &s})
		return
	}

	if !grant.ReceiptsSubmitted {
		s := errReceiptsNotSubmitted.Error()
		c.JSON(http.StatusBadRequest, GrantResponse{Error: &s})
		return
	}

	var editable UpfrontReviewEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, GrantResponse{Error: &s})
		return
	}

	spent := decimal.Zero
	for _, line := range grant.ActualExpenses {
		spent = spent.Add(line.Amount)
	}
	if editable.VerifiedSpend != nil {
		spent = *editable.VerifiedSpend
	}

	grant.AmountSpent = spent
	grant.ReceiptsReviewed = true
	grant.ReceiptsReviewer = auth.CurrentClaims(c).Name()
	if editable.Notes != "" {
		grant.TreasurerNotes = editable.Notes
	}

	if spent.LessThan(grant.AmountDispensed) {
		grant.MustReimburseCouncil = true
		grant.ReimburseCouncilAmount = grant.AmountDispensed.Sub(spent).Round(2)
	} else {
		grant.MustReimburseCouncil = false
		grant.ReimburseCouncilAmount = decimal.Zero
	}

	err = models.DB.Save(&grant).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GrantResponse{Error: &s})
		return
	}

	mail.Notify(mail.EventReceiptsReviewed, grant)

	c.JSON(http.StatusOK, GrantResponse{Data: &grant})
}

// @Summary		Mark grant reimbursed
// @Description	Records that the organization has paid back the amount it owed the council, completing the grant.
// @Tags			Treasurer
// @Produce		json
// @Success		200		{object}	GrantResponse
// @Failure		400		{object}	GrantResponse
// @Failure		404		{object}	GrantResponse
// @Failure		500		{object}	GrantResponse
// @Param			grantID	path		string	true	"The grant ID"
// @Router			/v1/treasurer/upfront/{grantID}/reimbursed [post]
func MarkReimbursed(c *gin.Context) {
	var uri URIGrantID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GrantResponse{Error: &s})
		return
	}

	var grant models.Grant
	err = models.DB.First(&grant, "grant_id = ?", models.NormalizeGrantID(uri.GrantID)).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GrantResponse{Error: &s})
		return
	}

	if !grant.MustReimburseCouncil {
		s := errNoReimbursementDue.Error()
		c.JSON(http.StatusBadRequest, GrantResponse{Error: &s})
		return
	}

	grant.ReimbursedCouncil = true

	err = models.DB.Save(&grant).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GrantResponse{Error: &s})
		return
	}

	mail.Notify(mail.EventReimbursementComplete, grant)

	c.JSON(http.StatusOK, GrantResponse{Data: &grant})
}
