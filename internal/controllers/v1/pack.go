package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grantflow/backend/internal/cuts"
	"github.com/grantflow/backend/internal/httputil"
	"github.com/grantflow/backend/internal/mail"
	"github.com/grantflow/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// RegisterPackRoutes registers the grants pack routes.
func RegisterPackRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:week/cuts", httputil.OptionsGetPost)
	r.GET("/:week/cuts", GetCuts)
	r.POST("/:week/cuts", FinalizeCuts)
	r.OPTIONS("/:week/approve", httputil.OptionsPost)
	r.POST("/:week/approve", ApprovePack)
}

type CutsResponse struct {
	Data  *cuts.Summary `json:"data"`
	Error *string       `json:"error"`
}

// @Summary		Preview cuts
// @Description	Computes the cuts for a grants pack without persisting anything
// @Tags			GrantsPacks
// @Produce		json
// @Success		200		{object}	CutsResponse
// @Failure		400		{object}	CutsResponse
// @Failure		404		{object}	CutsResponse
// @Failure		500		{object}	CutsResponse
// @Param			week	path		string	true	"The grants pack, e.g. S25-3"
// @Router			/v1/grants-packs/{week}/cuts [get]
func GetCuts(c *gin.Context) {
	var uri URIWeek
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CutsResponse{Error: &s})
		return
	}

	summary, err := cuts.Preview(models.DB, uri.Week)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CutsResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, CutsResponse{Data: &summary})
}

// @Summary		Finalize cuts
// @Description	Applies the cuts to every grant in the pack and locks the pack. A finalized pack cannot be recalculated.
// @Tags			GrantsPacks
// @Produce		json
// @Success		200		{object}	CutsResponse
// @Failure		400		{object}	CutsResponse
// @Failure		404		{object}	CutsResponse
// @Failure		500		{object}	CutsResponse
// @Param			week	path		string	true	"The grants pack, e.g. S25-3"
// @Router			/v1/grants-packs/{week}/cuts [post]
func FinalizeCuts(c *gin.Context) {
	var uri URIWeek
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CutsResponse{Error: &s})
		return
	}

	summary, err := cuts.Finalize(models.DB, uri.Week)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CutsResponse{Error: &s})
		return
	}

	log.Info().Str("pack", uri.Week).Str("allocated", summary.TotalAllocated.String()).Msg("grants pack finalized")

	c.JSON(http.StatusOK, CutsResponse{Data: &summary})
}

type ApproveResponse struct {
	Approved int     `json:"approved"` // Grants newly marked as council approved
	Denied   int     `json:"denied"`   // Of those, grants with a zero allocation
	Error    *string `json:"error"`
}

// @Summary		Approve pack
// @Description	Marks every grant of a finalized pack as council approved and notifies the applicants. Already approved grants are skipped, the endpoint can be retried safely.
// @Tags			GrantsPacks
// @Produce		json
// @Success		200		{object}	ApproveResponse
// @Failure		400		{object}	ApproveResponse
// @Failure		404		{object}	ApproveResponse
// @Failure		500		{object}	ApproveResponse
// @Param			week	path		string	true	"The grants pack, e.g. S25-3"
// @Router			/v1/grants-packs/{week}/approve [post]
func ApprovePack(c *gin.Context) {
	var uri URIWeek
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ApproveResponse{Error: &s})
		return
	}

	var week models.GrantsWeek
	err = models.DB.First(&week, "grant_week = ?", uri.Week).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ApproveResponse{Error: &s})
		return
	}

	if !week.Finalized {
		s := errPackNotFinalized.Error()
		c.JSON(http.StatusBadRequest, ApproveResponse{Error: &s})
		return
	}

	var grants []models.Grant
	err = models.DB.
		Where("grants_pack = ? AND council_approved = ?", uri.Week, false).
		Order("grant_id ASC").
		Find(&grants).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ApproveResponse{Error: &s})
		return
	}

	response := ApproveResponse{}
	for i := range grants {
		grant := &grants[i]
		grant.CouncilApproved = true

		err = models.DB.Model(grant).Select("CouncilApproved").Updates(models.Grant{CouncilApproved: true}).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), ApproveResponse{Error: &s})
			return
		}

		if grant.AmountAllocated.IsPositive() {
			response.Approved++
			mail.Notify(mail.EventPassed, *grant)
		} else {
			response.Approved++
			response.Denied++
			mail.Notify(mail.EventDenied, *grant)
		}
	}

	c.JSON(http.StatusOK, response)
}
