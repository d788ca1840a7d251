package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grantflow/backend/internal/auth"
	"github.com/grantflow/backend/internal/httputil"
	"github.com/grantflow/backend/internal/mail"
	"github.com/grantflow/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterReviewRoutes registers the review routes on the grant
// detail group.
func RegisterReviewRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:grantID/interview", httputil.OptionsPost)
	r.POST("/:grantID/interview", UpdateInterview)
	r.OPTIONS("/:grantID/small-grant-review", httputil.OptionsPost)
	r.POST("/:grantID/small-grant-review", SmallGrantReview)
}

// InterviewEditable is the request body for the interview endpoint.
// All fields are optional, scheduling and completion can happen in
// separate requests.
type InterviewEditable struct {
	ScheduleDate           *time.Time              `json:"scheduleDate" example:"2025-02-13T18:30:00Z"` // Schedules (or reschedules) the interview
	Occurred               bool                    `json:"occurred"`                                    // Marks the interview as completed
	Notes                  string                  `json:"notes"`
	Allocations            []models.AllocationLine `json:"allocations"`            // Reviewed per-category allocations
	CollaborationConfirmed *bool                   `json:"collaborationConfirmed"` // Confirmed collaborations are exempt from cuts
	Docket                 bool                    `json:"docket"`                 // Dockets the grant into the current grants pack
}

// validAllocations checks that every allocation references a known
// funding category.
func validAllocations(allocations []models.AllocationLine) bool {
	for _, a := range allocations {
		if !slices.Contains(models.AllocationCategories, a.Category) {
			return false
		}
	}

	return true
}

// docket assigns the grant to the current grants pack. Docketing into
// a finalized pack is refused.
func docket(grant *models.Grant) error {
	week, err := models.CurrentWeekPrefix(models.DB)
	if err != nil {
		return err
	}

	var pack models.GrantsWeek
	err = models.DB.First(&pack, "grant_week = ?", week).Error
	if err != nil {
		return err
	}

	if pack.Finalized {
		return models.ErrGrantsWeekFinalized
	}

	grant.GrantsPack = week
	return nil
}

// @Summary		Update interview
// @Description	Schedules or completes the interview of a standard grant and records the review outcome
// @Tags			Reviews
// @Accept			json
// @Produce		json
// @Success		200		{object}	GrantResponse
// @Failure		400		{object}	GrantResponse
// @Failure		404		{object}	GrantResponse
// @Failure		500		{object}	GrantResponse
// @Param			grantID	path		string				true	"The grant ID"
// @Param			body	body		InterviewEditable	true	"Interview update"
// @Router			/v1/grants/{grantID}/interview [post]
func UpdateInterview(c *gin.Context) {
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

	if grant.IsSmallGrant {
		s := errSmallGrantNoInterview.Error()
		c.JSON(http.StatusBadRequest, GrantResponse{Error: &s})
		return
	}

	var editable InterviewEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, GrantResponse{Error: &s})
		return
	}

	if !validAllocations(editable.Allocations) {
		s := errInvalidAllocationCategory.Error()
		c.JSON(http.StatusBadRequest, GrantResponse{Error: &s})
		return
	}

	scheduled := false
	if editable.ScheduleDate != nil {
		// A reschedule keeps the previous date in the history
		if grant.InterviewScheduleDate != nil {
			grant.InterviewScheduleHistory = append(grant.InterviewScheduleHistory, *grant.InterviewScheduleDate)
		}

		date := editable.ScheduleDate.In(time.UTC)
		grant.InterviewScheduleDate = &date
		scheduled = true
	}

	completed := false
	if editable.Occurred && !grant.InterviewOccurred {
		now := time.Now().In(time.UTC)
		grant.InterviewOccurred = true
		grant.InterviewDate = &now
		grant.Interviewer = auth.CurrentClaims(c).Name()
		completed = true
	}

	if editable.Notes != "" {
		grant.InterviewerNotes = editable.Notes
	}

	if editable.Allocations != nil {
		grant.Allocations = editable.Allocations
	}

	if editable.CollaborationConfirmed != nil {
		grant.IsCollaborationConfirmed = *editable.CollaborationConfirmed
	}

	if editable.Docket && grant.GrantsPack == "" {
		err = docket(&grant)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), GrantResponse{Error: &s})
			return
		}
	}

	err = models.DB.Save(&grant).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GrantResponse{Error: &s})
		return
	}

	if scheduled {
		mail.Notify(mail.EventInterviewScheduled, grant)
	}
	if completed {
		mail.Notify(mail.EventInterviewCompleted, grant)
	}

	c.JSON(http.StatusOK, GrantResponse{Data: &grant})
}

// SmallGrantReviewEditable is the request body for the small grant
// review endpoint.
type SmallGrantReviewEditable struct {
	Allocations            []models.AllocationLine `json:"allocations"`
	CollaborationConfirmed *bool                   `json:"collaborationConfirmed"`
	Docket                 bool                    `json:"docket"`
}

// @Summary		Review small grant
// @Description	Records the lightweight review of a small grant. Small grants skip the interview entirely.
// @Tags			Reviews
// @Accept			json
// @Produce		json
// @Success		200		{object}	GrantResponse
// @Failure		400		{object}	GrantResponse
// @Failure		404		{object}	GrantResponse
// @Failure		500		{object}	GrantResponse
// @Param			grantID	path		string						true	"The grant ID"
// @Param			body	body		SmallGrantReviewEditable	true	"Review"
// @Router			/v1/grants/{grantID}/small-grant-review [post]
func SmallGrantReview(c *gin.Context) {
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

	if !grant.IsSmallGrant {
		s := errNotSmallGrant.Error()
		c.JSON(http.StatusBadRequest, GrantResponse{Error: &s})
		return
	}

	var editable SmallGrantReviewEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, GrantResponse{Error: &s})
		return
	}

	if !validAllocations(editable.Allocations) {
		s := errInvalidAllocationCategory.Error()
		c.JSON(http.StatusBadRequest, GrantResponse{Error: &s})
		return
	}

	now := time.Now().In(time.UTC)
	grant.SmallGrantReviewed = true
	grant.SmallGrantReviewer = auth.CurrentClaims(c).Name()
	grant.SmallGrantReviewDate = &now

	if editable.Allocations != nil {
		grant.Allocations = editable.Allocations
	}

	if editable.CollaborationConfirmed != nil {
		grant.IsCollaborationConfirmed = *editable.CollaborationConfirmed
	}

	if editable.Docket && grant.GrantsPack == "" {
		err = docket(&grant)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), GrantResponse{Error: &s})
			return
		}
	}

	err = models.DB.Save(&grant).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GrantResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, GrantResponse{Data: &grant})
}
