package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grantflow/backend/internal/httputil"
	"github.com/grantflow/backend/internal/ingest"
	"github.com/grantflow/backend/internal/mail"
	"github.com/grantflow/backend/internal/models"
	"github.com/grantflow/backend/internal/progress"
	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// RegisterApplicantRoutes registers the plain text endpoints the
// survey tool and the applicants call. They are gated by the shared
// security key instead of staff tokens.
func RegisterApplicantRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/new_grant", httputil.OptionsGet)
	r.GET("/new_grant", NewGrant)
	r.OPTIONS("/receipts", httputil.OptionsGetPost)
	r.GET("/receipts", SubmitReceipts)
	r.POST("/receipts", SubmitReceipts)
	r.OPTIONS("/resubmit-receipts", httputil.OptionsGetPost)
	r.GET("/resubmit-receipts", ResubmitReceipts)
	r.POST("/resubmit-receipts", ResubmitReceipts)
}

// RegisterGrantRoutes registers the staff facing grant record routes.
func RegisterGrantRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", GetGrants)
	r.OPTIONS("/:grantID", httputil.OptionsGet)
	r.GET("/:grantID", GetGrant)
}

// securityKeyValid checks the "k" query parameter against the
// configured shared key. An empty configured key disables the check,
// which is only sensible for local development.
func securityKeyValid(provided string) bool {
	key, err := models.GetSetting(models.DB, models.SettingSecurityKey)
	if err != nil {
		return false
	}

	return key == "" || provided == key
}

// @Summary		Submit grant application
// @Description	Ingests a grant application from the survey tool and returns the assigned grant ID as plain text
// @Tags			Applicants
// @Produce		plain
// @Success		200	{string}	string	"The assigned grant ID"
// @Failure		400	{string}	string
// @Failure		403	{string}	string
// @Param			k	query		string	true	"Shared security key"
// @Router			/new_grant [get]
func NewGrant(c *gin.Context) {
	// The raw query is parsed with the field boundary recovery, the
	// survey tool does not escape ampersands in free text answers
	values, err := ingest.ParseQuery(c.Request.URL.RawQuery)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if !securityKeyValid(values.Get("k")) {
		c.String(http.StatusForbidden, errWrongSecurityKey.Error())
		return
	}

	grant, err := ingest.Application(values)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	grant.GrantID, err = models.NextGrantID(models.DB)
	if err != nil {
		c.String(status(err), err.Error())
		return
	}

	if grant.Organization != "" {
		_, err = models.EnsureOrganization(models.DB, grant.Organization)
		if err != nil {
			c.String(status(err), err.Error())
			return
		}
	}

	err = models.DB.Create(&grant).Error
	if err != nil {
		c.String(status(err), err.Error())
		return
	}

	log.Info().Str("grant", grant.GrantID).Str("organization", grant.Organization).Msg("application received")
	mail.Notify(mail.EventSubmitted, grant)

	c.String(http.StatusOK, grant.GrantID)
}

// @Summary		Submit receipts
// @Description	Ingests the receipt submission for a paid out grant
// @Tags			Applicants
// @Produce		plain
// @Success		200			{string}	string
// @Failure		400			{string}	string
// @Failure		403			{string}	string
// @Failure		404			{string}	string
// @Param			k			query		string	true	"Shared security key"
// @Param			grant_id	query		string	true	"The grant ID the receipts belong to"
// @Router			/receipts [get]
func SubmitReceipts(c *gin.Context) {
	receipts(c, false)
}

// @Summary		Resubmit receipts
// @Description	Replaces a previous receipt submission. The previous submission date is kept in the resubmission history.
// @Tags			Applicants
// @Produce		plain
// @Success		200			{string}	string
// @Failure		400			{string}	string
// @Failure		403			{string}	string
// @Failure		404			{string}	string
// @Param			k			query		string	true	"Shared security key"
// @Param			grant_id	query		string	true	"The grant ID the receipts belong to"
// @Router			/resubmit-receipts [get]
func ResubmitReceipts(c *gin.Context) {
	receipts(c, true)
}

func receipts(c *gin.Context, overwrite bool) {
	values, err := ingest.ParseQuery(c.Request.URL.RawQuery)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if !securityKeyValid(values.Get("k")) {
		c.String(http.StatusForbidden, errWrongSecurityKey.Error())
		return
	}

	grantID := values.Get("grant_id")
	if grantID == "" {
		c.String(http.StatusBadRequest, errGrantIDMissing.Error())
		return
	}

	var grant models.Grant
	err = models.DB.First(&grant, "grant_id = ?", models.NormalizeGrantID(grantID)).Error
	if err != nil {
		c.String(status(err), err.Error())
		return
	}

	if grant.ReceiptsSubmitted && !overwrite {
		c.String(http.StatusBadRequest, errReceiptsExist.Error())
		return
	}

	err = ingest.Receipts(values, &grant, overwrite)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	err = models.DB.Save(&grant).Error
	if err != nil {
		c.String(status(err), err.Error())
		return
	}

	mail.Notify(mail.EventReceiptsSubmitted, grant)

	c.String(http.StatusOK, "Receipts received for "+grant.GrantID)
}

// StatusData is the payload of the public status endpoint. It exposes
// only what the status page shows, never the full record.
type StatusData struct {
	GrantID      string            `json:"grantId" example:"S25-3-14"`
	Organization string            `json:"organization"`
	Project      string            `json:"project"`
	Progress     progress.Progress `json:"progress"`
}

type StatusResponse struct {
	Data  *StatusData `json:"data"`
	Error *string     `json:"error"`
}

// @Summary		Get grant status
// @Description	Returns the progress of a grant for the public status page
// @Tags			Applicants
// @Produce		json
// @Success		200	{object}	StatusResponse
// @Failure		404	{object}	StatusResponse
// @Param			grantID	path	string	true	"The grant ID"
// @Router			/v1/grants/{grantID}/status [get]
func GetGrantStatus(c *gin.Context) {
	var uri URIGrantID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), StatusResponse{Error: &s})
		return
	}

	var grant models.Grant
	err = models.DB.First(&grant, "grant_id = ?", models.NormalizeGrantID(uri.GrantID)).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), StatusResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Data: &StatusData{
			GrantID:      grant.GrantID,
			Organization: grant.Organization,
			Project:      grant.Project,
			Progress:     progress.Calculate(grant, time.Now()),
		},
	})
}

type GrantResponse struct {
	Data  *models.Grant `json:"data"`
	Error *string       `json:"error"`
}

type GrantListResponse struct {
	Data       []models.Grant `json:"data"`
	Error      *string        `json:"error"`
	Pagination *Pagination    `json:"pagination"`
}

// GrantQueryFilter are the query parameters of the grant list
// endpoint. Organization and project support glob matching.
type GrantQueryFilter struct {
	Organization string `form:"organization" example:"Chess*"`
	Project      string `form:"project"`
	GrantsPack   string `form:"grantsPack" example:"S25-3"`
	Upfront      *bool  `form:"upfront"`
	SmallGrant   *bool  `form:"smallGrant"`
	Approved     *bool  `form:"approved"`
	Paid         *bool  `form:"paid"`
	Offset       uint   `form:"offset"`
	Limit        int    `form:"limit"`
}

// @Summary		Get grants
// @Description	Returns a list of grant records
// @Tags			Grants
// @Produce		json
// @Success		200	{object}	GrantListResponse
// @Failure		400	{object}	GrantListResponse
// @Failure		500	{object}	GrantListResponse
// @Router			/v1/grants [get]
// @Param			organization	query	string	false	"Filter by organization, supports * globs"
// @Param			project			query	string	false	"Filter by project, supports * globs"
// @Param			grantsPack		query	string	false	"Filter by grants pack"
// @Param			upfront			query	bool	false	"Filter by upfront funding"
// @Param			smallGrant		query	bool	false	"Filter by small grant track"
// @Param			approved		query	bool	false	"Filter by council approval"
// @Param			paid			query	bool	false	"Filter by payout"
// @Param			offset			query	uint	false	"The offset of the first grant returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of grants to return. Defaults to 50."
func GetGrants(c *gin.Context) {
	var filter GrantQueryFilter

	// Every parameter is bound into a string or a pointer, this always
	// succeeds
	_ = c.Bind(&filter)

	q := models.DB.Order("submit_time ASC, grant_id ASC")

	if filter.GrantsPack != "" {
		q = q.Where("grants_pack = ?", filter.GrantsPack)
	}
	if filter.Upfront != nil {
		q = q.Where("is_upfront = ?", *filter.Upfront)
	}
	if filter.SmallGrant != nil {
		q = q.Where("is_small_grant = ?", *filter.SmallGrant)
	}
	if filter.Approved != nil {
		q = q.Where("council_approved = ?", *filter.Approved)
	}
	if filter.Paid != nil {
		q = q.Where("is_paid = ?", *filter.Paid)
	}

	var grants []models.Grant
	err := q.Find(&grants).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GrantListResponse{Error: &s})
		return
	}

	// Glob filters run in memory, SQLite LIKE cannot express them
	grants = slices.DeleteFunc(grants, func(g models.Grant) bool {
		if filter.Organization != "" && !glob.Glob(filter.Organization, g.Organization) {
			return true
		}

		return filter.Project != "" && !glob.Glob(filter.Project, g.Project)
	})

	total := int64(len(grants))

	if filter.Offset > uint(len(grants)) {
		grants = nil
	} else {
		grants = grants[filter.Offset:]
	}

	limit := 50
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	if limit < len(grants) {
		grants = grants[:limit]
	}

	if grants == nil {
		grants = make([]models.Grant, 0)
	}

	c.JSON(http.StatusOK, GrantListResponse{
		Data: grants,
		Pagination: &Pagination{
			Count:  len(grants),
			Total:  total,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get grant
// @Description	Returns the full record of a specific grant
// @Tags			Grants
// @Produce		json
// @Success		200	{object}	GrantResponse
// @Failure		404	{object}	GrantResponse
// @Failure		500	{object}	GrantResponse
// @Param			grantID	path	string	true	"The grant ID"
// @Router			/v1/grants/{grantID} [get]
func GetGrant(c *gin.Context) {
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

	c.JSON(http.StatusOK, GrantResponse{Data: &grant})
}
