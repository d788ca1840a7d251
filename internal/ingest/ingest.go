// Package ingest reconstructs and decodes the query strings the
// upstream survey tool sends when an application or a receipt
// submission comes in.
//
// The survey tool does not URL-encode ampersands inside free-text
// answers, so the raw query string cannot be parsed directly. The
// recovery walks the raw tokens and re-attaches every token that does
// not start a known field to the preceding field's value.
package ingest

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/grantflow/backend/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidNumber = errors.New("is not a valid number")
	ErrInvalidDate   = errors.New("is not a valid date, expected MM/DD/YYYY")
)

// dateFormat is the format the survey tool uses for dates.
const dateFormat = "01/02/2006"

// fields are all query string keys the survey tool is known to send,
// including the reserved "k" for the security key. A token only starts
// a new field when it begins with one of these names followed by "=".
var fields = knownFields()

func knownFields() []string {
	f := []string{
		"k",
		"grant_id",
		"amount_requested",
		"is_collaboration",
		"collaborators",
		"collaboration_explanation",
		"contact_first_name",
		"contact_last_name",
		"contact_email",
		"contact_phone",
		"contact_role",
		"is_upfront",
		"organization",
		"tax_id",
		"project",
		"project_description",
		"is_event",
		"project_location",
		"project_start",
		"project_end",
		"college_attendees",
		"facebook_link",
		"application_comments",
		"receipt_images",
		"completed_proj_comments",
	}

	for i := 1; i <= models.MaxRevenueLines; i++ {
		f = append(f,
			fmt.Sprintf("revenue%d_type", i),
			fmt.Sprintf("revenue%d_description", i),
			fmt.Sprintf("revenue%d_amount", i),
		)
	}

	for i := 1; i <= models.MaxRequestedExpenses; i++ {
		f = append(f,
			fmt.Sprintf("app_expense%d_type", i),
			fmt.Sprintf("app_expense%d_description", i),
			fmt.Sprintf("app_expense%d_amount", i),
		)
	}

	for i := 1; i <= models.MaxActualExpenses; i++ {
		f = append(f,
			fmt.Sprintf("expense%d_description", i),
			fmt.Sprintf("expense%d_amount", i),
		)
	}

	return f
}

func startsField(token string) bool {
	for _, field := range fields {
		if strings.HasPrefix(token, field+"=") {
			return true
		}
	}

	return false
}

// escapeToken escapes the characters the query string parser would
// otherwise misinterpret inside an unescaped free-text value.
func escapeToken(token string) string {
	token = strings.ReplaceAll(token, ";", "%3B")
	token = strings.ReplaceAll(token, "+", "%2B")
	return strings.ReplaceAll(token, "#", "%23")
}

// ParseQuery reconstructs the field boundaries of a raw query string
// and parses it as standard form-encoded pairs.
//
// This is a heuristic recovery, not a formal grammar: it assumes
// free-text answers never happen to start with "<field_name>=".
func ParseQuery(raw string) (url.Values, error) {
	tokens := strings.Split(raw, "&")

	parsed := make([]string, 0, len(tokens))
	for _, token := range tokens {
		// The first token always starts a field
		if len(parsed) == 0 || startsField(token) {
			parsed = append(parsed, escapeToken(token))
			continue
		}

		// Re-attach the token to the previous field's value with an
		// escaped ampersand
		parsed[len(parsed)-1] += "%26" + escapeToken(token)
	}

	return url.ParseQuery(strings.Join(parsed, "&"))
}

// first returns the first value for a key, or "" if the key is unset.
// Only the first element of each value list is used downstream.
func first(values url.Values, key string) string {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return ""
	}

	return v[0]
}

func parseAmount(values url.Values, key string) (decimal.Decimal, error) {
	raw := first(values, key)
	if raw == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %w", key, ErrInvalidNumber)
	}

	return amount, nil
}

func parseDate(values url.Values, key string) (*time.Time, error) {
	raw := first(values, key)
	if raw == "" {
		return nil, nil
	}

	date, err := time.ParseInLocation(dateFormat, raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%s %w", key, ErrInvalidDate)
	}

	return &date, nil
}

// The survey tool reports booleans with ad hoc string sentinels. These
// mappings must be preserved exactly for compatibility with the form.
func sentinelYes(v string) bool   { return v == "Yes" }
func sentinelOne(v string) bool   { return v == "1" }
func sentinelEvent(v string) bool { return v == "Event" }

// Application decodes a recovered query string into a new grant
// record. Unknown fields are ignored, malformed numeric fields fail
// the whole ingestion.
func Application(values url.Values) (models.Grant, error) {
	grant := models.Grant{
		IsCollaboration:          sentinelYes(first(values, "is_collaboration")),
		Collaborators:            first(values, "collaborators"),
		CollaborationExplanation: first(values, "collaboration_explanation"),
		ContactFirstName:         first(values, "contact_first_name"),
		ContactLastName:          first(values, "contact_last_name"),
		ContactEmail:             first(values, "contact_email"),
		ContactPhone:             first(values, "contact_phone"),
		ContactRole:              first(values, "contact_role"),
		IsUpfront:                sentinelOne(first(values, "is_upfront")),
		Organization:             first(values, "organization"),
		TaxID:                    first(values, "tax_id"),
		Project:                  first(values, "project"),
		ProjectDescription:       first(values, "project_description"),
		IsEvent:                  sentinelEvent(first(values, "is_event")),
		ProjectLocation:          first(values, "project_location"),
		FacebookLink:             first(values, "facebook_link"),
		ApplicationComments:      first(values, "application_comments"),
	}

	var err error
	grant.AmountRequested, err = parseAmount(values, "amount_requested")
	if err != nil {
		return models.Grant{}, err
	}

	grant.ProjectStart, err = parseDate(values, "project_start")
	if err != nil {
		return models.Grant{}, err
	}

	grant.ProjectEnd, err = parseDate(values, "project_end")
	if err != nil {
		return models.Grant{}, err
	}

	if raw := first(values, "college_attendees"); raw != "" {
		grant.CollegeAttendees, err = strconv.Atoi(raw)
		if err != nil {
			return models.Grant{}, fmt.Errorf("college_attendees %w", ErrInvalidNumber)
		}
	}

	for i := 1; i <= models.MaxRevenueLines; i++ {
		line := models.RevenueLine{
			Type:        first(values, fmt.Sprintf("revenue%d_type", i)),
			Description: first(values, fmt.Sprintf("revenue%d_description", i)),
		}

		line.Amount, err = parseAmount(values, fmt.Sprintf("revenue%d_amount", i))
		if err != nil {
			return models.Grant{}, err
		}

		if line.Type == "" && line.Description == "" && line.Amount.IsZero() {
			continue
		}

		grant.RevenueLines = append(grant.RevenueLines, line)
	}

	for i := 1; i <= models.MaxRequestedExpenses; i++ {
		line := models.ExpenseLine{
			Type:        first(values, fmt.Sprintf("app_expense%d_type", i)),
			Description: first(values, fmt.Sprintf("app_expense%d_description", i)),
		}

		line.Amount, err = parseAmount(values, fmt.Sprintf("app_expense%d_amount", i))
		if err != nil {
			return models.Grant{}, err
		}

		if line.Type == "" && line.Description == "" && line.Amount.IsZero() {
			continue
		}

		grant.RequestedExpenses = append(grant.RequestedExpenses, line)
	}

	grant.IsSmallGrant = models.DetermineSmallGrant(grant.AmountRequested, grant.RequestedExpenses)

	return grant, nil
}

// Receipts decodes a recovered query string into the reconciliation
// fields of an existing grant. With overwrite set, all previously
// submitted reconciliation values are cleared first and the previous
// submission date is recorded in the resubmission history.
func Receipts(values url.Values, grant *models.Grant, overwrite bool) error {
	if overwrite {
		if grant.ReceiptsSubmitDate != nil {
			grant.ReceiptsResubmitHistory = append(grant.ReceiptsResubmitHistory, *grant.ReceiptsSubmitDate)
		}

		grant.ActualExpenses = nil
		grant.CompletedProjectComments = ""
	}

	if raw := first(values, "receipt_images"); raw != "" {
		grant.ReceiptImages = cleanReceiptList(raw)
	}

	for i := 1; i <= models.MaxActualExpenses; i++ {
		line := models.ExpenseLine{
			Description: first(values, fmt.Sprintf("expense%d_description", i)),
		}

		amount, err := parseAmount(values, fmt.Sprintf("expense%d_amount", i))
		if err != nil {
			return err
		}
		line.Amount = amount

		if line.Description == "" && line.Amount.IsZero() {
			continue
		}

		grant.ActualExpenses = append(grant.ActualExpenses, line)
	}

	if comments := first(values, "completed_proj_comments"); comments != "" {
		grant.CompletedProjectComments = comments
	}

	now := time.Now().In(time.UTC)
	grant.ReceiptsSubmitDate = &now
	grant.ReceiptsSubmitted = true

	return nil
}

// cleanReceiptList normalizes the comma-separated receipt image list
// the survey tool sends, dropping empty entries and the trailing
// fencepost comma.
func cleanReceiptList(raw string) []string {
	var images []string
	for _, image := range strings.Split(raw, ",") {
		image = strings.TrimSpace(image)
		if image == "" {
			continue
		}

		images = append(images, image)
	}

	return images
}
