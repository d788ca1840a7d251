// Package mail sends the templated notification emails that accompany
// workflow transitions.
//
// The upstream mail relay misbehaves under concurrent sends, so all
// mail goes through a single background worker consuming a FIFO
// queue. Grants are snapshotted at enqueue time; mutating the live
// record afterwards never affects an already queued notification.
package mail

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/grantflow/backend/internal/models"
	"github.com/grantflow/backend/internal/progress"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/gomail.v2"
)

// Event tags the workflow transition a notification belongs to.
type Event string

const (
	EventSubmitted             Event = "submitted"
	EventPassed                Event = "passed"
	EventDenied                Event = "denied"
	EventInterviewScheduled    Event = "interview_scheduled"
	EventInterviewCompleted    Event = "interview_completed"
	EventDirectDeposit         Event = "direct_deposit"
	EventCheckReady            Event = "check_ready"
	EventReceiptsSubmitted     Event = "receipts_submitted"
	EventReceiptsReviewed      Event = "receipts_reviewed"
	EventReimbursementComplete Event = "reimbursement_complete"
)

// subjects per event. The receipts reviewed event sub-branches in
// subject() when money is owed.
var subjects = map[Event]string{
	EventSubmitted:             "Grant Application Submitted",
	EventPassed:                "Grant Application Passed",
	EventDenied:                "Grant Application Denied",
	EventInterviewScheduled:    "Grant Interview Scheduled",
	EventInterviewCompleted:    "Grant Interview Completed",
	EventDirectDeposit:         "Grant Funds Deposited",
	EventCheckReady:            "Grant Check Ready",
	EventReceiptsSubmitted:     "Grant Receipts Submitted",
	EventReceiptsReviewed:      "Grant Receipts Reviewed",
	EventReimbursementComplete: "Grant Process Complete",
}

// Snapshot is the immutable value copy of a grant handed to the
// worker.
type Snapshot struct {
	GrantID                string
	Organization           string
	Project                string
	ContactFirstName       string
	ContactEmail           string
	IsUpfront              bool
	AmountAllocated        decimal.Decimal
	AmountDispensed        decimal.Decimal
	PercentageCut          decimal.Decimal
	MustReimburseCouncil   bool
	ReimburseCouncilAmount decimal.Decimal
	CheckNumber            string
	PayDate                *time.Time
	InterviewScheduleDate  *time.Time
	ReceiptsDue            *time.Time
}

// NewSnapshot copies the fields the notification templates use out of
// a grant record.
func NewSnapshot(g models.Grant) Snapshot {
	return Snapshot{
		GrantID:                g.GrantID,
		Organization:           g.Organization,
		Project:                g.Project,
		ContactFirstName:       g.ContactFirstName,
		ContactEmail:           g.ContactEmail,
		IsUpfront:              g.IsUpfront,
		AmountAllocated:        g.AmountAllocated,
		AmountDispensed:        g.AmountDispensed,
		PercentageCut:          g.PercentageCut,
		MustReimburseCouncil:   g.MustReimburseCouncil,
		ReimburseCouncilAmount: g.ReimburseCouncilAmount,
		CheckNumber:            g.CheckNumber,
		PayDate:                g.PayDate,
		InterviewScheduleDate:  g.InterviewScheduleDate,
		ReceiptsDue:            g.ReceiptsDue,
	}
}

func subject(event Event, s Snapshot) string {
	if event == EventReceiptsReviewed && s.MustReimburseCouncil {
		return "Owed Money on Grant"
	}

	return subjects[event]
}

// templateName returns the body template for an event.
func templateName(event Event, s Snapshot) string {
	if event == EventReceiptsReviewed && s.MustReimburseCouncil {
		return "owed_money.html.tmpl"
	}

	return string(event) + ".html.tmpl"
}

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var printer = message.NewPrinter(language.AmericanEnglish)

// usd formats a decimal dollar amount with grouping, e.g. "$1,234.50".
func usd(d decimal.Decimal) string {
	f, _ := d.Float64()
	return printer.Sprintf("$%.2f", f)
}

var templates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"usd": usd,
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return progress.FormatDate(*t)
	},
	"datetime": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return progress.FormatDateTime(*t)
	},
}).ParseFS(templateFS, "templates/*.html.tmpl"))

var (
	mailSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "How many notification emails were sent, partitioned by event.",
	}, []string{"event"})

	mailFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "How many notification emails failed to send, partitioned by event.",
	}, []string{"event"})

	mailDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_dropped_total",
		Help: "How many notifications were dropped because the queue was full.",
	})
)

// Sender delivers a rendered message. *gomail.Dialer implements it.
type Sender interface {
	DialAndSend(...*gomail.Message) error
}

type envelope struct {
	event    Event
	snapshot Snapshot
}

// Dispatcher queues notifications and delivers them one at a time.
type Dispatcher struct {
	sender  Sender
	from    string
	enabled func() bool
	queue   chan envelope
	done    chan struct{}
}

// New creates a dispatcher. enabled is consulted on every enqueue so
// the email feature flag takes effect without a restart.
func New(sender Sender, from string, enabled func() bool) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		from:    from,
		enabled: enabled,
		queue:   make(chan envelope, 256),
		done:    make(chan struct{}),
	}
}

// Start launches the single consumer goroutine.
func (d *Dispatcher) Start() {
	go func() {
		defer close(d.done)

		for env := range d.queue {
			d.deliver(env)
		}
	}()
}

// Stop drains the queue and waits for the worker to finish.
func (d *Dispatcher) Stop() {
	close(d.queue)
	<-d.done
}

// Enqueue snapshots the grant and hands it to the worker. It never
// blocks the calling request: when the queue is full the notification
// is dropped and logged. Delivery is best effort by design.
func (d *Dispatcher) Enqueue(event Event, grant models.Grant) {
	if d.enabled != nil && !d.enabled() {
		return
	}

	if grant.ContactEmail == "" {
		return
	}

	select {
	case d.queue <- envelope{event: event, snapshot: NewSnapshot(grant)}:
	default:
		mailDropped.Inc()
		log.Warn().Str("grant", grant.GrantID).Str("event", string(event)).Msg("notification queue full, dropping")
	}
}

func (d *Dispatcher) deliver(env envelope) {
	var body bytes.Buffer
	err := templates.ExecuteTemplate(&body, templateName(env.event, env.snapshot), env.snapshot)
	if err != nil {
		mailFailed.WithLabelValues(string(env.event)).Inc()
		log.Error().Err(err).Str("event", string(env.event)).Msg("notification template failed")
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", env.snapshot.ContactEmail)
	m.SetHeader("Subject", subject(env.event, env.snapshot))
	m.SetBody("text/html", body.String())

	err = d.sender.DialAndSend(m)
	if err != nil {
		// Failures are not retried and never surfaced to the applicant
		mailFailed.WithLabelValues(string(env.event)).Inc()
		log.Error().Err(err).Str("grant", env.snapshot.GrantID).Str("event", string(env.event)).Msg("notification send failed")
		return
	}

	mailSent.WithLabelValues(string(env.event)).Inc()
}

// Default is the dispatcher the controllers use. It stays nil in tests
// that don't exercise notifications.
var Default *Dispatcher

// Notify enqueues a notification on the default dispatcher, if one is
// configured.
func Notify(event Event, grant models.Grant) {
	if Default == nil {
		return
	}

	Default.Enqueue(event, grant)
}
