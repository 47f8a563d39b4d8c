package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"payslips/internal/domain/payroll"
	"payslips/internal/platform/email"
)

type Resolver interface {
	Resolve(name string) (string, error)
}

type Renderer interface {
	Render(ctx context.Context, pc payroll.Context) ([]byte, error)
}

type Sender interface {
	Send(ctx context.Context, msg email.Message) error
}

// Outcome is the terminal state of one record in a run.
type Outcome struct {
	RunID    string   `json:"runId"`
	Row      int      `json:"row"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Email    string   `json:"email,omitempty"`
	File     string   `json:"file,omitempty"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type Summary struct {
	RunID        string `json:"runId"`
	Month        string `json:"month"`
	Total        int    `json:"total"`
	Sent         int    `json:"sent"`
	NoAddress    int    `json:"noAddress"`
	RenderFailed int    `json:"renderFailed"`
	SendFailed   int    `json:"sendFailed"`
}

func (s *Summary) add(status string) {
	s.Total++
	switch status {
	case StatusSent:
		s.Sent++
	case StatusNoAddress:
		s.NoAddress++
	case StatusRenderFailed:
		s.RenderFailed++
	case StatusSendFailed:
		s.SendFailed++
	}
}

// Failed reports whether any record did not reach its recipient.
func (s Summary) Failed() bool {
	return s.Sent != s.Total
}

// Dispatcher renders and mails one payslip per record, strictly in order.
// A failure on one record never stops the others.
type Dispatcher struct {
	Resolver Resolver
	Renderer Renderer
	Sender   Sender
	Reporter Reporter
	From     string
	LogoPath string
	Log      logrus.FieldLogger
}

// Run processes every record for the given month. It only returns an error
// when the batch cannot start or ctx is cancelled between records.
func (d *Dispatcher) Run(ctx context.Context, records []payroll.Record, month string) (Summary, error) {
	if strings.TrimSpace(month) == "" {
		return Summary{}, ErrMonthRequired
	}

	summary := Summary{RunID: uuid.NewString(), Month: month}
	opts := payroll.NewOptions(month, d.LogoPath)
	log := d.log().WithFields(logrus.Fields{"runId": summary.RunID, "month": month})
	if !opts.WeekOff.Known {
		log.Warn("month label not recognised, week off and present days left blank")
	}
	log.WithField("records", len(records)).Info("payslip run started")

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("payslip run interrupted")
			return summary, err
		}
		outcome := d.process(ctx, rec, opts)
		outcome.RunID = summary.RunID
		summary.add(outcome.Status)
		d.report(outcome)
	}

	log.WithFields(logrus.Fields{
		"sent":         summary.Sent,
		"noAddress":    summary.NoAddress,
		"renderFailed": summary.RenderFailed,
		"sendFailed":   summary.SendFailed,
	}).Info("payslip run finished")
	return summary, nil
}

func (d *Dispatcher) process(ctx context.Context, rec payroll.Record, opts payroll.Options) Outcome {
	outcome := Outcome{Row: rec.Row, Name: rec.Name()}
	if variance, ok := payroll.CheckNet(rec); !ok {
		outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("%s: %d", payroll.WarningNetVariance, variance))
	}

	address, err := d.Resolver.Resolve(outcome.Name)
	if err != nil {
		outcome.Status = StatusNoAddress
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Email = address

	pc := payroll.BuildContext(rec, opts)
	document, err := d.Renderer.Render(ctx, pc)
	if err != nil {
		outcome.Status = StatusRenderFailed
		outcome.Error = err.Error()
		return outcome
	}

	outcome.File = AttachmentName(outcome.Name, opts.Month)
	msg := email.Message{
		From:    d.From,
		To:      address,
		Subject: fmt.Sprintf(DefaultSubject, opts.Month),
		Body:    fmt.Sprintf(DefaultBody, outcome.Name, opts.Month),
		Attachments: []email.Attachment{{
			Filename:    outcome.File,
			ContentType: AttachmentType,
			Content:     document,
		}},
	}
	if err := d.Sender.Send(ctx, msg); err != nil {
		outcome.Status = StatusSendFailed
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Status = StatusSent
	return outcome
}

func (d *Dispatcher) report(o Outcome) {
	if d.Reporter != nil {
		d.Reporter.Report(o)
	}
}

func (d *Dispatcher) log() logrus.FieldLogger {
	if d.Log == nil {
		return logrus.StandardLogger()
	}
	return d.Log
}

// AttachmentName is the file name the employee receives.
func AttachmentName(name, month string) string {
	return fmt.Sprintf("%s_%s.pdf", name, month)
}
