package dispatch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"payslips/internal/domain/payroll"
	"payslips/internal/domain/recipients"
	"payslips/internal/platform/email"
	"payslips/internal/platform/spreadsheet"
)

// SessionOpener opens the delivery session for one run.
type SessionOpener func(ctx context.Context) (email.Sender, error)

// Recorder counts runs and outcomes.
type Recorder interface {
	RecordRun()
	RecordOutcome(status string)
}

// Service ties the spreadsheet, the directory, the renderer and the mail
// session together for the CLI and the HTTP API.
type Service struct {
	Recipients  recipients.Source
	Renderer    Renderer
	OpenSession SessionOpener
	Metrics     Recorder
	Log         logrus.FieldLogger
	From        string
	LogoPath    string
	SkipRows    int
}

// Load reads an uploaded workbook into records.
func (s *Service) Load(r io.Reader, filename string) ([]payroll.Record, error) {
	rows, err := spreadsheet.ReadPayroll(r, filename, s.SkipRows)
	if err != nil {
		return nil, err
	}
	return payroll.MapRecords(rows, s.SkipRows)
}

// Page is one slice of the mapped records.
type Page struct {
	Total   int              `json:"total"`
	Offset  int              `json:"offset"`
	Records []payroll.Record `json:"records"`
}

func Preview(records []payroll.Record, limit, offset int) Page {
	page := Page{Total: len(records), Offset: offset, Records: []payroll.Record{}}
	if offset >= len(records) || limit <= 0 {
		return page
	}
	end := min(offset+limit, len(records))
	page.Records = records[offset:end]
	return page
}

// Send runs one batch with a fresh directory and delivery session.
func (s *Service) Send(ctx context.Context, records []payroll.Record, month string, reporter Reporter) (Summary, error) {
	if strings.TrimSpace(month) == "" {
		return Summary{}, ErrMonthRequired
	}
	dir, err := s.Recipients.Directory(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load recipients: %w", err)
	}
	if len(dir) == 0 {
		s.log().Warn("recipient directory is empty, every payslip will be skipped")
	}

	session, err := s.OpenSession(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("open mail session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			s.log().WithError(cerr).Warn("mail session close failed")
		}
	}()

	resolver := recipients.NewResolver(dir)
	s.log().WithField("recipients", resolver.Len()).Debug("recipient directory loaded")

	var counted Reporter
	if s.Metrics != nil {
		s.Metrics.RecordRun()
		counted = ReporterFunc(func(o Outcome) { s.Metrics.RecordOutcome(o.Status) })
	}

	d := &Dispatcher{
		Resolver: resolver,
		Renderer: s.Renderer,
		Sender:   session,
		Reporter: Reporters(counted, reporter),
		From:     s.From,
		LogoPath: s.LogoPath,
		Log:      s.log(),
	}
	return d.Run(ctx, records, month)
}

func (s *Service) log() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}
