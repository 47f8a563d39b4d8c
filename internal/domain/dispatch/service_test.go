package dispatch

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"payslips/internal/domain/payroll"
	"payslips/internal/domain/recipients"
	"payslips/internal/platform/email"
)

type fakeSession struct {
	fakeSender
	closed int
}

func (f *fakeSession) Close() error {
	f.closed++
	return nil
}

type countingRecorder struct {
	runs     int
	outcomes map[string]int
}

func (c *countingRecorder) RecordRun() { c.runs++ }

func (c *countingRecorder) RecordOutcome(status string) {
	if c.outcomes == nil {
		c.outcomes = map[string]int{}
	}
	c.outcomes[status]++
}

func payrollWorkbook(t *testing.T, names ...string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	set := func(row int, values []any) {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	set(1, []any{"ACME Pvt Ltd"})
	set(2, []any{"Salary register for May 2025"})

	header := make([]any, len(payroll.Columns))
	for i := range header {
		header[i] = "col"
	}
	set(7, header)
	for n, name := range names {
		row := make([]any, len(payroll.Columns))
		for i, col := range payroll.Columns {
			switch col {
			case payroll.ColName:
				row[i] = name
			case payroll.ColPaidDays:
				row[i] = 30
			case payroll.ColNetTakeHome:
				row[i] = 45000.6
			default:
				row[i] = ""
			}
		}
		set(8+n, row)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func newTestService(session *fakeSession, dir recipients.Directory) *Service {
	return &Service{
		Recipients:  recipients.StaticSource(dir),
		Renderer:    &fakeRenderer{},
		OpenSession: func(ctx context.Context) (email.Sender, error) { return session, nil },
		From:        "hr@example.com",
		SkipRows:    6,
	}
}

func TestServiceLoad(t *testing.T) {
	svc := newTestService(&fakeSession{}, nil)
	records, err := svc.Load(payrollWorkbook(t, "Jane Smith", "John Doe"), "payroll.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Row != 8 || records[0].Name() != "Jane Smith" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Get(payroll.ColNetTakeHome) != "45000.6" {
		t.Fatalf("expected raw net value, got %q", records[1].Get(payroll.ColNetTakeHome))
	}
}

func TestPreview(t *testing.T) {
	records := []payroll.Record{record(8, "A"), record(9, "B"), record(10, "C")}

	page := Preview(records, 2, 0)
	if page.Total != 3 || len(page.Records) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	page = Preview(records, 2, 2)
	if len(page.Records) != 1 || page.Records[0].Name() != "C" {
		t.Fatalf("unexpected second page: %+v", page)
	}
	page = Preview(records, 2, 5)
	if page.Records == nil || len(page.Records) != 0 {
		t.Fatalf("expected empty non-nil page, got %+v", page)
	}
}

func TestServiceSend(t *testing.T) {
	session := &fakeSession{}
	recorder := &countingRecorder{}
	svc := newTestService(session, recipients.NewDirectory(map[string]string{"Jane Smith": "jane@example.com"}))
	svc.Metrics = recorder

	var streamed []Outcome
	summary, err := svc.Send(context.Background(), []payroll.Record{record(8, "Jane Smith"), record(9, "Nobody")}, "May 2025",
		ReporterFunc(func(o Outcome) { streamed = append(streamed, o) }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Sent != 1 || summary.NoAddress != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(streamed) != 2 {
		t.Fatalf("expected 2 streamed outcomes, got %d", len(streamed))
	}
	if session.closed != 1 {
		t.Fatalf("expected session closed once, got %d", session.closed)
	}
	if recorder.runs != 1 || recorder.outcomes[StatusSent] != 1 || recorder.outcomes[StatusNoAddress] != 1 {
		t.Fatalf("unexpected recorder state %+v", recorder)
	}
}

func TestServiceSendPreconditions(t *testing.T) {
	opened := 0
	svc := newTestService(&fakeSession{}, recipients.NewDirectory(map[string]string{"Jane Smith": "jane@example.com"}))
	svc.OpenSession = func(ctx context.Context) (email.Sender, error) {
		opened++
		return &fakeSession{}, nil
	}

	if _, err := svc.Send(context.Background(), nil, " ", nil); !errors.Is(err, ErrMonthRequired) {
		t.Fatalf("expected ErrMonthRequired, got %v", err)
	}

	if opened != 0 {
		t.Fatalf("expected no session to be opened, got %d", opened)
	}

	svc.Recipients = recipients.StaticSource(recipients.NewDirectory(map[string]string{"Jane Smith": "jane@example.com"}))
	svc.OpenSession = func(ctx context.Context) (email.Sender, error) { return nil, errors.New("smtp down") }
	if _, err := svc.Send(context.Background(), nil, "May 2025", nil); err == nil {
		t.Fatal("expected session error")
	}
}

func TestServiceSendEmptyDirectorySkipsEachRecord(t *testing.T) {
	session := &fakeSession{}
	svc := newTestService(session, recipients.Directory{})
	var got collector

	summary, err := svc.Send(context.Background(), []payroll.Record{record(8, "Jane Smith"), record(9, "John Doe")}, "May 2025", &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Total != 2 || summary.NoAddress != 2 || summary.Sent != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(got.outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(got.outcomes))
	}
	for _, o := range got.outcomes {
		if o.Status != StatusNoAddress {
			t.Fatalf("expected no_address, got %+v", o)
		}
	}
	if session.closed != 1 {
		t.Fatalf("expected session closed once, got %d", session.closed)
	}
}
