package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"payslips/internal/app/server"
	"payslips/internal/domain/dispatch"
	"payslips/internal/domain/payroll"
	"payslips/internal/platform/config"
	"payslips/internal/platform/credentials"
	"payslips/internal/platform/logger"
)

func cmdSend(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg := config.Load()
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "payroll workbook (.xlsx or .xls)")
	month := fs.String("month", "", `payslip month label, e.g. "May 2025"`)
	skip := fs.Int("skip", cfg.SkipRows, "rows above the first data row")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *file == "" || strings.TrimSpace(*month) == "" {
		fmt.Fprintln(stderr, "send requires -file and -month")
		return exitUsage
	}
	cfg.SkipRows = *skip
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitError
	}

	log := logger.NewWithOutput(cfg.LogLevel, stderr)
	deps, err := server.Build(ctx, cfg, log, credentials.TerminalPrompt(stdin, stderr))
	if err != nil {
		log.WithError(err).Error("startup failed")
		return exitError
	}
	defer deps.Close()

	records, err := loadWorkbook(deps.Service, *file)
	if err != nil {
		log.WithError(err).WithField("file", *file).Error("workbook rejected")
		return exitError
	}

	summary, err := deps.Service.Send(ctx, records, *month, dispatch.LogReporter(log))
	printSummary(stdout, summary)
	if err != nil {
		log.WithError(err).Error("batch stopped")
		return exitError
	}
	if summary.Failed() {
		return exitPartial
	}
	return exitOK
}

func cmdPreview(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "payroll workbook (.xlsx or .xls)")
	limit := fs.Int("limit", cfg.PreviewRows, "records to show")
	offset := fs.Int("offset", 0, "records to skip")
	skip := fs.Int("skip", cfg.SkipRows, "rows above the first data row")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *file == "" {
		fmt.Fprintln(stderr, "preview requires -file")
		return exitUsage
	}

	svc := &dispatch.Service{SkipRows: *skip}
	records, err := loadWorkbook(svc, *file)
	if err != nil {
		fmt.Fprintf(stderr, "workbook rejected: %v\n", err)
		return exitError
	}
	printPreview(stdout, dispatch.Preview(records, *limit, *offset))
	return exitOK
}

func cmdAuth(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg := config.Load()
	if err := cfg.ValidateToken(); err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitError
	}
	cfg.MailTransport = config.TransportGmail

	log := logger.NewWithOutput(cfg.LogLevel, stderr)
	deps, err := server.Build(ctx, cfg, log, credentials.TerminalPrompt(stdin, stdout))
	if err != nil {
		log.WithError(err).Error("startup failed")
		return exitError
	}
	defer deps.Close()

	if _, err := deps.Authorizer.Token(ctx); err != nil {
		log.WithError(err).Error("authorization failed")
		return exitError
	}
	fmt.Fprintln(stdout, "Gmail authorization cached.")
	return exitOK
}

func cmdServe(ctx context.Context, stderr io.Writer) int {
	cfg := config.Load()
	log := logger.NewWithOutput(cfg.LogLevel, stderr)
	if err := server.Run(ctx, cfg, log); err != nil {
		log.WithError(err).Error("server stopped")
		return exitError
	}
	return exitOK
}

func loadWorkbook(svc *dispatch.Service, path string) ([]payroll.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := svc.Load(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("no employee rows found")
	}
	return records, nil
}

func printSummary(w io.Writer, s dispatch.Summary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run\t%s\n", s.RunID)
	fmt.Fprintf(tw, "month\t%s\n", s.Month)
	fmt.Fprintf(tw, "records\t%d\n", s.Total)
	fmt.Fprintf(tw, "sent\t%d\n", s.Sent)
	fmt.Fprintf(tw, "no address\t%d\n", s.NoAddress)
	fmt.Fprintf(tw, "render failed\t%d\n", s.RenderFailed)
	fmt.Fprintf(tw, "send failed\t%d\n", s.SendFailed)
	_ = tw.Flush()
}

func printPreview(w io.Writer, page dispatch.Page) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tEMP CODE\tNAME\tDEPARTMENT\tNET PAY")
	for _, rec := range page.Records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			rec.Row,
			rec.Get(payroll.ColEmpCode),
			rec.Name(),
			rec.Get(payroll.ColDepartment),
			rec.Get(payroll.ColNetTakeHome),
		)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\n%d of %d records from offset %d\n", len(page.Records), page.Total, page.Offset)
}
