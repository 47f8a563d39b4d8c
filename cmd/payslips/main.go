// Payslips reads a monthly payroll workbook, renders one PDF payslip per
// employee and mails it to the address on file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

const (
	exitOK      = 0
	exitError   = 1
	exitUsage   = 2
	exitPartial = 3
)

func usage(w io.Writer) {
	fmt.Fprint(w, `payslips
Monthly payslip generator and mailer

Usage:
  payslips send    -file <workbook> -month "<Month YYYY>"  Render and mail every payslip
  payslips preview -file <workbook> [-limit n] [-offset n] Show the mapped records
  payslips auth                                            Authorize Gmail sending and cache the token
  payslips serve                                           Start the HTTP API
  payslips help                                            Show this help message

Configuration is read from the environment and an optional .env file.
`)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}

	cmd := strings.ToLower(args[0])
	rest := args[1:]

	switch cmd {
	case "help", "-h", "--help":
		usage(stdout)
		return exitOK
	case "send":
		return cmdSend(ctx, rest, stdin, stdout, stderr)
	case "preview":
		return cmdPreview(ctx, rest, stdout, stderr)
	case "auth":
		return cmdAuth(ctx, stdin, stdout, stderr)
	case "serve", "server":
		return cmdServe(ctx, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n\n", cmd)
		usage(stderr)
		return exitUsage
	}
}
