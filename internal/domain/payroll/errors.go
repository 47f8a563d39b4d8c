package payroll

import "errors"

var (
	ErrColumnMismatch = errors.New("spreadsheet column count does not match payroll schema")
	ErrEmptyAmount    = errors.New("amount is empty")
)
