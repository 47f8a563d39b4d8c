package dispatch

import "errors"

var ErrMonthRequired = errors.New("payslip month is required")
