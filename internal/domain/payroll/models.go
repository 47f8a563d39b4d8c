package payroll

import "strconv"

// Record is one data row of the payroll sheet keyed by schema column name.
type Record struct {
	Row    int               `json:"row"`
	Fields map[string]string `json:"fields"`
}

func (r Record) Get(column string) string {
	return r.Fields[column]
}

func (r Record) Name() string {
	return r.Fields[ColName]
}

// Days is a day count that may be unknown, e.g. when the month label does not parse.
type Days struct {
	Value int64
	Known bool
}

func KnownDays(value int64) Days {
	return Days{Value: value, Known: true}
}

func (d Days) String() string {
	if !d.Known {
		return Placeholder
	}
	return strconv.FormatInt(d.Value, 10)
}

type Earnings struct {
	Basic            string
	HRA              string
	Conveyance       string
	Medical          string
	SpecialAllowance string
}

type Deductions struct {
	ProvidentFund   string
	ProfessionalTax string
	WelfareFund     string
	IncomeTax       string
	Other           string
}

// Context is everything the payslip template renders for one employee.
type Context struct {
	Month       string
	EmpCode     string
	Name        string
	Department  string
	Designation string
	Location    string
	DOJ         string

	PaidDays    int64
	WeekOff     Days
	PresentDays Days

	UANNo        string
	ESICNo       string
	LeaveBalance string

	Earned   Earnings
	Payable  Earnings
	Deducted Deductions

	TotalEarningsGross    string
	TotalEarningsActual   string
	TotalDeductionsGross  string
	TotalDeductionsActual string
	NetPay                string
	NetPayWords           string

	LogoPath string
}

// Fields returns the template bindings. The keys are shared with the payslip
// template and must be renamed on both sides together.
func (c Context) Fields() map[string]any {
	return map[string]any{
		"payslip_month":           c.Month,
		"Emp_Code":                c.EmpCode,
		"Name":                    c.Name,
		"Department":              c.Department,
		"Designation":             c.Designation,
		"Location":                c.Location,
		"DOJ":                     c.DOJ,
		"paid_days":               c.PaidDays,
		"present_days":            c.PresentDays.String(),
		"week_off":                c.WeekOff.String(),
		"UAN_No":                  c.UANNo,
		"ESIC_No":                 c.ESICNo,
		"leave_balance":           c.LeaveBalance,
		"E_Basic":                 c.Earned.Basic,
		"E_HRA":                   c.Earned.HRA,
		"E_CONV":                  c.Earned.Conveyance,
		"E_Medical":               c.Earned.Medical,
		"E_Special_Allowance":     c.Earned.SpecialAllowance,
		"P_Basic":                 c.Payable.Basic,
		"P_HRA":                   c.Payable.HRA,
		"P_CONV":                  c.Payable.Conveyance,
		"P_Medical":               c.Payable.Medical,
		"P_Special":               c.Payable.SpecialAllowance,
		"D_PF_12":                 c.Deducted.ProvidentFund,
		"D_Prof_Tax":              c.Deducted.ProfessionalTax,
		"D_LWF":                   c.Deducted.WelfareFund,
		"D_IT":                    c.Deducted.IncomeTax,
		"D_Other_Ded_Food":        c.Deducted.Other,
		"total_earnings_gross":    c.TotalEarningsGross,
		"total_earnings_actual":   c.TotalEarningsActual,
		"total_deductions_gross":  c.TotalDeductionsGross,
		"total_deductions_actual": c.TotalDeductionsActual,
		"net_pay":                 c.NetPay,
		"net_pay_words":           c.NetPayWords,
		"logo_path":               c.LogoPath,
	}
}
