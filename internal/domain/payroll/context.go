package payroll

import (
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var dojLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"02-Jan-2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// Options carry the per-run inputs shared by every record.
type Options struct {
	Month    string
	WeekOff  Days
	LogoPath string
}

// NewOptions resolves the weekend count for the month once per run.
func NewOptions(month, logoPath string) Options {
	return Options{Month: month, WeekOff: WeekOff(month), LogoPath: logoPath}
}

func BuildContext(rec Record, opts Options) Context {
	net := ToInteger(rec.Get(ColNetTakeHome))
	paidDays := ToInteger(rec.Get(ColPaidDays))

	return Context{
		Month:       opts.Month,
		EmpCode:     rec.Get(ColEmpCode),
		Name:        rec.Get(ColName),
		Department:  rec.Get(ColDepartment),
		Designation: rec.Get(ColDesignation),
		Location:    rec.Get(ColLocation),
		DOJ:         FormatJoiningDate(rec.Get(ColDOJ)),

		PaidDays:    paidDays,
		WeekOff:     opts.WeekOff,
		PresentDays: PresentDays(paidDays, opts.WeekOff),

		UANNo:        Placeholder,
		ESICNo:       Placeholder,
		LeaveBalance: Placeholder,

		Earned: Earnings{
			Basic:            ToDisplay(rec.Get(ColEBasic)),
			HRA:              ToDisplay(rec.Get(ColEHRA)),
			Conveyance:       ToDisplay(rec.Get(ColEConv)),
			Medical:          ToDisplay(rec.Get(ColEMedical)),
			SpecialAllowance: ToDisplay(rec.Get(ColESpecialAllowance)),
		},
		Payable: Earnings{
			Basic:            ToDisplay(rec.Get(ColPBasic)),
			HRA:              ToDisplay(rec.Get(ColPHRA)),
			Conveyance:       ToDisplay(rec.Get(ColPConv)),
			Medical:          ToDisplay(rec.Get(ColPMedical)),
			SpecialAllowance: ToDisplay(rec.Get(ColPSpecial)),
		},
		Deducted: Deductions{
			ProvidentFund:   ToDisplay(rec.Get(ColDPF12)),
			ProfessionalTax: ToDisplay(rec.Get(ColDProfTax)),
			WelfareFund:     ToDisplay(rec.Get(ColDLWF)),
			IncomeTax:       ToDisplay(rec.Get(ColDIT)),
			Other:           ToDisplay(rec.Get(ColDOtherDedFood)),
		},

		TotalEarningsGross:    ToDisplay(rec.Get(ColEGrossEarnings)),
		TotalEarningsActual:   ToDisplay(rec.Get(ColEGrossEarnings)),
		TotalDeductionsGross:  ToDisplay(rec.Get(ColDGrossDeduction)),
		TotalDeductionsActual: ToDisplay(rec.Get(ColDGrossDeduction)),
		NetPay:                FormatAmount(net),
		NetPayWords:           NetPayWords(net),

		LogoPath: opts.LogoPath,
	}
}

// FormatJoiningDate reformats a joining date as DD-MM-YYYY. Excel serial dates
// are accepted; anything unrecognised is returned unchanged.
func FormatJoiningDate(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return value
	}
	if serial, err := ParseAmount(trimmed); err == nil {
		parsed, err := excelize.ExcelDateToTime(serial.InexactFloat64(), false)
		if err != nil {
			return value
		}
		return parsed.Format(DateDisplayLayout)
	}
	for _, layout := range dojLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format(DateDisplayLayout)
		}
	}
	return value
}
