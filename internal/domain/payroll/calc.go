package payroll

// CheckNet compares the sheet's net take-home with gross earnings minus gross
// deductions, all rounded the way the payslip displays them. It returns the
// difference and false when they disagree.
func CheckNet(rec Record) (variance int64, ok bool) {
	gross := ToInteger(rec.Get(ColEGrossEarnings))
	deductions := ToInteger(rec.Get(ColDGrossDeduction))
	net := ToInteger(rec.Get(ColNetTakeHome))

	variance = net - (gross - deductions)
	// Independent rounding of three cells can drift by one.
	if variance >= -1 && variance <= 1 {
		return variance, true
	}
	return variance, false
}
