package payroll

const (
	Placeholder = "-"

	WarningNetVariance = "net_variance"

	CurrencyPrefix = "Rupees"
	AmountSuffix   = "Only"

	DateDisplayLayout = "02-01-2006"
	MonthLayout       = "January 2006"
)
