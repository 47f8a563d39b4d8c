package payroll

// Column names in spreadsheet order. The uploaded sheet is positional, so this
// list must match the payroll export column for column.
const (
	ColSerialNo            = "S_no"
	ColEmpCode             = "Emp_Code"
	ColName                = "Name"
	ColBudgetCode          = "Budget_Code"
	ColDOJ                 = "DOJ"
	ColLocation            = "Location"
	ColDepartment          = "Department"
	ColDesignation         = "Designation"
	ColCategory            = "Category"
	ColPaidDays            = "Paid_Days"
	ColEBasic              = "E_Basic"
	ColEDA                 = "E_DA"
	ColEHRA                = "E_HRA"
	ColEConv               = "E_CONV"
	ColEMedical            = "E_Medical"
	ColESpecialAllowance   = "E_Special_Allowance"
	ColEGross              = "E_GROSS"
	ColCTC                 = "CTC"
	ColPBasic              = "P_Basic"
	ColPDA                 = "P_DA"
	ColPHRA                = "P_HRA"
	ColPConv               = "P_CONV"
	ColPMedical            = "P_Medical"
	ColPSpecial            = "P_Special"
	ColEArrears            = "E_Arrears"
	ColEBonus              = "E_Bonus"
	ColEGrossEarnings      = "E_Gross_Earnings"
	ColDPF12               = "D_PF_12"
	ColDESI                = "D_ESI"
	ColDProfTax            = "D_Prof_Tax"
	ColDSalaryLoan         = "D_Salary_Loan"
	ColDAdvance            = "D_Advance"
	ColDLWF                = "D_LWF"
	ColDOtherDedFood       = "D_Other_Ded_Food"
	ColDIT                 = "D_IT"
	ColDMobileDeduction    = "D_Mobile_Deduction"
	ColDGrossDeduction     = "D_Gross_Deduction"
	ColNetTakeHome         = "Net_Take_Home"
	ColPFBasic             = "PF_Basic"
	ColPFLimitBasic        = "PF_Limit_Basic"
	ColPFGross             = "PF_Gross"
	ColPFEPS833            = "PF_EPS_8_33"
	ColPFEPF367            = "PF_EPF_3_67"
	ColPFTotal             = "PF_Total"
	ColPFTotalContribution = "PF_Total_Contribution"
	ColESIEmployer         = "ESI_Employer"
	ColESITotal            = "ESI_Total"
)

var Columns = []string{
	ColSerialNo, ColEmpCode, ColName, ColBudgetCode, ColDOJ, ColLocation, ColDepartment,
	ColDesignation, ColCategory, ColPaidDays,
	ColEBasic, ColEDA, ColEHRA, ColEConv, ColEMedical, ColESpecialAllowance,
	ColEGross, ColCTC,
	ColPBasic, ColPDA, ColPHRA, ColPConv, ColPMedical, ColPSpecial,
	ColEArrears, ColEBonus, ColEGrossEarnings,
	ColDPF12, ColDESI, ColDProfTax, ColDSalaryLoan, ColDAdvance, ColDLWF,
	ColDOtherDedFood, ColDIT, ColDMobileDeduction, ColDGrossDeduction,
	ColNetTakeHome,
	ColPFBasic, ColPFLimitBasic, ColPFGross, ColPFEPS833, ColPFEPF367,
	ColPFTotal, ColPFTotalContribution,
	ColESIEmployer, ColESITotal,
}
