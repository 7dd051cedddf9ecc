package service

import (
	"math"

	"github.com/Aashish23092/loan-appraisal/dto"
)

// monthlyRate converts an annual percentage into a monthly fraction.
func monthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / 12
}

// ComputeMonthlyPayment returns the fixed payment of an annuity loan,
// P*r / (1 - (1+r)^-n). A non-positive principal or term yields 0.
func ComputeMonthlyPayment(principal, annualRatePercent float64, termMonths int) float64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}

	r := monthlyRate(annualRatePercent)
	n := float64(termMonths)
	if r <= 0 {
		return principal / n
	}

	// 1 - (1+r)^-n, accurate for tiny r and never above 1 for large n.
	discount := -math.Expm1(-n * math.Log1p(r))
	if discount <= 0 {
		return principal / n
	}
	return principal * r / discount
}

// BuildSchedule returns one row per period of a fixed-payment loan. The
// result is empty, never nil, when there is nothing to finance.
func BuildSchedule(principal, annualRatePercent float64, termMonths int) []dto.AmortizationRow {
	if principal <= 0 || termMonths <= 0 {
		return []dto.AmortizationRow{}
	}

	r := math.Max(monthlyRate(annualRatePercent), 0)
	payment := ComputeMonthlyPayment(principal, annualRatePercent, termMonths)
	balance := principal

	rows := make([]dto.AmortizationRow, 0, termMonths)
	for period := 1; period <= termMonths; period++ {
		interest := balance * r
		principalPaid := math.Max(payment-interest, 0)

		// The last period, or an overshoot, pays off exactly what is left.
		if principalPaid > balance || period == termMonths {
			principalPaid = balance
			payment = interest + principalPaid
		}
		balance -= principalPaid

		rows = append(rows, dto.AmortizationRow{
			Period:    period,
			Payment:   payment,
			Interest:  interest,
			Principal: principalPaid,
			Balance:   math.Max(balance, 0),
		})
	}
	return rows
}

// Recalc builds the schedule for an application and derives its summary.
// Ratios that cannot be computed are left nil.
func Recalc(app dto.LoanApplication) ([]dto.AmortizationRow, dto.Summary) {
	principal := app.Finance.Principal()
	schedule := BuildSchedule(float64(principal), app.Finance.AnnualRatePercent, app.Finance.TermMonths)

	summary := dto.Summary{
		Principal:    principal,
		AnnualIncome: float64(app.Income.MonthlyIncome) * 12,
	}
	if len(schedule) > 0 {
		summary.MonthlyPayment = schedule[0].Payment
	}
	for _, row := range schedule {
		summary.TotalPayment += row.Payment
		summary.TotalInterest += row.Interest
	}

	if summary.AnnualIncome > 0 {
		dsr := summary.MonthlyPayment * 12 / summary.AnnualIncome * 100
		summary.DSRPercent = &dsr
	}

	if collateralValue := app.TotalCollateralValue(); collateralValue > 0 {
		ltv := float64(principal) / float64(collateralValue) * 100
		summary.LTVPercent = &ltv
	}

	return schedule, summary
}

// FillCollateralLTV sets each collateral entry's LTVPercent to the principal
// over that entry's value. Entries without a value get 0.
func FillCollateralLTV(app *dto.LoanApplication) {
	principal := float64(app.Finance.Principal())
	for i := range app.Collateral {
		c := &app.Collateral[i]
		c.LTVPercent = 0
		if c.Value > 0 && principal > 0 {
			c.LTVPercent = principal / float64(c.Value) * 100
		}
	}
}
