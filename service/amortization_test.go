package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/loan-appraisal/dto"
)

func TestComputeMonthlyPaymentZeroRate(t *testing.T) {
	assert.Equal(t, 100_000.0, ComputeMonthlyPayment(1_200_000, 0, 12))
}

func TestComputeMonthlyPaymentStandard(t *testing.T) {
	r := 8.5 / 100 / 12
	growth := math.Pow(1+r, 60)
	expected := 4_000_000_000 * r * growth / (growth - 1)

	payment := ComputeMonthlyPayment(4_000_000_000, 8.5, 60)

	assert.InDelta(t, expected, payment, 1)
	assert.Greater(t, payment, 81_500_000.0)
	assert.Less(t, payment, 82_500_000.0)
}

func TestComputeMonthlyPaymentDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, ComputeMonthlyPayment(0, 8.5, 60))
	assert.Equal(t, 0.0, ComputeMonthlyPayment(-10, 8.5, 60))
	assert.Equal(t, 0.0, ComputeMonthlyPayment(100, 8.5, 0))
}

func TestBuildScheduleProperties(t *testing.T) {
	cases := []struct {
		name      string
		principal float64
		rate      float64
		term      int
	}{
		{"standard", 4_000_000_000, 8.5, 60},
		{"zero rate", 1_200_000, 0, 12},
		{"single period", 10_000_000, 12, 1},
		{"long term", 2_500_000_000, 6.9, 300},
		{"high rate", 50_000_000, 36, 24},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := BuildSchedule(tc.principal, tc.rate, tc.term)

			assert.Len(t, rows, tc.term)
			assert.InDelta(t, 0, rows[len(rows)-1].Balance, tc.principal*1e-6)

			prev := tc.principal
			for i, row := range rows {
				assert.Equal(t, i+1, row.Period)
				assert.GreaterOrEqual(t, row.Interest, 0.0)
				assert.InDelta(t, row.Payment, row.Interest+row.Principal, 1e-3)
				assert.LessOrEqual(t, row.Balance, prev)
				prev = row.Balance
			}
		})
	}
}

func TestBuildScheduleConstantPayment(t *testing.T) {
	rows := BuildSchedule(4_000_000_000, 8.5, 60)
	payment := ComputeMonthlyPayment(4_000_000_000, 8.5, 60)

	for _, row := range rows {
		assert.InDelta(t, payment, row.Payment, 1e-3)
	}
	assert.InDelta(t, 4_000_000_000*8.5/100/12, rows[0].Interest, 1e-6)
}

func TestBuildScheduleDegenerate(t *testing.T) {
	empty := BuildSchedule(0, 8.5, 60)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	assert.Empty(t, BuildSchedule(100, 8.5, 0))
	assert.Empty(t, BuildSchedule(100, 8.5, -3))
}

func testApplication() dto.LoanApplication {
	app := dto.DefaultLoanApplication()
	app.Finance.TotalNeed = 5_000_000_000
	app.Finance.OwnCapital = 1_000_000_000
	app.Finance.LoanAmount = 4_000_000_000
	app.Income.MonthlyIncome = 100_000_000
	app.Collateral = []dto.Collateral{
		{Type: dto.CollateralTypeRealEstate, Value: 3_000_000_000},
		{Type: dto.CollateralTypeAsset, Value: 2_000_000_000},
	}
	return app
}

func TestRecalc(t *testing.T) {
	app := testApplication()

	schedule, summary := Recalc(app)

	assert.Len(t, schedule, 60)
	assert.Equal(t, int64(4_000_000_000), summary.Principal)
	assert.Equal(t, ComputeMonthlyPayment(4_000_000_000, 8.5, 60), summary.MonthlyPayment)
	assert.Equal(t, 1_200_000_000.0, summary.AnnualIncome)

	if assert.NotNil(t, summary.DSRPercent) {
		assert.InDelta(t, summary.MonthlyPayment*12/1_200_000_000*100, *summary.DSRPercent, 1e-9)
	}
	if assert.NotNil(t, summary.LTVPercent) {
		assert.InDelta(t, 80.0, *summary.LTVPercent, 1e-9)
	}

	var totalInterest float64
	for _, row := range schedule {
		totalInterest += row.Interest
	}
	assert.InDelta(t, totalInterest, summary.TotalInterest, 1e-3)
	assert.InDelta(t, 4_000_000_000+totalInterest, summary.TotalPayment, 1)
}

func TestRecalcAbsentRatios(t *testing.T) {
	app := testApplication()
	app.Income.MonthlyIncome = 0
	app.Collateral = []dto.Collateral{dto.PlaceholderCollateral()}

	_, summary := Recalc(app)

	assert.Nil(t, summary.DSRPercent)
	assert.Nil(t, summary.LTVPercent)
	assert.Greater(t, summary.MonthlyPayment, 0.0)
}

func TestRecalcFallsBackToTotalNeed(t *testing.T) {
	app := testApplication()
	app.Finance.LoanAmount = 0

	schedule, summary := Recalc(app)

	assert.Equal(t, int64(5_000_000_000), summary.Principal)
	assert.Len(t, schedule, 60)
}

func TestRecalcNothingToFinance(t *testing.T) {
	schedule, summary := Recalc(dto.DefaultLoanApplication())

	assert.Empty(t, schedule)
	assert.Equal(t, 0.0, summary.MonthlyPayment)
	assert.Nil(t, summary.DSRPercent)
	assert.Nil(t, summary.LTVPercent)
}

func TestRecalcIdempotent(t *testing.T) {
	app := testApplication()

	firstSchedule, firstSummary := Recalc(app)
	secondSchedule, secondSummary := Recalc(app)

	assert.Equal(t, firstSchedule, secondSchedule)
	assert.Equal(t, firstSummary, secondSummary)
}

func TestComputeMonthlyPaymentLongTerm(t *testing.T) {
	payment := ComputeMonthlyPayment(1_000_000_000, 8.5, 120_000)

	assert.False(t, math.IsNaN(payment))
	assert.InDelta(t, 1_000_000_000*8.5/100/12, payment, 1e-3)
}

func TestComputeMonthlyPaymentTinyRate(t *testing.T) {
	payment := ComputeMonthlyPayment(1_200_000, 1e-15, 12)
	assert.InDelta(t, 100_000, payment, 1e-6)
}

func assertFinite(t *testing.T, name string, v float64) {
	t.Helper()
	assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s = %v", name, v)
}

func TestRecalcStaysFinite(t *testing.T) {
	cases := []struct {
		name string
		rate float64
		term int
	}{
		{"max term", 8.5, dto.MaxTermMonths},
		{"max rate", dto.MaxAnnualRatePercent, dto.MaxTermMonths},
		{"extreme rate", 5_000, 600},
		{"very long term", 8.5, 150_000},
		{"tiny rate", 1e-12, 360},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := testApplication()
			app.Finance.AnnualRatePercent = tc.rate
			app.Finance.TermMonths = tc.term

			schedule, summary := Recalc(app)

			require.Len(t, schedule, tc.term)
			for _, row := range schedule {
				assertFinite(t, "payment", row.Payment)
				assertFinite(t, "interest", row.Interest)
				assertFinite(t, "principal", row.Principal)
				assertFinite(t, "balance", row.Balance)
				assert.GreaterOrEqual(t, row.Principal, 0.0)
				assert.GreaterOrEqual(t, row.Balance, 0.0)
			}
			assert.Equal(t, 0.0, schedule[len(schedule)-1].Balance)

			assertFinite(t, "monthly payment", summary.MonthlyPayment)
			assertFinite(t, "total payment", summary.TotalPayment)
			assertFinite(t, "total interest", summary.TotalInterest)
			require.NotNil(t, summary.DSRPercent)
			assertFinite(t, "dsr", *summary.DSRPercent)
			require.NotNil(t, summary.LTVPercent)
			assertFinite(t, "ltv", *summary.LTVPercent)
		})
	}
}

func TestFillCollateralLTV(t *testing.T) {
	app := testApplication()
	app.Collateral = append(app.Collateral, dto.PlaceholderCollateral())

	FillCollateralLTV(&app)

	assert.InDelta(t, 4_000_000_000.0/3_000_000_000*100, app.Collateral[0].LTVPercent, 1e-9)
	assert.InDelta(t, 200.0, app.Collateral[1].LTVPercent, 1e-9)
	assert.Equal(t, 0.0, app.Collateral[2].LTVPercent)
}
