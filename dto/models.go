package dto

// Defaults applied whenever a document or request does not state a value.
const (
	DefaultAnnualRatePercent = 8.5
	DefaultTermMonths        = 60
)

// Upper bounds accepted for loan terms. Larger values are rejected by
// request validation and ignored by the extractor.
const (
	MaxAnnualRatePercent = 100
	MaxTermMonths        = 1200
)

// Collateral types assigned by the extractor.
const (
	CollateralTypeRealEstate = "Bất động sản"
	CollateralTypeAsset      = "Tài sản"
)

// Identification holds the borrower's identity and contact details.
type Identification struct {
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// FinanceTerms describes the requested financing. Amounts are whole VND.
type FinanceTerms struct {
	Purpose           string  `json:"purpose"`
	TotalNeed         int64   `json:"total_need" binding:"gte=0"`
	OwnCapital        int64   `json:"own_capital" binding:"gte=0"`
	LoanAmount        int64   `json:"loan_amount" binding:"gte=0"`
	AnnualRatePercent float64 `json:"annual_rate_percent" binding:"gte=0,lte=100"`
	TermMonths        int     `json:"term_months" binding:"gte=0,lte=1200"`
}

// Principal is the amount to be financed: the loan amount, or the total
// need when no loan amount is set.
func (f FinanceTerms) Principal() int64 {
	if f.LoanAmount > 0 {
		return f.LoanAmount
	}
	return f.TotalNeed
}

// Collateral is a single pledged asset. LTVPercent is derived from the loan
// principal on every recalculation; a submitted value is overwritten.
type Collateral struct {
	Type        string  `json:"type"`
	Value       int64   `json:"value" binding:"gte=0"`
	Address     string  `json:"address"`
	LTVPercent  float64 `json:"ltv_percent"`
	DocumentRef string  `json:"document_ref"`
}

// Income holds the borrower's monthly cash flow.
type Income struct {
	MonthlyIncome  int64 `json:"monthly_income" binding:"gte=0"`
	MonthlyExpense int64 `json:"monthly_expense" binding:"gte=0"`
}

// LoanApplication is the record edited during an appraisal session.
type LoanApplication struct {
	Identification Identification `json:"identification"`
	Finance        FinanceTerms   `json:"finance"`
	Collateral     []Collateral   `json:"collateral" binding:"dive"`
	Income         Income         `json:"income"`
}

// TotalCollateralValue sums the declared value of every collateral entry.
func (a LoanApplication) TotalCollateralValue() int64 {
	var total int64
	for _, c := range a.Collateral {
		total += c.Value
	}
	return total
}

// Clone returns a copy that shares no slices with a.
func (a LoanApplication) Clone() LoanApplication {
	out := a
	out.Collateral = append([]Collateral(nil), a.Collateral...)
	return out
}

// PlaceholderCollateral is the empty entry used when no collateral is known.
func PlaceholderCollateral() Collateral {
	return Collateral{}
}

// DefaultLoanApplication is the template used before any document is uploaded.
func DefaultLoanApplication() LoanApplication {
	return LoanApplication{
		Finance: FinanceTerms{
			AnnualRatePercent: DefaultAnnualRatePercent,
			TermMonths:        DefaultTermMonths,
		},
		Collateral: []Collateral{PlaceholderCollateral()},
	}
}

// AmortizationRow is one period of a fixed-payment schedule. Values are
// unrounded; rounding happens when exporting or displaying.
type AmortizationRow struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// Summary is derived from a LoanApplication on every recalculation.
// DSRPercent and LTVPercent are nil when the ratio is undefined.
type Summary struct {
	MonthlyPayment float64  `json:"monthly_payment"`
	DSRPercent     *float64 `json:"dsr_percent"`
	LTVPercent     *float64 `json:"ltv_percent"`
	Principal      int64    `json:"principal"`
	AnnualIncome   float64  `json:"annual_income"`
	TotalPayment   float64  `json:"total_payment"`
	TotalInterest  float64  `json:"total_interest"`
}
