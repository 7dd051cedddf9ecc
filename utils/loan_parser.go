package utils

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Aashish23092/loan-appraisal/dto"
)

// DefaultCollateralWindow is the maximum number of lines, starting at a
// keyword hit, that make up one collateral block.
const DefaultCollateralWindow = 6

// amountGroup captures a VND figure; currencySuffix requires a currency word
// after it so that plain numbers (dates, areas, IDs) are not taken as money.
const (
	amountGroup    = `([0-9][0-9., ]*)`
	currencySuffix = `[ \t]*(?:đồng|vn[dđ]|đ)(?:[^\p{L}]|$)`
)

var (
	// Identification
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Họ (?:và )?tên[ \t]*[:\-]?[ \t]*(\p{L}[\p{L} .'\-]*)`),
		regexp.MustCompile(`(?i)Họ (?:và )?tên[ \t]*[:\-]?[ \t]*([^\n\r]+)`),
	}
	nationalIDPattern = regexp.MustCompile(`(?i)(?:Số\s+)?(?:CCCD|CMND|CMT|Căn cước(?: công dân)?)(?:\s*/\s*(?:CCCD|CMND|Hộ chiếu))?[:\s]*(?:số[:\s]*)?([0-9]{9,12})(?:[^0-9]|$)`)
	phonePattern      = regexp.MustCompile(`(?i)(?:Số điện thoại|Điện thoại(?: di động)?|SĐT|ĐT|Phone|Mobile)[:\s]*(\+?[0-9][0-9+\-. ]{6,19})`)
	addressPattern    = regexp.MustCompile(`(?i)(?:Nơi cư trú|Địa chỉ hiện tại|Địa chỉ thường trú|Địa chỉ|Đ/c)[:\s]*([^\n\r]+)`)
	emailPattern      = regexp.MustCompile(`(?i)E-?mail[:\s]*([^\s,;]+@[^\s,;]+)`)

	// Finance
	purposePattern    = regexp.MustCompile(`(?i)Mục đích(?: sử dụng vốn| vay vốn| vay)?[:\s]*([^\n\r]+)`)
	totalNeedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Tổng nhu cầu vốn[:\s]*` + amountGroup + currencySuffix),
		regexp.MustCompile(`(?i)Tổng nhu cầu[:\s]*` + amountGroup + `[ \t]*đ`),
	}
	ownCapitalPattern = regexp.MustCompile(`(?i)(?:Vốn đối ứng|Vốn tự có)[:\s]*` + amountGroup + currencySuffix)
	loanAmountPattern = regexp.MustCompile(`(?i)(?:Số tiền đề nghị vay|Số tiền vay|Vốn vay Agribank|Vốn vay)[:\s]*` + amountGroup + currencySuffix)
	ratePattern       = regexp.MustCompile(`(?i)Lãi suất[^0-9\n]{0,30}?([0-9]+(?:[.,][0-9]+)?)`)
	termMonthsPattern = regexp.MustCompile(`(?i)Thời hạn(?: cho vay| vay)?[^0-9\n]{0,20}?([0-9]+)[ \t]*tháng`)
	termYearsPattern  = regexp.MustCompile(`(?i)Thời hạn(?: cho vay| vay)?[^0-9\n]{0,20}?([0-9]+)[ \t]*năm`)

	// Income
	incomePattern  = regexp.MustCompile(`(?i)(?:Tổng thu nhập|Thu nhập)[^\n]*?` + amountGroup + currencySuffix)
	expensePattern = regexp.MustCompile(`(?i)(?:Tổng chi phí|Chi phí)[^\n]*?` + amountGroup + currencySuffix)

	// Collateral
	collateralKeywords       = []string{"tài sản", "bất động sản", "giá trị"}
	collateralHeadingPattern = regexp.MustCompile(`^(?:[-•*+]|[0-9]+[.)])?[ \t]*(?:tài sản|bất động sản)`)
	realEstateKeywords       = []string{"bất động sản", "nhà", "quyền sử dụng đất"}
	collateralValuePattern   = regexp.MustCompile(`(?i)` + amountGroup + currencySuffix)
	collateralAddrPattern    = regexp.MustCompile(`(?i)Địa chỉ[:\s]*([^\n\r]+)`)
	collateralDocRefPattern  = regexp.MustCompile(`(?i)(?:Giấy chứng nhận|GCN|Sổ đỏ|Sổ hồng|Giấy tờ(?: pháp lý)?)[:\s]*([^\n\r]+)`)

	nameBreak     = regexp.MustCompile(`\s{2,}|\t`)
	lineSeparator = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u00a0", " ")
)

// ParserOptions tunes the heuristics of the loan application parser.
type ParserOptions struct {
	// CollateralWindow caps the number of lines in one collateral block.
	CollateralWindow int
}

// DefaultParserOptions returns the options used by ParseLoanApplication.
func DefaultParserOptions() ParserOptions {
	return ParserOptions{CollateralWindow: DefaultCollateralWindow}
}

// LoanParser extracts a LoanApplication from the plain text of an
// application document.
type LoanParser struct {
	opts ParserOptions
}

func NewLoanParser(opts ParserOptions) *LoanParser {
	if opts.CollateralWindow <= 0 {
		opts.CollateralWindow = DefaultCollateralWindow
	}
	return &LoanParser{opts: opts}
}

// ParseLoanApplication extracts a LoanApplication with the default options.
func ParseLoanApplication(rawText string) dto.LoanApplication {
	return NewLoanParser(DefaultParserOptions()).Parse(rawText)
}

// Parse extracts every field it can find. Missing fields keep their
// documented defaults; Parse never fails.
func (p *LoanParser) Parse(rawText string) dto.LoanApplication {
	lines := NormalizeLines(rawText)
	text := strings.Join(lines, "\n")

	finance := extractFinance(text)

	return dto.LoanApplication{
		Identification: extractIdentification(text),
		Finance:        finance,
		Collateral:     p.extractCollateral(lines),
		Income: dto.Income{
			MonthlyIncome:  extractAmount(incomePattern, text),
			MonthlyExpense: extractAmount(expensePattern, text),
		},
	}
}

// NormalizeLines NFC-normalizes the text and returns its non-empty trimmed lines.
func NormalizeLines(rawText string) []string {
	text := lineSeparator.Replace(norm.NFC.String(rawText))

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func extractIdentification(text string) dto.Identification {
	id := dto.Identification{}

	for _, re := range namePatterns {
		if name := cleanPersonName(firstGroup(re, text)); name != "" {
			id.FullName = name
			break
		}
	}

	id.NationalID = firstGroup(nationalIDPattern, text)
	id.Phone = strings.Trim(firstGroup(phonePattern, text), " .-")
	id.Address = firstGroup(addressPattern, text)
	id.Email = firstGroup(emailPattern, text)

	return id
}

func extractFinance(text string) dto.FinanceTerms {
	finance := dto.FinanceTerms{
		AnnualRatePercent: dto.DefaultAnnualRatePercent,
		TermMonths:        dto.DefaultTermMonths,
	}

	finance.Purpose = firstGroup(purposePattern, text)

	for _, re := range totalNeedPatterns {
		if m := firstGroup(re, text); m != "" {
			finance.TotalNeed = ParseVNDAmount(m)
			break
		}
	}
	finance.OwnCapital = extractAmount(ownCapitalPattern, text)

	// An explicitly stated loan amount wins over the derived one.
	if m := firstGroup(loanAmountPattern, text); m != "" {
		finance.LoanAmount = ParseVNDAmount(m)
	} else {
		finance.LoanAmount = deriveLoanAmount(finance.TotalNeed, finance.OwnCapital)
	}

	if m := firstGroup(ratePattern, text); m != "" {
		rate, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
		if err == nil && rate <= dto.MaxAnnualRatePercent {
			finance.AnnualRatePercent = rate
		}
	}

	if m := firstGroup(termMonthsPattern, text); m != "" {
		if months, err := strconv.Atoi(m); err == nil && months > 0 && months <= dto.MaxTermMonths {
			finance.TermMonths = months
		}
	} else if m := firstGroup(termYearsPattern, text); m != "" {
		if years, err := strconv.Atoi(m); err == nil && years > 0 && years <= dto.MaxTermMonths/12 {
			finance.TermMonths = years * 12
		}
	}

	return finance
}

// deriveLoanAmount applies the fallback used when a document states no loan amount.
func deriveLoanAmount(totalNeed, ownCapital int64) int64 {
	if totalNeed > 0 && ownCapital > 0 {
		if totalNeed-ownCapital < 0 {
			return 0
		}
		return totalNeed - ownCapital
	}
	return totalNeed
}

// extractCollateral groups lines into collateral blocks. An asset heading
// always starts a new block; other keyword lines start one only when no block
// is open. A block holds at most CollateralWindow lines.
func (p *LoanParser) extractCollateral(lines []string) []dto.Collateral {
	var (
		collateral []dto.Collateral
		block      []string
	)
	flush := func() {
		if len(block) > 0 {
			collateral = append(collateral, parseCollateralBlock(block))
			block = nil
		}
	}

	for _, line := range lines {
		lower := strings.ToLower(line)
		switch {
		case collateralHeadingPattern.MatchString(lower):
			flush()
			block = []string{line}
		case block != nil:
			block = append(block, line)
		case containsAny(lower, collateralKeywords):
			block = []string{line}
		default:
			continue
		}
		if len(block) >= p.opts.CollateralWindow {
			flush()
		}
	}
	flush()

	if len(collateral) == 0 {
		collateral = append(collateral, dto.PlaceholderCollateral())
	}
	return collateral
}

func parseCollateralBlock(block []string) dto.Collateral {
	joined := strings.Join(block, " ")

	c := dto.Collateral{
		Type:  dto.CollateralTypeAsset,
		Value: extractAmount(collateralValuePattern, joined),
	}
	if containsAny(strings.ToLower(joined), realEstateKeywords) {
		c.Type = dto.CollateralTypeRealEstate
	}

	for _, line := range block {
		if c.Address == "" {
			c.Address = firstGroup(collateralAddrPattern, line)
		}
		if c.DocumentRef == "" {
			c.DocumentRef = firstGroup(collateralDocRefPattern, line)
		}
	}
	return c
}

// helpers

func firstGroup(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractAmount(re *regexp.Regexp, text string) int64 {
	return ParseVNDAmount(firstGroup(re, text))
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// cleanPersonName keeps the first column of a form line and drops trailing
// punctuation.
func cleanPersonName(s string) string {
	if s == "" {
		return s
	}
	s = nameBreak.Split(s, 2)[0]
	return strings.TrimSpace(strings.TrimRight(s, " .-:"))
}
