package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NoDataLabel is shown in place of a ratio that cannot be computed.
const NoDataLabel = "Không có dữ liệu"

var (
	amountSeparators = strings.NewReplacer(".", "", ",", "", " ", "")
	vndPrinter       = message.NewPrinter(language.Vietnamese)
)

// ParseVNDAmount converts a VND figure such as "5.000.000.000" or "1,200,000"
// into an integer. Anything that does not parse yields 0.
func ParseVNDAmount(s string) int64 {
	s = amountSeparators.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatVND renders an amount with Vietnamese digit grouping, e.g. "5.000.000.000 đ".
func FormatVND(amount int64) string {
	return vndPrinter.Sprintf("%d đ", amount)
}

// FormatVNDFloat rounds a schedule value to whole VND before formatting it.
func FormatVNDFloat(amount float64) string {
	return FormatVND(int64(math.Round(amount)))
}

// FormatRatio renders an optional percentage, or NoDataLabel when it is nil.
func FormatRatio(p *float64) string {
	if p == nil {
		return NoDataLabel
	}
	return fmt.Sprintf("%.2f%%", *p)
}
