package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVNDAmount(t *testing.T) {
	assert.Equal(t, int64(5_000_000_000), ParseVNDAmount("5.000.000.000"))
	assert.Equal(t, int64(1_200_000), ParseVNDAmount("1,200,000"))
	assert.Equal(t, int64(1_500_000), ParseVNDAmount(" 1 500 000 "))
	assert.Equal(t, int64(0), ParseVNDAmount(""))
	assert.Equal(t, int64(0), ParseVNDAmount("không rõ"))
}

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "5.000.000.000 đ", FormatVND(5_000_000_000))
	assert.Equal(t, "0 đ", FormatVND(0))
	assert.Equal(t, "82.070.001 đ", FormatVNDFloat(82_070_000.6))
}

func TestFormatRatio(t *testing.T) {
	assert.Equal(t, NoDataLabel, FormatRatio(nil))

	ltv := 61.538
	assert.Equal(t, "61.54%", FormatRatio(&ltv))
}
