package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount extracts the numeric value from a possibly
// currency-tagged string such as "$300" or "PKR 1,000". Every
// character other than digits and the decimal point is stripped
// before parsing. Unparseable input degrades to 0; upstream data is
// display-oriented and must never crash an aggregation.
func ParseAmount(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// CoerceAmount clamps malformed numeric fields for summation:
// negative and NaN amounts become 0.
func CoerceAmount(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// Round1 rounds to one decimal place, half away from zero.
// 4.25 -> 4.3. This matches the rendering the mobile client applies.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatUSD renders an amount the way the wallet screens show it.
func FormatUSD(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
