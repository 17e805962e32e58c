package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// FormatIDNumber formats a float using Indonesian conventions: dot as the
// thousands separator and comma as the decimal separator. Decimals are
// omitted when the fractional part rounds to zero.
// Example: 1234.5 (2 decimals) => "1.234,50"; 1000.0 => "1.000".
func FormatIDNumber(v float64, decimals int) string {
	neg := v < 0
	if neg {
		v = -v
	}

	if decimals < 0 {
		decimals = 0
	}

	factor := math.Pow(10, float64(decimals))
	scaled := int64(math.Round(v * factor))
	intPart := scaled / int64(factor)
	fracPart := scaled % int64(factor)

	s := groupThousands(strconv.FormatInt(intPart, 10))

	prefix := ""
	if neg {
		prefix = "-"
	}

	if decimals == 0 || fracPart == 0 {
		return prefix + s
	}

	fracStr := strconv.FormatInt(fracPart, 10)
	for len(fracStr) < decimals {
		fracStr = "0" + fracStr
	}

	return fmt.Sprintf("%s%s,%s", prefix, s, fracStr)
}

// FormatRupiah renders an amount as "Rp 1.234.567".
func FormatRupiah(amount decimal.Decimal) string {
	return "Rp " + FormatIDNumber(amount.InexactFloat64(), 0)
}

// FormatPercent renders a percentage with up to two decimals, e.g. "33,33%".
func FormatPercent(v float64) string {
	return FormatIDNumber(v, 2) + "%"
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}

	var buf []byte
	count := 0
	for i := len(s) - 1; i >= 0; i-- {
		buf = append(buf, s[i])
		count++
		if count == 3 && i != 0 {
			buf = append(buf, '.')
			count = 0
		}
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
