// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the aria TUI.
package components

import "time"

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// toStr converts an integer to a string without using fmt package.
func toStr(n int) string {
	if n == 0 {
		return "0"
	}

	if n == -9223372036854775808 { // math.MinInt64
		return "-9223372036854775808"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}

// fmtNumber formats a number with thousand separators.
func fmtNumber(n int) string {
	if n == -9223372036854775808 {
		return "-9,223,372,036,854,775,808"
	}

	if n < 0 {
		return "-" + fmtNumber(-n)
	}

	if n < 1000 {
		return toStr(n)
	}

	s := toStr(n)
	result := ""
	count := 0

	for i := len(s) - 1; i >= 0; i-- {
		if count > 0 && count%3 == 0 {
			result = "," + result
		}
		result = string(s[i]) + result
		count++
	}

	return result
}

// fmtPercent formats a percentage with one decimal place (with rounding).
func fmtPercent(p float64) string {
	negative := p < 0
	absP := p
	if negative {
		absP = -p
	}

	rounded := absP + 0.05
	whole := int(rounded)
	frac := int((rounded - float64(whole)) * 10)

	result := toStr(whole) + "." + toStr(frac) + "%"
	if negative {
		result = "-" + result
	}
	return result
}

// fmtFloat formats a float with the given number of decimal places.
func fmtFloat(f float64, prec int) string {
	negative := f < 0
	if negative {
		f = -f
	}

	scale := 1
	for i := 0; i < prec; i++ {
		scale *= 10
	}

	scaled := int(f*float64(scale) + 0.5)
	whole := scaled / scale
	frac := scaled % scale

	result := toStr(whole)
	if prec > 0 {
		fracStr := toStr(frac)
		for len(fracStr) < prec {
			fracStr = "0" + fracStr
		}
		result += "." + fracStr
	}

	if negative {
		result = "-" + result
	}
	return result
}

// fmtDurationShort formats a duration as "1.2s" or "450ms".
func fmtDurationShort(d time.Duration) string {
	if d < time.Second {
		return toStr(int(d.Milliseconds())) + "ms"
	}
	return fmtFloat(d.Seconds(), 1) + "s"
}
