package core

import (
	"fmt"
	"math"
	"strconv"
)

// FormatIndianCurrency renders an amount in the compact Indian notation
// used across every revenue display and export:
//
//	>= 1 crore (1,00,00,000) -> "₹1.2Cr"
//	>= 1 lakh  (1,00,000)    -> "₹1.5L"
//	>= 1,000                 -> "₹2.5K"
//	below                    -> "₹500"
func FormatIndianCurrency(amount float64) string {
	if amount < 0 {
		return "-" + FormatIndianCurrency(-amount)
	}
	switch {
	case amount >= 1e7:
		return fmt.Sprintf("₹%.1fCr", amount/1e7)
	case amount >= 1e5:
		return fmt.Sprintf("₹%.1fL", amount/1e5)
	case amount >= 1e3:
		return fmt.Sprintf("₹%.1fK", amount/1e3)
	default:
		return "₹" + strconv.FormatInt(int64(math.Round(amount)), 10)
	}
}

// FormatIndianGrouping renders a rounded rupee amount with Indian digit
// grouping ("₹1,59,56,805"): three digits, then groups of two.
func FormatIndianGrouping(amount float64) string {
	neg := amount < 0
	n := int64(math.Round(math.Abs(amount)))
	s := strconv.FormatInt(n, 10)

	if len(s) > 3 {
		head := s[:len(s)-3]
		tail := s[len(s)-3:]
		var grouped string
		for len(head) > 2 {
			grouped = "," + head[len(head)-2:] + grouped
			head = head[:len(head)-2]
		}
		s = head + grouped + "," + tail
	}
	if neg {
		return "-₹" + s
	}
	return "₹" + s
}
