// Package core holds the plan domain model and the revenue projection
// arithmetic. Everything here is pure: no I/O, no state, and numeric
// coercion never fails — bad data degrades to zero by policy.
package core

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt is a unit-count field that may arrive as a JSON number or a
// free-text string ("135", "Upsell Focus", "Event Based"). The original
// form is preserved for display and round-tripping; Int applies the
// coercion rule used everywhere the value is consumed arithmetically:
// leading digits of a string, negative values clamped, zero on failure.
type FlexInt struct {
	text  string
	value int
	isNum bool
}

// NewFlexInt wraps a plain integer unit count.
func NewFlexInt(n int) FlexInt {
	return FlexInt{value: n, isNum: true}
}

// NewFlexString wraps a free-text unit field, coercing eagerly.
func NewFlexString(s string) FlexInt {
	return FlexInt{text: s, value: parseLeadingInt(s)}
}

// Int returns the coerced non-negative integer value. Safe on nil.
func (f *FlexInt) Int() int {
	if f == nil {
		return 0
	}
	if f.value < 0 {
		return 0
	}
	return f.value
}

// Display returns the original form for rendering.
func (f *FlexInt) Display() string {
	if f == nil {
		return ""
	}
	if f.isNum {
		return strconv.Itoa(f.value)
	}
	return f.text
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if f.isNum {
		return json.Marshal(f.value)
	}
	return json.Marshal(f.text)
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt{value: n, isNum: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexInt{text: s, value: parseLeadingInt(s)}
		return nil
	}
	// Anything else (null, object) coerces to zero rather than erroring.
	*f = FlexInt{}
	return nil
}

// parseLeadingInt extracts the leading digit run of a trimmed string,
// defaulting to 0 on total failure.
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// ParseTargetRevenue converts a human-authored currency target such as
// "₹1,59,56,805" into a number by discarding every byte that is not an
// ASCII digit. Free-text targets ("High Impact Event Month") parse to 0.
func ParseTargetRevenue(s string) float64 {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return n
}
