package http

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"offerplan/internal/core"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"inr":      core.FormatIndianCurrency,
		"inrExact": core.FormatIndianGrouping,
		"units": func(f *core.FlexInt) string {
			return f.Display()
		},
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// formString returns a sanitized pointer when the field was submitted,
// nil when it was absent. Distinguishing the two is what makes partial
// patches work from plain HTML forms.
func formString(form url.Values, name string) *string {
	if _, ok := form[name]; !ok {
		return nil
	}
	v := sanitizeInput(form.Get(name))
	return &v
}

// formPrice parses an optional price field. Absent or blank means nil;
// separators are tolerated ("12,599" and "₹12,599" both parse).
func formPrice(form url.Values, name string) *float64 {
	if _, ok := form[name]; !ok {
		return nil
	}
	raw := strings.TrimSpace(form.Get(name))
	if raw == "" || strings.Contains(raw, "-") {
		return nil
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteByte(c)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// formUnits parses an optional unit-count field into a FlexInt,
// preserving free text ("Upsell Focus") as-is.
func formUnits(form url.Values, name string) *core.FlexInt {
	if _, ok := form[name]; !ok {
		return nil
	}
	raw := sanitizeInput(form.Get(name))
	if raw == "" {
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		f := core.NewFlexInt(n)
		return &f
	}
	f := core.NewFlexString(raw)
	return &f
}

func formBool(form url.Values, name string) bool {
	switch strings.ToLower(strings.TrimSpace(form.Get(name))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
