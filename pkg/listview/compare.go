package listview

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var collator = collate.New(language.Und)

// CompareStrings orders two strings with locale-aware collation, matching
// the browser localeCompare ordering the legacy screens sorted with.
func CompareStrings(a, b string) int {
	return collator.CompareString(a, b)
}

// registerNumber is a parsed "<number>/<2-digit-year>" registration number.
type registerNumber struct {
	number float64
	year   float64
}

// parseRegisterNumber parses values like "10/23" into (10, 2023). Missing
// or unparseable values map to +Inf on both keys so they sort after every
// parseable value ascending, and before them descending.
func parseRegisterNumber(reg string) registerNumber {
	if reg == "" {
		return registerNumber{number: math.Inf(1), year: math.Inf(1)}
	}
	parts := strings.SplitN(reg, "/", 2)
	number, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return registerNumber{number: math.Inf(1), year: math.Inf(1)}
	}
	if len(parts) < 2 {
		return registerNumber{number: float64(number), year: 0}
	}
	yy, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return registerNumber{number: math.Inf(1), year: math.Inf(1)}
	}
	return registerNumber{number: float64(number), year: float64(2000 + yy)}
}

// CompareRegisterNumbers orders registration numbers of the shape
// "<number>/<2-digit-year>" by year first, then number.
func CompareRegisterNumbers(a, b string) int {
	ra, rb := parseRegisterNumber(a), parseRegisterNumber(b)
	if ra.year != rb.year {
		if ra.year < rb.year {
			return -1
		}
		return 1
	}
	if ra.number != rb.number {
		if ra.number < rb.number {
			return -1
		}
		return 1
	}
	return 0
}
