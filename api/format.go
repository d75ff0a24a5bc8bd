package api

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/landprice/pricing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// User-facing messages.
const (
	NotFoundMessage     = "Could not predict price (district/locality not found)."
	MissingInputMessage = "Please select a district and enter a locality."
)

var printer = message.NewPrinter(language.English)

// MissingInput reports whether either query field is blank.
func MissingInput(district, locality string) bool {
	return strings.TrimSpace(district) == "" || strings.TrimSpace(locality) == ""
}

// FormatRupees renders a price as whole rupees with thousands separators,
// e.g. ₹110,000. Halves round to even.
func FormatRupees(d decimal.Decimal) string {
	return printer.Sprintf("₹%d", d.RoundBank(0).IntPart())
}

// Warning explains a degraded result to the end user. Exact matches and
// NotFound have no warning.
func Warning(input string, res pricing.Result) string {
	switch v := res.(type) {
	case pricing.Fuzzy:
		return fmt.Sprintf("Locality not found. Showing closest match: '%s'", v.Locality)
	case pricing.DistrictAverage:
		return fmt.Sprintf("Locality '%s' not found. Showing district average instead.", input)
	default:
		return ""
	}
}
