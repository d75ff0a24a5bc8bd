/*
Package pricing estimates land prices for a district and locality.

PURPOSE:
  Turns a table of historical land sale observations into an immutable
  index that answers "what does land cost here?" queries. Queries tolerate
  misspelled locality names and degrade to a district-wide average when no
  locality can be resolved.

KEY CONCEPTS IN THIS FILE (types.go):
  - Observation: One cleaned sale row with its derived per-cent price
  - Estimate: A pair of rounded means (price per cent, total price)
  - Result: Tagged union of the four query outcomes
  - MatchKind: Which resolution tier produced a Result

AREA UNIT:
  Prices are normalized to "cents", the local land unit of 435.6 sq ft.
  A 2178 sq ft plot is 5 cents; at 500000 total it costs 100000 per cent.

PRECISION:
  Derived values and means use decimal.Decimal. Rounding to 2 places is
  applied to the final means only, never to per-row values.

SEE ALSO:
  - index.go: Index construction and the three-tier Estimate algorithm
  - match.go: Locality similarity matching
  - load.go: CSV/XLSX readers and row cleaning
*/
package pricing

import (
	"github.com/shopspring/decimal"
)

// SqftPerCent is the size of one cent in square feet.
var SqftPerCent = decimal.RequireFromString("435.6")

// =============================================================================
// OBSERVATION - One cleaned row of the price table
// =============================================================================

// Observation is a single land sale. The derived fields are computed once
// by NewObservation and never change.
type Observation struct {
	District string
	Locality string
	AreaSqft decimal.Decimal
	Price    decimal.Decimal

	Cents        decimal.Decimal
	PricePerCent decimal.Decimal
}

// NewObservation derives cents and price per cent for a row.
// The caller guarantees areaSqft is positive.
func NewObservation(district, locality string, areaSqft, price decimal.Decimal) Observation {
	// price * 435.6 / area: dividing by the truncated Cents would lose
	// digits for small plots.
	return Observation{
		District:     district,
		Locality:     locality,
		AreaSqft:     areaSqft,
		Price:        price,
		Cents:        areaSqft.Div(SqftPerCent),
		PricePerCent: price.Mul(SqftPerCent).Div(areaSqft),
	}
}

// =============================================================================
// RESULT - Tagged union of query outcomes
// =============================================================================

// MatchKind identifies the tier that resolved a query.
type MatchKind string

const (
	MatchExact    MatchKind = "exact"
	MatchFuzzy    MatchKind = "fuzzy"
	MatchDistrict MatchKind = "district"
	MatchNone     MatchKind = "not_found"
)

// Estimate holds the rounded means shared by every successful tier.
type Estimate struct {
	PerCent decimal.Decimal // mean price per cent, 2 dp
	Total   decimal.Decimal // mean total price, 2 dp
}

// Result is returned by Index.Estimate. The concrete type is one of
// Exact, Fuzzy, DistrictAverage or NotFound; callers switch on it.
type Result interface {
	Kind() MatchKind
	isResult()
}

// Exact is a match on the district and locality as supplied.
type Exact struct {
	Estimate
	Locality string // the caller's spelling
}

// Fuzzy is a match on the closest known locality of the district.
type Fuzzy struct {
	Estimate
	Locality   string  // stored spelling of the matched locality
	Similarity float64 // ratio in [0.6, 1]
}

// DistrictAverage is the mean over every observation in the district.
type DistrictAverage struct {
	Estimate
}

// NotFound means the district has no observations at all.
type NotFound struct {
	District string
}

func (Exact) Kind() MatchKind           { return MatchExact }
func (Fuzzy) Kind() MatchKind           { return MatchFuzzy }
func (DistrictAverage) Kind() MatchKind { return MatchDistrict }
func (NotFound) Kind() MatchKind        { return MatchNone }

func (Exact) isResult()           {}
func (Fuzzy) isResult()           {}
func (DistrictAverage) isResult() {}
func (NotFound) isResult()        {}

// EstimateOf returns the price pair carried by r, if any.
func EstimateOf(r Result) (Estimate, bool) {
	switch v := r.(type) {
	case Exact:
		return v.Estimate, true
	case Fuzzy:
		return v.Estimate, true
	case DistrictAverage:
		return v.Estimate, true
	default:
		return Estimate{}, false
	}
}

// ResolvedLocality returns the locality a result was computed for.
// District averages and NotFound have none.
func ResolvedLocality(r Result) (string, bool) {
	switch v := r.(type) {
	case Exact:
		return v.Locality, true
	case Fuzzy:
		return v.Locality, true
	default:
		return "", false
	}
}
