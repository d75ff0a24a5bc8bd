/*
index.go - Immutable price index and the three-tier Estimate query

PURPOSE:
  Groups cleaned observations by district and locality and answers price
  queries against those groups.

RESOLUTION TIERS (first that yields data wins):
  1. Exact:    district and locality equal the query, ignoring case
  2. Fuzzy:    the closest known locality of the district, ratio >= 0.6
  3. District: mean over every observation in the district

  A district with no observations yields NotFound.

PRECOMPUTATION:
  Sums are accumulated once in NewIndex, per district, per stored locality
  spelling and per case-folded locality. A query is map lookups plus, for
  the fuzzy tier, one similarity pass over the district's localities.

CONCURRENCY:
  An Index is never mutated after NewIndex returns. Any number of
  goroutines may query it without locking. Refreshing the data means
  building a new Index and swapping the pointer.
*/
package pricing

import (
	"context"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// aggregate accumulates the sums needed for the two means.
type aggregate struct {
	perCent decimal.Decimal
	total   decimal.Decimal
	n       int64
}

func (a *aggregate) add(o Observation) {
	a.perCent = a.perCent.Add(o.PricePerCent)
	a.total = a.total.Add(o.Price)
	a.n++
}

func (a *aggregate) estimate() Estimate {
	n := decimal.NewFromInt(a.n)
	return Estimate{
		PerCent: a.perCent.Div(n).Round(2),
		Total:   a.total.Div(n).Round(2),
	}
}

type districtEntry struct {
	localities []string              // distinct stored spellings, first occurrence first
	bySpelling map[string]*aggregate // keyed by stored spelling
	byFolded   map[string]*aggregate // keyed by lower-cased locality
	all        aggregate
}

// Index is the read-only price index. Build it with NewIndex or Load.
type Index struct {
	districts map[string]*districtEntry // keyed by lower-cased district
	names     []string
	size      int
}

// NewIndex builds an index from cleaned observations.
func NewIndex(obs []Observation) *Index {
	idx := &Index{
		districts: make(map[string]*districtEntry),
		size:      len(obs),
	}

	seenNames := make(map[string]bool)
	for _, o := range obs {
		if !seenNames[o.District] {
			seenNames[o.District] = true
			idx.names = append(idx.names, o.District)
		}

		key := fold(o.District)
		d, ok := idx.districts[key]
		if !ok {
			d = &districtEntry{
				bySpelling: make(map[string]*aggregate),
				byFolded:   make(map[string]*aggregate),
			}
			idx.districts[key] = d
		}

		d.all.add(o)

		spelled, ok := d.bySpelling[o.Locality]
		if !ok {
			spelled = &aggregate{}
			d.bySpelling[o.Locality] = spelled
			d.localities = append(d.localities, o.Locality)
		}
		spelled.add(o)

		lkey := fold(o.Locality)
		folded, ok := d.byFolded[lkey]
		if !ok {
			folded = &aggregate{}
			d.byFolded[lkey] = folded
		}
		folded.add(o)
	}

	sort.Strings(idx.names)
	return idx
}

// Load reads every observation from src and builds an index.
// Any failure is reported as a *DataLoadError.
func Load(ctx context.Context, src Source) (*Index, error) {
	obs, err := src.Observations(ctx)
	if err != nil {
		if IsDataLoad(err) {
			return nil, err
		}
		return nil, &DataLoadError{Err: eris.Wrap(err, "read observations")}
	}

	idx := NewIndex(obs)
	zap.L().Info("price index built",
		zap.Int("observations", idx.Len()),
		zap.Int("districts", len(idx.names)),
	)
	return idx, nil
}

// Len returns the number of observations in the index.
func (idx *Index) Len() int {
	return idx.size
}

// Districts returns every distinct district name, sorted ascending.
func (idx *Index) Districts() []string {
	out := make([]string, len(idx.names))
	copy(out, idx.names)
	return out
}

// HasDistrict reports whether district has observations, ignoring case.
func (idx *Index) HasDistrict(district string) bool {
	_, ok := idx.districts[fold(district)]
	return ok
}

// Localities returns the known localities of a district in first-seen
// order, or nil if the district is unknown.
func (idx *Index) Localities(district string) []string {
	d, ok := idx.districts[fold(district)]
	if !ok {
		return nil
	}
	out := make([]string, len(d.localities))
	copy(out, d.localities)
	return out
}

// Estimate resolves a price for locality within district.
func (idx *Index) Estimate(district, locality string) Result {
	d, ok := idx.districts[fold(district)]
	if !ok {
		return NotFound{District: district}
	}

	if agg, ok := d.byFolded[fold(locality)]; ok {
		return Exact{Estimate: agg.estimate(), Locality: locality}
	}

	if match, score, ok := closestMatch(locality, d.localities, MinSimilarity); ok {
		return Fuzzy{
			Estimate:   d.bySpelling[match].estimate(),
			Locality:   match,
			Similarity: score,
		}
	}

	return DistrictAverage{Estimate: d.all.estimate()}
}

func fold(s string) string {
	return strings.ToLower(s)
}
