/*
errors.go - Error types for dataset loading

ERROR CATEGORIES:
  1. Load errors - dataset missing, unreadable, or malformed (fatal at startup)

  A query never fails. An unknown district is the NotFound result value,
  not an error.

USAGE:
  idx, err := pricing.Load(ctx, src)
  if errors.Is(err, pricing.ErrDataLoad) {
      // refuse to start
  }
*/
package pricing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDataLoad is the sentinel every DataLoadError unwraps to.
	ErrDataLoad = errors.New("dataset load failed")

	// ErrUnsupportedFormat is returned for dataset files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// DataLoadError describes why a dataset could not be turned into an index.
type DataLoadError struct {
	Path           string   // empty for readers and non-file sources
	MissingColumns []string // required header columns that were absent
	Err            error
}

func (e *DataLoadError) Error() string {
	var b strings.Builder
	b.WriteString("load dataset")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if len(e.MissingColumns) > 0 {
		fmt.Fprintf(&b, ": missing columns %s", strings.Join(e.MissingColumns, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is reports ErrDataLoad so callers can match without errors.As.
func (e *DataLoadError) Is(target error) bool {
	return target == ErrDataLoad
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// IsDataLoad returns true if err stems from a dataset that could not be loaded.
func IsDataLoad(err error) bool {
	return errors.Is(err, ErrDataLoad)
}
