package apihistory

import (
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collators keep scratch buffers and are not safe for concurrent use.
var collators = sync.Pool{
	New: func() any { return collate.New(language.English) },
}

// CompareLabels orders two version labels. Each label is split into runs of
// digits and runs of everything else; digit runs compare by numeric value
// and other runs by English collation, with digit runs before other runs
// at the same position. When one label runs out first it is
// the lower one, so "1.2" < "1.2.0.1" < "1.2.3" < "1.4" < "1.10".
//
// It returns -1, 0 or +1. Zero is only returned for identical labels.
func CompareLabels(a, b string) int {
	x, y := a, b
	for x != "" && y != "" {
		rx, restX := nextRun(x)
		ry, restY := nextRun(y)
		if c := compareRuns(rx, ry); c != 0 {
			return c
		}
		x, y = restX, restY
	}
	switch {
	case x == "" && y != "":
		return -1
	case x != "" && y == "":
		return 1
	}
	// Equal by value, e.g. "1.01" and "1.1".
	return strings.Compare(a, b)
}

// IsDiffable reports whether v can take part in a history: the pending
// build, or a release whose label is only digits and dots.
func IsDiffable(v ArtifactVersion) bool {
	if v.Pending {
		return true
	}
	return isNumericLabel(v.Version)
}

func isNumericLabel(label string) bool {
	digits := strings.ReplaceAll(label, ".", "")
	if digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return false
		}
	}
	return true
}

func compareRuns(x, y string) int {
	if x == y {
		return 0
	}
	dx, dy := isDigit(x[0]), isDigit(y[0])
	switch {
	case dx && dy:
		return compareNumeric(x, y)
	case dx:
		return -1
	case dy:
		return 1
	}
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	if r := c.CompareString(x, y); r != 0 {
		return r
	}
	return strings.Compare(x, y)
}

// compareNumeric compares two digit runs by value without parsing them, so
// runs longer than an int64 still order correctly.
func compareNumeric(x, y string) int {
	x = strings.TrimLeft(x, "0")
	y = strings.TrimLeft(y, "0")
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	// Same magnitude; leading zeros are settled by the caller's fallback.
	return strings.Compare(x, y)
}

// nextRun splits s into its leading digit or non-digit run and the rest.
func nextRun(s string) (run, rest string) {
	digits := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
