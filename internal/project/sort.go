package project

import (
	"strconv"
	"strings"
	"time"
)

// naturalCompare orders strings the way humans expect: digit runs are
// compared as integers, non-digit runs case-insensitively as text, so
// "file2" precedes "file10".
func naturalCompare(a, b string) int {
	ra, rb := splitRuns(a), splitRuns(b)
	for i := 0; i < len(ra) && i < len(rb); i++ {
		ta, tb := ra[i], rb[i]
		na, aNum := runInt(ta)
		nb, bNum := runInt(tb)
		switch {
		case aNum && bNum:
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
		default:
			if c := strings.Compare(strings.ToLower(ta), strings.ToLower(tb)); c != 0 {
				return c
			}
		}
	}
	return len(ra) - len(rb)
}

// splitRuns cuts a string into alternating digit and non-digit runs.
func splitRuns(s string) []string {
	var runs []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[i-1]) {
			runs = append(runs, s[start:i])
			start = i
		}
	}
	return runs
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func runInt(s string) (int64, bool) {
	if s == "" || !isDigit(s[0]) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// digit run too long for int64, fall back to text compare
		return 0, false
	}
	return n, true
}

// parseFlexibleDate accepts ISO (YYYY-MM-DD) and day-first (DD-MM-YYYY)
// values, picking the layout by where the first dash sits. Unparseable
// values sort to the earliest possible position via the zero time.
func parseFlexibleDate(s string) time.Time {
	layout := "02-01-2006"
	if i := strings.IndexByte(s, '-'); i == 4 {
		layout = "2006-01-02"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// compareRows orders two rows on one column. Each column family gets its
// typed comparator; everything else is case-insensitive text.
func compareRows(a, b Row, column string) int {
	switch column {
	case ColFilename:
		return naturalCompare(a.Doc.Filename, b.Doc.Filename)
	case ColNumber:
		// Numeric when both sides parse, lexicographic text otherwise.
		fa, errA := strconv.ParseFloat(a.Doc.Meta.DocNumber, 64)
		fb, errB := strconv.ParseFloat(b.Doc.Meta.DocNumber, 64)
		if errA == nil && errB == nil {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
		return strings.Compare(strings.ToLower(a.Doc.Meta.DocNumber), strings.ToLower(b.Doc.Meta.DocNumber))
	case ColDate, ColDeadline:
		va, vb := a.columnValue(column), b.columnValue(column)
		ta, tb := parseFlexibleDate(va), parseFlexibleDate(vb)
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		}
		return 0
	case ColControlled:
		return boolCompare(a.Doc.Meta.Controlled, b.Doc.Meta.Controlled)
	case ColModified:
		switch {
		case a.Doc.LastModified < b.Doc.LastModified:
			return -1
		case a.Doc.LastModified > b.Doc.LastModified:
			return 1
		}
		return 0
	default:
		return strings.Compare(
			strings.ToLower(a.columnValue(column)),
			strings.ToLower(b.columnValue(column)))
	}
}

func boolCompare(a, b bool) int {
	switch {
	case !a && b:
		return -1
	case a && !b:
		return 1
	}
	return 0
}
