package project

import "strings"

// Filter is the conjunction of active predicates. Zero-valued fields are
// inactive; a document must satisfy every active one.
type Filter struct {
	Search      string // free-text substring over folder, name and all field values
	Incomplete  bool   // keep only documents missing a core field
	Direction   string // equality on the direction field
	Type        string // substring on the document type
	Tags        string // substring on the classification marking
	DateFrom    string // inclusive ISO lower bound on doc_date
	DateTo      string // inclusive ISO upper bound on doc_date
	NumberMain  string // substring on the primary registry number
	NumberExtra string // substring on any auxiliary number
}

// matches evaluates the conjunction against one projected row.
func (f Filter) matches(r Row) bool {
	if f.Search != "" && !strings.Contains(r.flatText(), strings.ToLower(f.Search)) {
		return false
	}
	if f.Incomplete && !r.Incomplete() {
		return false
	}
	if f.Direction != "" && !strings.EqualFold(r.Doc.Meta.Direction, f.Direction) {
		return false
	}
	if f.Type != "" && !containsFold(r.Doc.Meta.DocType, f.Type) {
		return false
	}
	if f.Tags != "" && !containsFold(r.Doc.Meta.Tags, f.Tags) {
		return false
	}
	// Date bounds compare lexicographically, valid for well-formed ISO
	// dates. Documents without a date fall outside any bounded range.
	if f.DateFrom != "" && (r.Doc.Meta.DocDate == "" || r.Doc.Meta.DocDate < f.DateFrom) {
		return false
	}
	if f.DateTo != "" && (r.Doc.Meta.DocDate == "" || r.Doc.Meta.DocDate > f.DateTo) {
		return false
	}
	if f.NumberMain != "" && !containsFold(r.Doc.Meta.DocNumber, f.NumberMain) {
		return false
	}
	if f.NumberExtra != "" {
		term := strings.ToLower(f.NumberExtra)
		found := false
		for _, n := range r.Extras {
			if strings.Contains(strings.ToLower(n), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
