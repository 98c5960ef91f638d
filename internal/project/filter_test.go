package project

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docregistry/docreg/internal/store"
)

func fullRow() Row {
	return Row{
		Doc: store.Document{
			Filename: "report_12.pdf",
			Folder:   "finance/2024",
			Meta: store.Metadata{
				Direction:   "inbound",
				DocType:     "report",
				DocNumber:   "12/44",
				DocDate:     "2024-06-01",
				Sender:      "Accounting",
				Tags:        "internal",
				Description: "quarterly figures",
			},
		},
		Extras: []string{"567", "AB-99"},
	}
}

func TestFilterFreeText(t *testing.T) {
	r := fullRow()
	assert.True(t, Filter{Search: "QUARTERLY"}.matches(r), "search is case-insensitive")
	assert.True(t, Filter{Search: "finance"}.matches(r), "folder is searchable")
	assert.True(t, Filter{Search: "report_12"}.matches(r), "name without extension is searchable")
	assert.True(t, Filter{Search: "ab-99"}.matches(r), "auxiliary numbers are searchable")
	assert.False(t, Filter{Search: "payroll"}.matches(r))
}

func TestFilterIncomplete(t *testing.T) {
	complete := fullRow()
	assert.False(t, Filter{Incomplete: true}.matches(complete))

	partial := fullRow()
	partial.Doc.Meta.Sender = ""
	assert.True(t, Filter{Incomplete: true}.matches(partial))
}

func TestFilterConjunction(t *testing.T) {
	r := fullRow()
	all := Filter{
		Search:      "figures",
		Direction:   "inbound",
		Type:        "rep",
		Tags:        "intern",
		DateFrom:    "2024-01-01",
		DateTo:      "2024-12-31",
		NumberMain:  "12",
		NumberExtra: "567",
	}
	assert.True(t, all.matches(r))

	// Breaking any single predicate excludes the row.
	breakers := []func(*Filter){
		func(f *Filter) { f.Search = "missing" },
		func(f *Filter) { f.Direction = "outbound" },
		func(f *Filter) { f.Type = "letter" },
		func(f *Filter) { f.Tags = "secret" },
		func(f *Filter) { f.DateFrom = "2024-07-01" },
		func(f *Filter) { f.DateTo = "2024-05-01" },
		func(f *Filter) { f.NumberMain = "99" },
		func(f *Filter) { f.NumberExtra = "000" },
	}
	for i, broken := range breakers {
		f := all
		broken(&f)
		assert.False(t, f.matches(r), "breaker %d must exclude the row", i)
	}
}

func TestFilterDateBoundsRequireDate(t *testing.T) {
	r := fullRow()
	r.Doc.Meta.DocDate = ""
	assert.False(t, Filter{DateFrom: "2024-01-01"}.matches(r))
	assert.False(t, Filter{DateTo: "2024-12-31"}.matches(r))
	assert.True(t, Filter{}.matches(r), "no active predicate keeps everything")
}

func TestFilterDirectionIsEquality(t *testing.T) {
	r := fullRow()
	assert.True(t, Filter{Direction: "INBOUND"}.matches(r))
	assert.False(t, Filter{Direction: "in"}.matches(r), "direction is equality, not substring")
}
