// Package report projects a list of weighing entries into the grouped summary
// printed for the buyer.
//
// Build is pure: the same lines and options always produce the same Report.
// The issue date comes from Options so callers control the clock.
package report

import (
	"time"

	"github.com/roach88/balanca/internal/batch"
	"github.com/roach88/balanca/internal/model"
)

const (
	// DefaultBoneCategory is the item type split by product.
	DefaultBoneCategory = "Osso"

	// NoProduct labels bone entries without a product description.
	NoProduct = "Sem Produto"

	titlePrefix = "Relatório de Pesagem"
)

// Line is one entry as the report sees it, whether it comes from the live
// batch or from a saved weighing.
type Line struct {
	ID                 string
	ItemType           string
	ProductDescription string
	GrossWeightKg      float64
	TareKg             float64
	NetWeightKg        float64
	UnitPrice          float64
	TotalPrice         float64
}

// FromEntries converts live batch entries, keeping their order.
func FromEntries(entries []batch.Entry) []Line {
	lines := make([]Line, len(entries))
	for i, e := range entries {
		lines[i] = Line{
			ID:                 e.ID,
			ItemType:           e.ItemType,
			ProductDescription: e.ProductDescription,
			GrossWeightKg:      e.GrossWeightKg,
			TareKg:             e.TareKg,
			NetWeightKg:        e.NetWeightKg(),
			UnitPrice:          e.UnitPrice,
			TotalPrice:         e.TotalPrice(),
		}
	}
	return lines
}

// FromRecords converts persisted entries, keeping their order.
func FromRecords(entries []model.WeighingEntry) []Line {
	lines := make([]Line, len(entries))
	for i, e := range entries {
		lines[i] = Line{
			ID:                 e.ID,
			ItemType:           e.ItemType,
			ProductDescription: e.ProductDescription,
			GrossWeightKg:      e.GrossWeight,
			TareKg:             e.TareUsed,
			NetWeightKg:        e.NetWeight,
			UnitPrice:          e.UnitPrice,
			TotalPrice:         e.TotalPrice,
		}
	}
	return lines
}

// Totals summarizes a set of lines.
type Totals struct {
	Count       int     `json:"count"`
	NetWeightKg float64 `json:"net_weight_kg"`
	TotalPrice  float64 `json:"total_price"`
}

func (t *Totals) add(l Line) {
	t.Count++
	t.NetWeightKg += l.NetWeightKg
	t.TotalPrice += l.TotalPrice
}

// Group is the block of one item type, or of one product inside the bone
// category.
type Group struct {
	Name     string  `json:"name"`
	Lines    []Line  `json:"lines"`
	Totals   Totals  `json:"totals"`
	TareUsed float64 `json:"tare_used"`

	// Subgroups is set only on the bone category group.
	Subgroups []Group `json:"subgroups,omitempty"`
}

// IsBone reports whether g is split into product subgroups.
func (g Group) IsBone() bool {
	return g.Subgroups != nil
}

// Report is the grouped projection ready for rendering.
type Report struct {
	Title      string       `json:"title"`
	IssuedAt   time.Time    `json:"issued_at"`
	Buyer      *model.Buyer `json:"buyer,omitempty"`
	WeighingID string       `json:"weighing_id,omitempty"`
	Groups     []Group      `json:"groups"`
	Totals     Totals       `json:"totals"`
	Footer     []string     `json:"footer,omitempty"`
	Detailed   bool         `json:"detailed"`
}

// Bone returns the bone category group, if the report has one.
func (r Report) Bone() (Group, bool) {
	for _, g := range r.Groups {
		if g.IsBone() {
			return g, true
		}
	}
	return Group{}, false
}

// Options control Build.
type Options struct {
	// StoreName is appended to the report title.
	StoreName string
	IssuedAt  time.Time
	Buyer     *model.Buyer

	// WeighingID identifies a saved weighing; empty for the live batch.
	WeighingID string

	// BoneCategory defaults to DefaultBoneCategory.
	BoneCategory string

	// ReferenceTare supplies the cached tare for an item type. May be nil.
	ReferenceTare func(itemType string) float64

	Settings *model.Settings
}

// Title builds the report heading for a store name.
func Title(storeName string) string {
	if storeName == "" {
		return titlePrefix
	}
	return titlePrefix + " - " + storeName
}

// Build groups lines by item type in first-seen order. The bone category is
// further split by product description, also in first-seen order, and
// carries the category subtotal in its own Totals. Grand totals cover every
// line.
func Build(lines []Line, opts Options) Report {
	bone := opts.BoneCategory
	if bone == "" {
		bone = DefaultBoneCategory
	}

	r := Report{
		Title:      Title(opts.StoreName),
		IssuedAt:   opts.IssuedAt,
		Buyer:      opts.Buyer,
		WeighingID: opts.WeighingID,
		Footer:     opts.Settings.Footer(),
		Detailed:   opts.Settings == nil || opts.Settings.DetailedReport,
	}

	index := make(map[string]int)
	for _, l := range lines {
		r.Totals.add(l)

		i, ok := index[l.ItemType]
		if !ok {
			i = len(r.Groups)
			index[l.ItemType] = i
			g := Group{Name: l.ItemType}
			if l.ItemType == bone {
				g.Subgroups = []Group{}
			}
			r.Groups = append(r.Groups, g)
		}
		g := &r.Groups[i]
		g.Lines = append(g.Lines, l)
		g.Totals.add(l)

		if g.IsBone() {
			addToSubgroup(g, l)
		}
	}

	for i := range r.Groups {
		g := &r.Groups[i]
		g.TareUsed = tareUsed(g.Name, g.Lines, opts.ReferenceTare)
		for j := range g.Subgroups {
			sg := &g.Subgroups[j]
			sg.TareUsed = tareUsed(g.Name, sg.Lines, opts.ReferenceTare)
		}
	}

	return r
}

func addToSubgroup(g *Group, l Line) {
	name := l.ProductDescription
	if name == "" {
		name = NoProduct
	}
	for j := range g.Subgroups {
		if g.Subgroups[j].Name == name {
			g.Subgroups[j].Lines = append(g.Subgroups[j].Lines, l)
			g.Subgroups[j].Totals.add(l)
			return
		}
	}
	sg := Group{Name: name, Lines: []Line{l}}
	sg.Totals.add(l)
	g.Subgroups = append(g.Subgroups, sg)
}

// tareUsed is the tare of the first line, or the reference tare of the item
// type when there are no lines.
func tareUsed(itemType string, lines []Line, ref func(string) float64) float64 {
	if len(lines) > 0 {
		return lines[0].TareKg
	}
	if ref == nil {
		return 0
	}
	return ref(itemType)
}
