package stack

import (
	"math"

	"github.com/gogpu/ggchart/data"
)

// Group is the ordered members of one stack key.
type Group struct {
	Key     string
	Members []Stackable
}

// Groups partitions the enabled members by stack key, keeping declaration
// order within and across groups.
func Groups(members []Stackable) []Group {
	var groups []Group
	byKey := make(map[string]int)
	for _, m := range members {
		c := m.StackCapability()
		if !c.Enabled || c.Key == "" {
			continue
		}
		i, ok := byKey[c.Key]
		if !ok {
			i = len(groups)
			byKey[c.Key] = i
			groups = append(groups, Group{Key: c.Key})
		}
		groups[i].Members = append(groups[i].Members, m)
	}
	return groups
}

// Resolve computes every stack group of members and replaces each member's
// store with one holding the result and stacked-over dimensions.
func Resolve(members []Stackable) {
	for _, g := range Groups(members) {
		resolveGroup(g.Members)
	}
}

func resolveGroup(members []Stackable) {
	for k, target := range members {
		tc := target.StackCapability()
		src := target.Store()
		if src == nil {
			continue
		}
		var byMeta *data.OrdinalMeta
		if !tc.IsStackedByIndex {
			if d, ok := src.Dimension(tc.StackedByDimension); ok {
				byMeta = d.Ordinal
			}
		}
		prior := members[:k]

		out := src.Map([]string{tc.ResultDimension, tc.OverDimension}, func(_ []float64, di int) []float64 {
			sum := src.Get(tc.StackedDimension, di)
			if math.IsNaN(sum) {
				return []float64{math.NaN(), math.NaN()}
			}

			raw := -1
			var byValue float64
			if tc.IsStackedByIndex {
				raw = src.RawIndex(di)
			} else {
				byValue = src.Get(tc.StackedByDimension, di)
			}

			over := math.NaN()
			for j := len(prior) - 1; j >= 0; j-- {
				pc := prior[j].StackCapability()
				ps := prior[j].Store()
				if ps == nil || pc.IsStackedByIndex != tc.IsStackedByIndex {
					continue
				}
				if !tc.IsStackedByIndex {
					raw = ps.RawIndexOf(pc.StackedByDimension, alignValue(byValue, byMeta, ps, pc.StackedByDimension))
				}
				if raw < 0 {
					continue
				}
				val := ps.GetByRawIndex(pc.ResultDimension, raw)
				if tc.Strategy.accepts(sum, val) {
					sum = addSafe(sum, val)
					over = val
					break
				}
			}
			return []float64{sum, over}
		})

		if k > 0 {
			out.SetCalculationInfo(data.KeyStackedOnSeries, members[k-1].UID())
		}
		target.SetStore(out)
	}
}

// alignValue translates an ordinal value into the category space of the
// prior store's dimension when the two stores use different metas.
func alignValue(v float64, meta *data.OrdinalMeta, prior *data.Store, dim string) float64 {
	if meta == nil || math.IsNaN(v) {
		return v
	}
	d, ok := prior.Dimension(dim)
	if !ok || d.Ordinal == nil || d.Ordinal == meta {
		return v
	}
	name := meta.Category(int(v))
	if name == "" {
		// Bare indices share one index space.
		return v
	}
	i, ok := d.Ordinal.Lookup(name)
	if !ok {
		return math.NaN()
	}
	return float64(i)
}
