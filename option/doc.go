// Package option decodes the declarative chart option from JSON.
//
// The option tree mirrors the chart option format: a palette, a list of
// series with their data, and visualMap components. Data items may be
// plain arrays, scalars, or objects carrying a name, an item style and a
// visualMap opt-out:
//
//	{
//	  "series": [{
//	    "name": "A", "type": "bar", "stack": "total",
//	    "data": [1, 2, {"value": -1, "itemStyle": {"color": "#000"}}]
//	  }]
//	}
//
// Load reads an option file and Watch reloads it whenever it changes.
package option
