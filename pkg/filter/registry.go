package filter

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Resolution is the outcome of looking up a filter name. Warning is empty
// when the name matched a variant.
type Resolution struct {
	Filter  Kind
	Warning string
}

// Names returns every valid filter name, lowercased, in declaration order.
func Names() []string {
	return lo.Map(Kinds(), func(k Kind, _ int) string {
		return strings.ToLower(k.String())
	})
}

// Resolve matches name case-insensitively against the filter variants.
// Unknown names resolve to Nothing with a warning listing the valid names.
func Resolve(name string) Resolution {
	upper := strings.ToUpper(name)
	for _, k := range Kinds() {
		if variants[k].name == upper {
			return Resolution{Filter: k}
		}
	}
	return Resolution{
		Filter:  Nothing,
		Warning: fmt.Sprintf("Unknown filter: %s, the list of filters are: %s.", name, strings.Join(Names(), ", ")),
	}
}

// ResolveAll resolves names in order. Unknown names keep their slot in the
// chain as Nothing; their warnings are returned in the same order.
func ResolveAll(names []string) (Chain, []string) {
	chain := make(Chain, 0, len(names))
	var warnings []string
	for _, name := range names {
		res := Resolve(name)
		chain = append(chain, res.Filter)
		if res.Warning != "" {
			warnings = append(warnings, res.Warning)
		}
	}
	return chain, warnings
}
