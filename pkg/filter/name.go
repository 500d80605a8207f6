package filter

import (
	"strings"

	"github.com/samber/lo"
)

// ComposeName appends each filter's fragment to base in chain order, e.g.
// "photo" with [Invert, Grayscale] gives "photo_invert_grayscale".
func ComposeName(base string, chain Chain) string {
	return base + strings.Join(lo.Map(chain, func(k Kind, _ int) string {
		return k.Fragment()
	}), "")
}
