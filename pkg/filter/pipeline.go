package filter

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/SteeveDroz/filters/pkg/raster"
	"github.com/SteeveDroz/filters/pkg/split"
)

// Pipeline applies filter chains to grids.
type Pipeline struct {
	// Workers bounds how many row bands the per-pixel stage processes at
	// once. Zero or less uses runtime.NumCPU; 1 runs sequentially.
	Workers int
}

func (p Pipeline) workers() int {
	if p.Workers <= 0 {
		return runtime.NumCPU()
	}
	return p.Workers
}

// Apply runs one filter over g and returns a new grid. The per-pixel stage
// completes for every row before the whole-grid stage starts.
func (p Pipeline) Apply(g raster.Grid, k Kind) raster.Grid {
	out := raster.NewGrid(g.Width, g.Height)

	var eg errgroup.Group
	eg.SetLimit(p.workers())
	for _, band := range split.Rows(g.Height, p.workers()) {
		eg.Go(func() error {
			for i := band.Start * g.Width; i < band.End*g.Width; i++ {
				out.Pix[i] = k.Pixel(g.Pix[i])
			}
			return nil
		})
	}
	// Bands never fail; Wait only separates the two stages.
	_ = eg.Wait()

	return k.Image(out)
}

// Run folds the chain over g from left to right. An empty chain returns a
// copy of g.
func (p Pipeline) Run(g raster.Grid, chain Chain) raster.Grid {
	if len(chain) == 0 {
		return g.Clone()
	}
	log := Logger()
	for i, k := range chain {
		log.Debug("applying filter", "filter", k, "index", i, "width", g.Width, "height", g.Height)
		g = p.Apply(g, k)
	}
	return g
}

// Run applies chain to g with default settings.
func Run(g raster.Grid, chain Chain) raster.Grid {
	return Pipeline{}.Run(g, chain)
}
