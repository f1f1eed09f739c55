package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/chainsim/internal/config"
	"github.com/san-kum/chainsim/internal/experiment"
	"github.com/san-kum/chainsim/internal/sim"
)

// Params are the config fields a grid search can vary.
var Params = map[string]func(*config.Config, float64){
	"friction":   func(c *config.Config, v float64) { c.Friction = v },
	"iterations": func(c *config.Config, v float64) { c.Iterations = int(v) },
	"spacing":    func(c *config.Config, v float64) { c.Spacing = v },
	"tilt":       func(c *config.Config, v float64) { c.Tilt = v },
	"nodes":      func(c *config.Config, v float64) { c.Nodes = int(v) },
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("grid search: %d params but %d ranges", len(params), len(ranges))
	}
	for _, p := range params {
		if _, ok := Params[p]; !ok {
			return nil, fmt.Errorf("grid search: unknown param %q (available: %v)", p, ParamNames())
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

func ParamNames() []string {
	names := make([]string, 0, len(Params))
	for name := range Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Search runs base with every combination of the grid and returns the
// parameters that minimise metricName. Combinations that fail to build or
// run are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (map[string]float64, float64, error) {
	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(metricName); err != nil {
		return nil, 0, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), base, registry, metricName, &best, &bestParams)

	if err := ctx.Err(); err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, best, fmt.Errorf("grid search: no combination completed")
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	registry *experiment.Registry,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		cfg := *base
		for k, v := range current {
			Params[k](&cfg, v)
		}

		metric, _ := registry.GetMetric(metricName)
		exp := experiment.New(&cfg)
		if err := exp.Setup([]sim.Metric{metric}); err != nil {
			return
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return
		}

		val := result.Metrics[metricName]
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, base, registry, metricName, best, bestParams)
	}
}
