package solver

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/cureops/autobatch/internal/geometry"
	"github.com/cureops/autobatch/internal/planmodel"
)

// exactPack stands in for the spec.md §4.5 exact model. It is not a literal
// CP-SAT formulation — no CP-SAT binding exists anywhere in the retrieved
// corpus (see DESIGN.md) — and it is not an exhaustive search: each worker
// makes one greedy pass over its own item order (see branchAndBound), so
// the result is not guaranteed optimal. The best pass wins by the model's
// objective (items placed, then placed area, then lowest packing top,
// tie-broken by lexicographic (y, x) of the first placement). Passes stop
// at the wall-clock cap. The workers form a bounded pool sized by the
// caller's worker-count hint, clamped to 1..16.
func exactPack(ctx context.Context, items []Item, ac Autoclave, c Constraints) Result {
	deadline := time.Now().Add(time.Duration(c.TimeCapSeconds * float64(time.Second)))

	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > 16 {
		workers = 16
	}

	type seeded struct {
		result  Result
		partial bool
	}

	resultsCh := make(chan seeded, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			order := shuffledOrder(items, rng, seed)
			res, partial := branchAndBound(ctx, order, ac, c, deadline)
			resultsCh <- seeded{result: res, partial: partial}
		}(int64(w) + 1)
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	var best Result
	bestSet := false
	partial := false
	for s := range resultsCh {
		if s.partial {
			partial = true
		}
		if !bestSet || better(s.result, best, items) {
			best = s.result
			bestSet = true
		}
	}

	best.Partial = partial
	return best
}

// shuffledOrder returns items sorted by area descending for worker 0 (the
// greedy seed, mirroring the teacher's "also seed one chromosome with the
// greedy order" idiom from internal/engine/genetic.go) and a random
// permutation for every other worker, so each goroutine explores a
// distinct region of the search space.
func shuffledOrder(items []Item, rng *rand.Rand, seed int64) []Item {
	order := make([]Item, len(items))
	copy(order, items)

	if seed == 1 {
		sort.SliceStable(order, func(i, j int) bool {
			return order[i].area() > order[j].area()
		})
		return order
	}

	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

// branchAndBound places items greedily in the given order, giving each the
// lowest-waste candidate point and rotation from the same feasibility test
// as the heuristic engine. An item that would exceed the vacuum capacity or
// has no feasible position is skipped. It makes a single pass: there is no
// backtracking over earlier choices and no bound on the remaining area.
func branchAndBound(ctx context.Context, order []Item, ac Autoclave, c Constraints, deadline time.Time) (Result, bool) {
	var placedBoxes []geometry.Box
	var placements []planmodel.Placement

	vacuumUsed := 0
	woContributed := make(map[string]bool)

	partial := false

	for i, it := range order {
		if time.Now().After(deadline) || ctx.Err() != nil {
			partial = true
			break
		}

		additionalVacuum := 0
		if !woContributed[it.WorkOrderID] {
			additionalVacuum = it.VacuumLines
		}
		if vacuumUsed+additionalVacuum > ac.VacuumLines {
			continue
		}

		best, ok := bestCandidate(it, placedBoxes, ac, c)
		if !ok {
			// No feasible position for this item: skip it and keep trying
			// the rest of the order.
			_ = i
			continue
		}

		placedBoxes = append(placedBoxes, best.box)
		placements = append(placements, planmodel.Placement{
			WorkOrderID: it.WorkOrderID,
			ToolID:      it.ToolID,
			X:           best.box.X,
			Y:           best.box.Y,
			Width:       best.box.W,
			Height:      best.box.H,
			Rotated:     best.rotated,
			Level:       levelOf(it),
		})

		if !woContributed[it.WorkOrderID] {
			woContributed[it.WorkOrderID] = true
			vacuumUsed += it.VacuumLines
		}
	}

	return Result{Placements: placements}, partial
}

// better implements the solver objective from spec.md §4.5: most items
// placed, then highest placed area, then lowest top-of-packing, tie-broken
// by lexicographic (y, x) of the first placement.
func better(a, b Result, items []Item) bool {
	if len(a.Placements) != len(b.Placements) {
		return len(a.Placements) > len(b.Placements)
	}

	aArea, bArea := a.PlacedArea(), b.PlacedArea()
	if aArea != bArea {
		return aArea > bArea
	}

	aTop, bTop := topOf(a), topOf(b)
	if aTop != bTop {
		return aTop < bTop
	}

	if len(a.Placements) == 0 || len(b.Placements) == 0 {
		return false
	}
	ap, bp := firstByPosition(a.Placements), firstByPosition(b.Placements)
	if ap.Y != bp.Y {
		return ap.Y < bp.Y
	}
	return ap.X < bp.X
}

func topOf(r Result) float64 {
	top := 0.0
	for _, p := range r.Placements {
		if y := p.Y + p.Height; y > top {
			top = y
		}
	}
	return top
}

func firstByPosition(placements []planmodel.Placement) planmodel.Placement {
	best := placements[0]
	for _, p := range placements[1:] {
		if p.Y < best.Y || (p.Y == best.Y && p.X < best.X) {
			best = p
		}
	}
	return best
}
