package usecase

import "context"

// distribute splits n slots evenly over k categories. The remainder
// goes one slot at a time to the earliest categories.
func distribute(n, k int) []int {
	if k <= 0 {
		return nil
	}
	quotas := make([]int, k)
	base, rem := n/k, n%k
	for i := range quotas {
		quotas[i] = base
		if i < rem {
			quotas[i]++
		}
	}
	return quotas
}

// assemble fills the slate category by category. Each category first
// gets its planned quota; a category that cannot fill its share hands
// the shortfall to the next one, and any slots still open after the
// last category cycle back to the front until the pools are exhausted.
// Within a category the catalog's ranking order is kept untouched, and
// an item offered by several categories is used at most once.
func (uc *implUseCase) assemble(ctx context.Context, categories []string, n int, exclusions map[string]bool, prefetched map[string][]string) []string {
	items := make([]string, 0, n)
	if len(categories) == 0 {
		return items
	}

	eligible := make([][]string, len(categories))
	fetched := make([]bool, len(categories))
	pool := func(i int) []string {
		if !fetched[i] {
			fetched[i] = true
			if pre, ok := prefetched[categories[i]]; ok {
				eligible[i] = pre
			} else {
				got, err := uc.fetchEligible(ctx, categories[i], exclusions)
				if err != nil {
					uc.l.Warnf(ctx, "Resolve: category %q pool unavailable, reallocating its share: %v", categories[i], err)
					got = nil
				}
				eligible[i] = got
			}
		}
		return eligible[i]
	}

	picks := make([][]string, len(categories))
	picked := make(map[string]bool, n)
	cursor := make([]int, len(categories))
	take := func(i, want int) int {
		if want <= 0 {
			return 0
		}
		taken := 0
		for p := pool(i); taken < want && cursor[i] < len(p); {
			id := p[cursor[i]]
			cursor[i]++
			if picked[id] {
				continue
			}
			picked[id] = true
			picks[i] = append(picks[i], id)
			taken++
		}
		return taken
	}

	// Planned pass: quotas plus whatever earlier categories left open.
	carry := 0
	for i, quota := range distribute(n, len(categories)) {
		want := quota + carry
		carry = want - take(i, want)
	}

	// Cycle the remaining slots back over all categories.
	for remaining := carry; remaining > 0; {
		progress := 0
		for i := range categories {
			if remaining == 0 {
				break
			}
			got := take(i, remaining)
			remaining -= got
			progress += got
		}
		if progress == 0 {
			break
		}
	}

	for _, p := range picks {
		items = append(items, p...)
	}
	return items
}
