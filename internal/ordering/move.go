package ordering

// Move returns a copy of items with the element at from removed and reinserted
// at to. Elements between the two indices shift by one slot toward from.
// Out-of-range indices return an unchanged copy.
func Move[T any](items []T, from, to int) []T {
	result := make([]T, len(items))
	copy(result, items)

	if from == to || from < 0 || to < 0 || from >= len(items) || to >= len(items) {
		return result
	}

	moved := result[from]
	if from < to {
		copy(result[from:to], result[from+1:to+1])
	} else {
		copy(result[to+1:from+1], result[to:from])
	}
	result[to] = moved
	return result
}
