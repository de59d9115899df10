package compositor

import "sync"

// Split rows into one contiguous block per worker. Rows that do not divide
// evenly are assigned to the first worker.
func splitRows(rows, workers int) []int {
	if workers < 1 {
		workers = 1
	}
	if workers > rows {
		workers = rows
	}
	if workers == 0 {
		return nil
	}

	blocks := make([]int, workers)
	assigned := 0
	for i := range blocks {
		blocks[i] = rows / workers
		assigned += blocks[i]
	}
	blocks[0] += rows - assigned
	return blocks
}

// Invoke fn for every row in [0, rows) using up to workers goroutines and
// wait for all of them to finish. Each row is processed exactly once.
func parallelRows(rows, workers int, fn func(y int)) {
	var wg sync.WaitGroup
	y := 0
	for _, blockH := range splitRows(rows, workers) {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for row := start; row < end; row++ {
				fn(row)
			}
		}(y, y+blockH)
		y += blockH
	}
	wg.Wait()
}
