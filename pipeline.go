package helm

import "sync"

// task calls fn once for every element of data, split into contiguous chunks
// over at most workers goroutines. fn must only touch its own element.
func task[T any](workers int, data []T, fn func(item T)) {
	if len(data) == 0 {
		return
	}
	workers = min(max(1, workers), len(data))
	if workers == 1 {
		for _, item := range data {
			fn(item)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (len(data) + workers - 1) / workers
	for start := 0; start < len(data); start += chunkSize {
		wg.Add(1)
		go func(chunk []T) {
			defer wg.Done()
			for _, item := range chunk {
				fn(item)
			}
		}(data[start:min(start+chunkSize, len(data))])
	}
	wg.Wait()
}
