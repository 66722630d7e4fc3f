// File: pkg/combine/worker.go
package combine

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// ProcessFilesConcurrently reads files using a worker pool. Results arrive in
// completion order on the returned channel, each tagged with its index in
// files; the channel is closed once every worker has finished. Workers stop
// taking new files once ctx is cancelled.
func ProcessFilesConcurrently(ctx context.Context, fsys FileSystemProvider, files []FileEntry, headerPaths []string, maxWorkers int, mode BinaryMode, logger *zap.Logger) <-chan FileContent {
	jobs := make(chan int, len(files))
	results := make(chan FileContent, len(files))
	var wg sync.WaitGroup

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
		logger.Debug("Adjusted worker count", zap.Int("workers", maxWorkers))
	}
	if maxWorkers > len(files) {
		maxWorkers = len(files)
	}

	logger.Debug("Initializing worker pool", zap.Int("workers", maxWorkers))
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go worker(ctx, w, jobs, results, fsys, files, headerPaths, mode, &wg, logger.With(zap.Int("workerID", w)))
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// worker is a goroutine that processes files from the jobs channel.
func worker(ctx context.Context, id int, jobs <-chan int, results chan<- FileContent, fsys FileSystemProvider, files []FileEntry, headerPaths []string, mode BinaryMode, wg *sync.WaitGroup, logger *zap.Logger) {
	defer wg.Done()
	logger.Debug("Worker started")

	for index := range jobs {
		if ctx.Err() != nil {
			continue
		}
		content := ProcessSingleFile(fsys, files[index], headerPaths[index], mode, logger)
		content.Index = index
		results <- content
	}

	logger.Debug("Worker finished processing", zap.Int("workerID", id))
}
