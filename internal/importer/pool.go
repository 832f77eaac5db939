package importer

import (
	"context"
	"runtime"
	"sync"

	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
)

// DefaultConcurrencyThreshold is the batch size from which mutations are
// processed by a worker pool.
const DefaultConcurrencyThreshold = 100

type processFunc func(ctx context.Context, m models.Mutation) models.ClassifiedMutation

// concurrentProcessor handles parallel processing of mutations
type concurrentProcessor struct {
	logger      logging.Logger
	workerCount int
	threshold   int
	onProgress  func(done int)
}

func newConcurrentProcessor(logger logging.Logger, workers, threshold int, onProgress func(int)) *concurrentProcessor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if threshold <= 0 {
		threshold = DefaultConcurrencyThreshold
	}
	return &concurrentProcessor{
		logger:      logging.OrNop(logger),
		workerCount: workers,
		threshold:   threshold,
		onProgress:  onProgress,
	}
}

// process classifies mutations, concurrently when the batch is large enough.
// Results keep the input order. When ctx is cancelled, mutations not yet
// processed carry ctx.Err() and ctx.Err() is returned.
func (cp *concurrentProcessor) process(ctx context.Context, mutations []models.Mutation, fn processFunc) ([]models.ClassifiedMutation, error) {
	if len(mutations) < cp.threshold || cp.workerCount == 1 {
		return cp.processSequential(ctx, mutations, fn)
	}
	return cp.processConcurrent(ctx, mutations, fn)
}

// processSequential handles small batches sequentially
func (cp *concurrentProcessor) processSequential(ctx context.Context, mutations []models.Mutation, fn processFunc) ([]models.ClassifiedMutation, error) {
	results := make([]models.ClassifiedMutation, len(mutations))
	for i, m := range mutations {
		if err := ctx.Err(); err != nil {
			fillCancelled(results[i:], mutations[i:], err)
			return results, err
		}
		results[i] = fn(ctx, m)
		cp.progress(i + 1)
	}
	return results, nil
}

// processConcurrent handles large batches with a worker pool
func (cp *concurrentProcessor) processConcurrent(ctx context.Context, mutations []models.Mutation, fn processFunc) ([]models.ClassifiedMutation, error) {
	jobs := make(chan int, cp.workerCount)
	resultChan := make(chan indexedResult, cp.workerCount)

	var wg sync.WaitGroup
	for i := 0; i < cp.workerCount; i++ {
		wg.Add(1)
		go cp.worker(ctx, &wg, mutations, jobs, resultChan, fn)
	}

	go func() {
		defer close(jobs)
		for i := range mutations {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]models.ClassifiedMutation, len(mutations))
	done := make([]bool, len(mutations))
	count := 0
	for r := range resultChan {
		results[r.index] = r.result
		done[r.index] = true
		count++
		cp.progress(count)
	}

	cp.logger.Debug("Concurrent processing completed",
		logging.Field{Key: "mutations", Value: len(mutations)},
		logging.Field{Key: "workers", Value: cp.workerCount})

	err := ctx.Err()
	if count < len(mutations) {
		if err == nil {
			err = context.Canceled
		}
		for i := range results {
			if !done[i] {
				results[i] = models.ClassifiedMutation{Mutation: mutations[i], Err: err}
			}
		}
	}
	return results, err
}

// indexedResult preserves the original order of mutations
type indexedResult struct {
	index  int
	result models.ClassifiedMutation
}

// worker processes mutations from the jobs channel
func (cp *concurrentProcessor) worker(ctx context.Context, wg *sync.WaitGroup, mutations []models.Mutation, jobs <-chan int, resultChan chan<- indexedResult, fn processFunc) {
	defer wg.Done()

	for {
		select {
		case i, ok := <-jobs:
			if !ok {
				return
			}
			r := fn(ctx, mutations[i])
			select {
			case resultChan <- indexedResult{index: i, result: r}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (cp *concurrentProcessor) progress(done int) {
	if cp.onProgress != nil {
		cp.onProgress(done)
	}
}

func fillCancelled(results []models.ClassifiedMutation, mutations []models.Mutation, err error) {
	for i := range results {
		results[i] = models.ClassifiedMutation{Mutation: mutations[i], Err: err}
	}
}
