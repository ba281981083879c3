package motor

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/pb33f/harscope/motor/model"
)

// LayoutResult is the layout of one capture of a batch.
type LayoutResult struct {
	Index     int
	Waterfall *Waterfall
	Err       error
}

// BatchOptions configures LayoutAll.
type BatchOptions struct {
	WorkerCount int
	Layout      []LayoutOption
	Logger      *slog.Logger
}

// DefaultBatchOptions uses one worker per CPU.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{WorkerCount: runtime.NumCPU()}
}

// LayoutAll lays out every capture on a pool of workers. Results arrive in
// completion order, tagged with the capture index; a failing capture does not
// stop the others. The channel is closed once every capture is done or ctx is
// cancelled.
func LayoutAll(ctx context.Context, captures []*model.Capture, budget func(*model.Capture) Budget, opts BatchOptions) <-chan LayoutResult {
	workerCount := opts.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	resultChan := make(chan LayoutResult, workerCount)

	go func() {
		defer close(resultChan)

		var wg sync.WaitGroup
		workChan := make(chan int, workerCount*2)

		for i := 0; i < workerCount; i++ {
			wg.Go(func() {
				for idx := range workChan {
					start := time.Now()
					wf, err := LayoutEntries(captures[idx], budget(captures[idx]), opts.Layout...)
					if err != nil {
						logger.Debug("layout failed", "capture", idx, "error", err)
					} else {
						logger.Debug("layout done", "capture", idx, "entries", len(wf.Entries), "elapsed", time.Since(start))
					}

					select {
					case <-ctx.Done():
						return
					case resultChan <- LayoutResult{Index: idx, Waterfall: wf, Err: err}:
					}
				}
			})
		}

	ProducerLoop:
		for idx := range captures {
			select {
			case <-ctx.Done():
				break ProducerLoop
			case workChan <- idx:
			}
		}
		close(workChan)

		wg.Wait()
	}()

	return resultChan
}

// CollectLayouts drains LayoutAll into a slice ordered by capture index.
func CollectLayouts(results <-chan LayoutResult, count int) ([]*Waterfall, []error) {
	waterfalls := make([]*Waterfall, count)
	errs := make([]error, count)
	for r := range results {
		waterfalls[r.Index] = r.Waterfall
		errs[r.Index] = r.Err
	}
	return waterfalls, errs
}
