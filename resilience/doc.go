// Package resilience bounds concurrent access to scarce resources.
//
// A Bulkhead caps how many calls run at once and how long a caller may wait
// for a slot. Submit dispatches a blocking function onto a bulkhead from a
// fresh goroutine and hands back a Future, so the submitting goroutine never
// runs the work itself:
//
//	pool := resilience.NewBulkhead(resilience.BulkheadConfig{
//	    Name:          "inference",
//	    MaxConcurrent: 2,
//	    MaxWait:       30 * time.Second,
//	})
//	fut := resilience.Submit(ctx, pool, 0, func(ctx context.Context) (string, error) {
//	    return model.Run(ctx, path)
//	})
//	text, err := fut.Wait()
package resilience
