// Package job provides a bounded worker pool for short units of work.
//
// Start queues a function on a free job slot and returns a Handle. When every
// slot is busy (or the pool has no workers) the function runs synchronously
// on the caller and Start returns the zero Handle, so callers always make
// progress without unbounded queue growth:
//
//	s, err := job.New(job.Config{Workers: 4})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	h := s.Start(func() { decodeTexture(img) })
//	// ... other work
//	s.Wait(h)
//
// Wait runs pending jobs on the waiting goroutine while its own job is not
// done (work stealing), then recycles the slot. Each handle must be waited on
// exactly once.
//
// There is no per-job error channel: job functions report results through
// their own captured state.
package job
