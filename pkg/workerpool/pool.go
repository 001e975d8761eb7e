// Package workerpool provides a bounded fan-out/join-all primitive.
//
// A Group runs tasks with a concurrency cap and always joins every task
// before Wait returns, collecting each failure instead of short-circuiting.
// That property matters for asset cleanup: when one deletion fails, the
// remaining deletions must still be attempted and their outcomes reported.
//
//	g := workerpool.NewGroup(4)
//	for _, img := range images {
//	    img := img
//	    g.Go(func() error { return disk.Delete(ctx, img.Path) })
//	}
//	errs := g.Wait()
package workerpool

import (
	"fmt"
	"sync"
)

// Group is a join-all task group with bounded concurrency.
type Group struct {
	sem chan struct{}
	wg  sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

// NewGroup creates a Group running at most workers tasks concurrently.
func NewGroup(workers int) *Group {
	if workers <= 0 {
		workers = 1
	}
	return &Group{sem: make(chan struct{}, workers)}
}

// Go schedules fn on the group. Blocks only while the concurrency cap is
// reached. A panicking task is recorded as a failure, never lost.
func (g *Group) Go(fn func() error) {
	g.wg.Add(1)
	g.sem <- struct{}{}
	go func() {
		defer func() {
			<-g.sem
			g.wg.Done()
		}()
		if err := safeRun(fn); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	}()
}

// Wait joins every scheduled task and returns all collected errors.
// A nil result means every task succeeded.
func (g *Group) Wait() []error {
	g.wg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.errs
}

// safeRun executes fn, converting a panic into an error so a bad task
// cannot kill the joining goroutine and still shows up in Wait's result.
func safeRun(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return fn()
}
