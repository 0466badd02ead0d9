package tasks

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Group runs background tasks. A panicking task is recovered and reported
// through HandleCrit instead of taking the process down.
type Group struct {
	errGroup   errgroup.Group
	HandleCrit func(err error)
}

func (t *Group) Go(fn func() error) {
	t.errGroup.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				debug.PrintStack()
				err = fmt.Errorf("panic: %v", r)
				if t.HandleCrit != nil {
					t.HandleCrit(err)
				}
			}
		}()
		return fn()
	})
}

// Wait blocks until every task returned and reports the first error.
func (t *Group) Wait() error {
	return t.errGroup.Wait()
}
