package thread

import (
    "sync"
    "context"
)

/* A set of goroutines that share a cancellation context. Wait blocks until
 * every goroutine in the group has returned. The first
 * error returned by a SpawnError function cancels the whole group.
 */
type ThreadGroup struct {
    wait sync.WaitGroup
    quit context.Context
    cancel context.CancelFunc

    errorLock sync.Mutex
    err error
}

type ThreadFuncCancel func(quit context.Context, cancel context.CancelFunc)
type ThreadFuncError func(quit context.Context) error
type ThreadFunc func()

func NewThreadGroup(parent context.Context) *ThreadGroup {
    quit, cancel := context.WithCancel(parent)
    out := &ThreadGroup{
        quit: quit,
        cancel: cancel,
    }

    return out
}

func (group *ThreadGroup) SpawnWithCancel(f ThreadFuncCancel){
    group.wait.Add(1)
    go func(){
        defer group.wait.Done()
        f(group.quit, group.cancel)
    }()
}

func (group *ThreadGroup) SpawnError(f ThreadFuncError){
    group.wait.Add(1)
    go func(){
        defer group.wait.Done()
        err := f(group.quit)
        if err != nil {
            group.errorLock.Lock()
            if group.err == nil {
                group.err = err
            }
            group.errorLock.Unlock()
            group.cancel()
        }
    }()
}

func (group *ThreadGroup) Spawn(f ThreadFunc) {
    group.wait.Add(1)
    go func(){
        defer group.wait.Done()
        f()
    }()
}

func (group *ThreadGroup) Cancel(){
    group.cancel()
}

func (group *ThreadGroup) Context() context.Context {
    return group.quit
}

func (group *ThreadGroup) Done() <-chan struct{} {
    return group.quit.Done()
}

/* the first error returned by a SpawnError function, if any */
func (group *ThreadGroup) Err() error {
    group.errorLock.Lock()
    defer group.errorLock.Unlock()
    return group.err
}

/* wait for all threads to finish and return the first error */
func (group *ThreadGroup) Wait() error {
    group.wait.Wait()
    group.cancel()
    return group.Err()
}
