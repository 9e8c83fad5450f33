package promise

import "sync"

// Promise is a write-once result shared between one producer and any number
// of waiters. Get blocks until Done has been called exactly once.
type Promise[T any] struct {
	once sync.Once
	done chan struct{}
	res  T
	err  error
}

func New[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

func Fulfilled[T any](err error, res T) *Promise[T] {
	p := New[T]()
	p.Done(res, err)
	return p
}

func (p *Promise[T]) Get() (T, error) {
	<-p.done
	return p.res, p.err
}

func (p *Promise[T]) Done(res T, err error) {
	p.once.Do(func() {
		p.res = res
		p.err = err
		close(p.done)
	})
}
