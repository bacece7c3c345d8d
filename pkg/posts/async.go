package posts

import "context"

// Result carries exactly one outcome of an asynchronous call.
type Result[T any] struct {
	Value T
	Err   error
}

// Async runs fn on its own goroutine and delivers its outcome on the returned
// channel. The channel is buffered, receives exactly one Result and is then
// closed, so an abandoned receiver never leaks the goroutine.
//
//	ch := posts.Async(ctx, client.ListAll)
//	res := <-ch
func Async[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		v, err := fn(ctx)
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}
