package async

// Errable runs fn in a goroutine and exposes its error as a channel,
// so independent computations can be awaited together with WaitAll.
func Errable(fn func() error) <-chan error {
	ch := make(chan error)
	go func() {
		ch <- fn()
		close(ch)
	}()
	return ch
}
