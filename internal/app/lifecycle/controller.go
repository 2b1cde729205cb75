package lifecycle

import "sync"

// Controller collects liveness pings and a one-shot shutdown request from the UI.
type Controller struct {
	*Heartbeat
	once sync.Once
	done chan struct{}
}

func NewController(hb *Heartbeat) *Controller {
	return &Controller{Heartbeat: hb, done: make(chan struct{})}
}

// Shutdown requests process shutdown. Repeated calls are ignored.
func (c *Controller) Shutdown() {
	c.once.Do(func() { close(c.done) })
}

// Done is closed once Shutdown has been called.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}
