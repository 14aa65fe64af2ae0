package threadkit

import (
	"time"

	"github.com/robfig/cron/v3"
)

// CronTimer is a Timer generalization not present in the underlying
// duration-only design: it re-arms itself against a cron expression
// instead of a fixed duration, computing the next absolute deadline on
// every firing and re-registering through the same TimerLoop primitives
// Timer itself uses. It does not change Timer's own semantics — it is a
// thin adapter layered on top of it.
type CronTimer struct {
	timer *Timer
	loop  *TimerLoop
	sched cron.Schedule
	fn    func()
}

// NewCronTimer parses expr (standard five-field cron syntax) and
// constructs a CronTimer bound to loop. Returns an error if expr does not
// parse.
func NewCronTimer(loop *TimerLoop, expr string) (*CronTimer, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, err
	}
	return &CronTimer{
		timer: NewTimer(loop),
		loop:  loop,
		sched: sched,
	}, nil
}

// Start begins firing fn at each cron-scheduled time from now on.
func (c *CronTimer) Start(fn func()) {
	c.fn = fn
	c.arm()
}

// Stop cancels the underlying Timer.
func (c *CronTimer) Stop() {
	c.timer.Stop()
}

// Running reports whether the next cron firing is still scheduled.
func (c *CronTimer) Running() bool {
	return c.timer.Running()
}

func (c *CronTimer) arm() {
	next := c.sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		d = 0
	}
	c.timer.Start(d, func() {
		c.arm()
		c.fn()
	})
}
