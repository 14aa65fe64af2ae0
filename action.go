package threadkit

// Action is an opaque, no-argument effectful closure. It is submitted to a
// pool or scheduled against a loop and is run at most once unless the
// caller explicitly resubmits it.
type Action func()
