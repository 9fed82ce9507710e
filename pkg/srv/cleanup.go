package srv

import "context"

// funcService adapts plain start/stop functions to Service.
type funcService struct {
	start func(ctx context.Context) error
	stop  func() error
}

func (f *funcService) Start(ctx context.Context) error {
	if f.start != nil {
		return f.start(ctx)
	}
	return nil
}

func (f *funcService) Shutdown(ctx context.Context) error {
	if f.stop != nil {
		return f.stop()
	}
	return nil
}

// NewCleanup registers fn to run at shutdown, e.g. closing a database.
func NewCleanup(fn func() error) Service {
	return &funcService{stop: fn}
}

// NewFunc wraps a start function and an optional stop function.
func NewFunc(start func(ctx context.Context) error, stop func() error) Service {
	return &funcService{start: start, stop: stop}
}
