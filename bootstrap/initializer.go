package bootstrap

import (
	"reflect"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// initializer runs registered init functions sequentially, timing each
// one, mirroring the teacher's bootstrap/initializer.go. The errgroup- and
// util.FormatDurationSmart-based pieces of the teacher's version aren't
// carried over: neither dependency is otherwise exercised by this module,
// so RegisterGo collapses to running its functions in their own goroutine
// and waiting on a plain error channel instead of golang.org/x/sync/errgroup.
var _initializer = new(initializer)

type initializer struct {
	fns []func() error
	gos []func() error
}

func (i *initializer) Register(fn ...func() error) { i.fns = append(i.fns, fn...) }

func (i *initializer) RegisterGo(fn ...func() error) { i.gos = append(i.gos, fn...) }

func (i *initializer) Init() error {
	defer func() { i.fns = nil }()
	for _, fn := range i.fns {
		if fn == nil {
			continue
		}
		start := time.Now()
		name := funcName(fn)
		if err := fn(); err != nil {
			return err
		}
		zap.S().Debugw("init function executed", "function", name, "elapsed", time.Since(start))
	}
	return nil
}

func (i *initializer) Go() error {
	defer func() { i.gos = nil }()
	errCh := make(chan error, len(i.gos))
	for _, fn := range i.gos {
		if fn == nil {
			errCh <- nil
			continue
		}
		go func(fn func() error) { errCh <- fn() }(fn)
	}
	var first error
	for range i.gos {
		if err := <-errCh; err != nil && first == nil {
			first = err
		}
	}
	return first
}

func funcName(fn func() error) string {
	pc := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if pc == nil {
		return "<unknown>"
	}
	return pc.Name()
}

func Register(fn ...func() error)   { _initializer.Register(fn...) }
func RegisterGo(fn ...func() error) { _initializer.RegisterGo(fn...) }
func Init() error                   { return _initializer.Init() }
func Go() error                     { return _initializer.Go() }
