package trace

import "errors"

// MultiTracer fans events out to several tracers; --trace together with
// --trace-ring uses it.
type MultiTracer struct {
	tracers []Tracer
	level   Level
}

// NewMultiTracer drops Nop members; the level is the highest of the rest.
func NewMultiTracer(tracers ...Tracer) Tracer {
	t := &MultiTracer{}
	for _, tr := range tracers {
		if tr == nil || !tr.Enabled() {
			continue
		}
		t.tracers = append(t.tracers, tr)
		t.level = max(t.level, tr.Level())
	}
	switch len(t.tracers) {
	case 0:
		return Nop
	case 1:
		return t.tracers[0]
	}
	return t
}

// Emit hands every member its own copy; members filter by their level.
func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *MultiTracer) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Level() Level { return t.level }

func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }
