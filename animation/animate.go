package animation

import "github.com/loomui/loom/property"

// Number covers the value types that can be interpolated.
type Number interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Interpolate returns the value a fraction t of the way from `from` to `to`.
func Interpolate[T Number](from, to T, t float64) T {
	return T(float64(from) + (float64(to)-float64(from))*t)
}

// EasingFunc maps linear progress in [0,1] to eased progress in [0,1].
type EasingFunc func(t float64) float64

func Linear(t float64) float64     { return t }
func EaseInQuad(t float64) float64 { return t * t }
func EaseOutQuad(t float64) float64 {
	return t * (2 - t)
}

// Animation describes one run of an interpolation. All times are in
// milliseconds on the Driver's clock.
type Animation struct {
	Duration uint64
	Delay    uint64
	// LoopCount is the number of extra repetitions after the first run, so
	// the animation plays LoopCount+1 times. Negative means forever.
	LoopCount int
	// Easing defaults to Linear when nil.
	Easing EasingFunc
}

// progress returns the eased progress within the current run and whether the
// animation has finished.
func (a Animation) progress(start, now uint64) (float64, bool) {
	if now < start+a.Delay {
		return 0, false
	}
	elapsed := now - start - a.Delay
	if a.Duration == 0 {
		return 1, true
	}
	run := elapsed / a.Duration
	if a.LoopCount >= 0 && run > uint64(a.LoopCount) {
		return 1, true
	}
	t := float64(elapsed%a.Duration) / float64(a.Duration)
	if a.Easing != nil {
		t = a.Easing(t)
	}
	return t, false
}

// SetAnimatedValue transitions p from its current value to target. While the
// animation runs the property carries an interpolating binding that reads
// the driver's tick; when the run (including repetitions) completes, the
// binding removes itself and the property holds the plain target value.
func SetAnimatedValue[T Number](p *property.Property[T], target T, anim Animation, d *Driver) {
	from := p.GetUntracked()
	start := d.now()
	p.SetDynamicBinding(func(T) (T, bool) {
		now := d.Tick()
		t, done := anim.progress(start, now)
		if done {
			return target, false
		}
		d.markActive()
		return Interpolate(from, target, t), true
	}, nil)
}

// SetAnimatedBinding installs fn as p's binding but animates every change of
// its result: when the inputs of fn change, the property glides from its
// previous value to the new result instead of jumping. The binding stays
// installed after each run since fn remains the source of the target value.
func SetAnimatedBinding[T Number](p *property.Property[T], fn func() T, anim Animation, d *Driver) {
	var (
		initialized bool
		animating   bool
		from, to    T
		start       uint64
	)
	p.SetDynamicBinding(func(old T) (T, bool) {
		target := fn()
		if !initialized {
			// the first evaluation adopts the value without animating
			initialized = true
			to = target
			return target, true
		}
		if target != to {
			from = old
			to = target
			start = d.now()
			animating = true
		}
		if !animating {
			return to, true
		}
		now := d.Tick()
		t, done := anim.progress(start, now)
		if done {
			animating = false
			return to, true
		}
		d.markActive()
		return Interpolate(from, to, t), true
	}, nil)
}
