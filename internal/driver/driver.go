// Package driver runs the fixed-step outer integration loop around the
// one-step integrator core.
package driver

import (
	"context"
	"fmt"

	"github.com/san-kum/symgrad/internal/nbody"
)

// StepFunc advances the state by one step of size h.
type StepFunc func(s *nbody.State, d *nbody.Derivatives, h float64, pair [][]bool)

// Integrator names a step scheme and its scheduling parameters. The driver
// takes floor((Tmax-T0)/H) full steps and one final partial step when the
// remainder is nonzero.
type Integrator struct {
	Scheme StepFunc
	H      float64
	T0     float64
	Tmax   float64
}

// Metric observes the state after every step and reduces to one number.
type Metric interface {
	Name() string
	Observe(s *nbody.State)
	Value() float64
	Reset()
}

// Observer is called after every step with the live state; it must not
// mutate it.
type Observer interface {
	OnStep(s *nbody.State, step int)
}

type Runner struct {
	integ     Integrator
	metrics   []Metric
	observers []Observer

	// ValidateState stops the run when positions, velocities or the
	// Jacobian go non-finite.
	ValidateState bool
}

func New(integ Integrator) *Runner {
	return &Runner{integ: integ, ValidateState: true}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Result summarizes one integration run.
type Result struct {
	StepsTaken int
	FinalTime  float64
	Metrics    map[string]float64
	Finite     bool
}

// Run advances s from T0 to Tmax in place. The state's time must equal T0
// on entry; d holds the gradient scratch for the chosen scheme.
func (r *Runner) Run(ctx context.Context, s *nbody.State, d *nbody.Derivatives, pair [][]bool) (*Result, error) {
	if err := r.validate(pair, s.N); err != nil {
		return nil, err
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	span := r.integ.Tmax - r.integ.T0
	steps := int(span / r.integ.H)
	hLast := span - float64(steps)*r.integ.H

	result := &Result{Metrics: make(map[string]float64), Finite: true}
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		r.integ.Scheme(s, d, r.integ.H, pair)
		result.StepsTaken++
		r.observe(s, result)
		if r.ValidateState && !s.IsFinite() {
			result.Finite = false
			r.finish(s, result)
			return result, fmt.Errorf("driver: state went non-finite at t=%.6g (step %d)", s.T[0], i)
		}
	}
	if hLast > 0 {
		r.integ.Scheme(s, d, hLast, pair)
		result.StepsTaken++
		r.observe(s, result)
		if r.ValidateState && !s.IsFinite() {
			result.Finite = false
		}
	}
	r.finish(s, result)
	return result, nil
}

func (r *Runner) observe(s *nbody.State, result *Result) {
	for _, m := range r.metrics {
		m.Observe(s)
	}
	for _, o := range r.observers {
		o.OnStep(s, result.StepsTaken)
	}
}

func (r *Runner) finish(s *nbody.State, result *Result) {
	result.FinalTime = s.T[0]
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (r *Runner) validate(pair [][]bool, n int) error {
	if r.integ.Scheme == nil {
		return fmt.Errorf("driver: nil step scheme")
	}
	if r.integ.H <= 0 {
		return fmt.Errorf("driver: step size must be positive, got %g", r.integ.H)
	}
	if r.integ.Tmax <= r.integ.T0 {
		return fmt.Errorf("driver: tmax %g not after t0 %g", r.integ.Tmax, r.integ.T0)
	}
	if len(pair) != n {
		return fmt.Errorf("driver: pair matrix is %dx?, want %dx%d", len(pair), n, n)
	}
	for i := range pair {
		if len(pair[i]) != n {
			return fmt.Errorf("driver: pair row %d has %d entries, want %d", i, len(pair[i]), n)
		}
		for j := range pair[i] {
			if pair[i][j] != pair[j][i] {
				return fmt.Errorf("driver: pair matrix asymmetric at (%d,%d)", i, j)
			}
		}
	}
	return nil
}

// Schemes maps config names to step functions.
var Schemes = map[string]StepFunc{
	"ah18":     nbody.Step,
	"ah18-jac": nbody.StepJacobian,
	"ah18-nograd": func(s *nbody.State, d *nbody.Derivatives, h float64, pair [][]bool) {
		nbody.StepNoGrad(s, h, pair)
	},
	"ah18-dqdt": nbody.StepDqdt,
}
