package driver_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/symgrad/internal/driver"
	"github.com/san-kum/symgrad/internal/nbody"
)

func twoBody() (*nbody.State, *nbody.Derivatives, [][]bool) {
	s := nbody.NewState(2, 1.0)
	s.SetBody(0, 1.0, [3]float64{0, 0, 0}, [3]float64{0, 0, 0})
	s.SetBody(1, 1e-3, [3]float64{1, 0, 0}, [3]float64{0, 1, 0})
	pair := [][]bool{{false, false}, {false, false}}
	return s, nbody.NewDerivatives(2), pair
}

type countingMetric struct{ n int }

func (c *countingMetric) Name() string           { return "count" }
func (c *countingMetric) Observe(s *nbody.State) { c.n++ }
func (c *countingMetric) Value() float64         { return float64(c.n) }
func (c *countingMetric) Reset()                 { c.n = 0 }

var _ = Describe("Runner", func() {
	It("takes the whole-step count plus one partial step", func() {
		s, d, pair := twoBody()
		r := driver.New(driver.Integrator{Scheme: nbody.Step, H: 0.25, T0: 0, Tmax: 1.03})
		res, err := r.Run(context.Background(), s, d, pair)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(5)) // 4 full + 1 partial
		Expect(s.T[0]).To(BeNumerically("~", 1.03, 1e-12))
	})

	It("skips the partial step when the span divides evenly", func() {
		s, d, pair := twoBody()
		r := driver.New(driver.Integrator{Scheme: nbody.Step, H: 0.25, T0: 0, Tmax: 1.0})
		res, err := r.Run(context.Background(), s, d, pair)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(4))
	})

	It("keeps compensated time accurate over many steps", func() {
		s, d, pair := twoBody()
		r := driver.New(driver.Integrator{Scheme: nbody.Step, H: 0.001, T0: 0, Tmax: 2.0})
		_, err := r.Run(context.Background(), s, d, pair)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.T[0] - s.Terr[0]).To(BeNumerically("~", 2.0, 1e-13))
	})

	It("observes metrics after every step", func() {
		s, d, pair := twoBody()
		r := driver.New(driver.Integrator{Scheme: nbody.Step, H: 0.1, T0: 0, Tmax: 1.0})
		m := &countingMetric{}
		r.AddMetric(m)
		res, err := r.Run(context.Background(), s, d, pair)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics["count"]).To(Equal(float64(res.StepsTaken)))
	})

	It("stops when the context is canceled", func() {
		s, d, pair := twoBody()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := driver.New(driver.Integrator{Scheme: nbody.Step, H: 0.1, T0: 0, Tmax: 10})
		res, err := r.Run(ctx, s, d, pair)
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.StepsTaken).To(Equal(0))
	})

	It("rejects invalid configurations", func() {
		s, d, pair := twoBody()
		for _, integ := range []driver.Integrator{
			{Scheme: nbody.Step, H: 0, T0: 0, Tmax: 1},
			{Scheme: nbody.Step, H: -0.1, T0: 0, Tmax: 1},
			{Scheme: nbody.Step, H: 0.1, T0: 1, Tmax: 1},
			{Scheme: nil, H: 0.1, T0: 0, Tmax: 1},
		} {
			_, err := driver.New(integ).Run(context.Background(), s, d, pair)
			Expect(err).To(HaveOccurred())
		}
	})

	It("rejects an asymmetric pair matrix", func() {
		s, d, _ := twoBody()
		pair := [][]bool{{false, true}, {false, false}}
		_, err := driver.New(driver.Integrator{Scheme: nbody.Step, H: 0.1, T0: 0, Tmax: 1}).
			Run(context.Background(), s, d, pair)
		Expect(err).To(HaveOccurred())
	})

	It("reports a non-finite state", func() {
		s, d, pair := twoBody()
		// A huge step drives the kick path to overflow quickly.
		pair[0][1] = true
		pair[1][0] = true
		s.SetBody(1, 1e-3, [3]float64{1e-200, 0, 0}, [3]float64{0, 0, 0})
		r := driver.New(driver.Integrator{Scheme: nbody.Step, H: 1e300, T0: 0, Tmax: 1e303})
		res, _ := r.Run(context.Background(), s, d, pair)
		Expect(res.Finite).To(BeFalse())
	})
})
