package solver

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/notargets/gofv/types"
)

// Controller proposes time steps from the stability estimates of the solvers
type Controller struct {
	params  AdaptParameters
	history []float64
	log     logrus.FieldLogger
}

func NewController(p AdaptParameters, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{params: p, log: log}
}

// Bound is the largest stable step over all estimates, +Inf when nothing moves
func (c *Controller) Bound(estimates [][2]float64) (bound float64) {
	bound = math.Inf(1)
	if c.params.Type != AdaptPhysicsConstrained {
		return
	}
	for _, e := range estimates {
		h, lambda := e[0], e[1]
		if lambda > 0 {
			bound = math.Min(bound, c.params.CFL*h/lambda)
		}
	}
	return
}

// Limit restricts a proposed step to the bound
func (c *Controller) Limit(dt, bound float64) (float64, error) {
	if c.params.Type == AdaptPhysicsConstrained {
		dt = math.Min(math.Min(dt, bound), c.params.MaxDt)
	}
	return c.check(dt)
}

// Next proposes the step following one of size dt
func (c *Controller) Next(dt, bound float64) (next float64, err error) {
	if c.params.Type != AdaptPhysicsConstrained {
		return dt, nil
	}
	next = math.Min(bound, c.params.MaxGrowth*dt)
	next = math.Min(next, c.params.MaxDt)
	return c.check(next)
}

func (c *Controller) check(dt float64) (float64, error) {
	if c.params.MinDt == 0 || dt >= c.params.MinDt {
		return dt, nil
	}
	if !c.params.AllowStagnation {
		return dt, types.NewStagnationError("time step %g below minimum %g", dt, c.params.MinDt)
	}
	c.log.Warnf("time step %g below minimum %g, clamping", dt, c.params.MinDt)
	return c.params.MinDt, nil
}

func (c *Controller) Record(dt float64) { c.history = append(c.history, dt) }

// History holds every accepted step size in order
func (c *Controller) History() []float64 { return c.history }
