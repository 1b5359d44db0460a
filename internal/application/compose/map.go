package compose

import (
	"fmt"

	"github.com/weftlabs/weft/internal/application/unit"
)

// Map applies a pure, synchronous projection to a successful output.
// The projection does not count as an execution: no new metrics are
// recorded and a failing inner unit passes through untouched.
func Map[A, B, C any](u unit.Unit[A, B], project func(B) C) unit.Unit[A, C] {
	return &mapped[A, B, C]{
		inner:   u,
		project: project,
		name:    fmt.Sprintf("map(%s)", u.Name()),
	}
}

// mapped delegates to the inner unit and rewrites the output in place,
// bypassing the instrumented execution boundary.
type mapped[A, B, C any] struct {
	inner   unit.Unit[A, B]
	project func(B) C
	name    string
}

func (m *mapped[A, B, C]) Name() string { return m.name }

func (m *mapped[A, B, C]) Execute(ctx unit.ExecutionContext, in A) unit.Result[C] {
	res := m.inner.Execute(ctx, in)
	if !res.Success {
		return unit.NewFailureResult[C](res.Failure(), res.Metrics, res.ExecutionTime, res.Metadata)
	}
	return unit.NewSuccess(m.project(res.Output), res.Metrics, res.ExecutionTime, res.Metadata)
}

func (m *mapped[A, B, C]) Metrics() unit.Metrics {
	return m.inner.Metrics()
}

func (m *mapped[A, B, C]) Health() map[string]interface{} {
	return m.inner.Health()
}
