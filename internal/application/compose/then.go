package compose

import (
	"fmt"

	"github.com/weftlabs/weft/internal/application/unit"
)

// Then runs a and, on success, feeds its output to b under the same
// execution context. If a fails, b never runs and a's error message is
// forwarded verbatim. Then is associative: regrouping a chain changes
// neither the success output nor any failure message.
func Then[A, B, C any](a unit.Unit[A, B], b unit.Unit[B, C]) unit.Unit[A, C] {
	name := fmt.Sprintf("then(%s,%s)", a.Name(), b.Name())
	return unit.New(name, func(ctx unit.ExecutionContext, in A) (C, error) {
		var zero C
		first := a.Execute(ctx, in)
		if !first.Success {
			return zero, first.Failure().Forwarded()
		}
		second := b.Execute(ctx, first.Output)
		if !second.Success {
			return zero, second.Failure().Forwarded()
		}
		return second.Output, nil
	})
}
