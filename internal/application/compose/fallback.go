package compose

import (
	"fmt"

	"github.com/weftlabs/weft/internal/application/unit"
)

// Fallback runs primary and, on failure, runs fallback with the same
// input and context. The composite's result is whichever unit ran last;
// if both fail, the fallback's failure is reported.
func Fallback[A, B any](primary, fallback unit.Unit[A, B]) unit.Unit[A, B] {
	name := fmt.Sprintf("fallback(%s,%s)", primary.Name(), fallback.Name())
	return unit.New(name, func(ctx unit.ExecutionContext, in A) (B, error) {
		res := primary.Execute(ctx, in)
		if res.Success {
			return res.Output, nil
		}
		res = fallback.Execute(ctx, in)
		if res.Success {
			return res.Output, nil
		}
		var zero B
		return zero, res.Failure().Forwarded()
	})
}
