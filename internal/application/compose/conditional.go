package compose

import (
	"fmt"

	"github.com/weftlabs/weft/internal/application/unit"
)

// Conditional evaluates the side-effect-free predicate over the input
// and fully delegates to the chosen branch with the context unchanged.
func Conditional[A, B any](predicate func(A) bool, ifTrue, ifFalse unit.Unit[A, B]) unit.Unit[A, B] {
	name := fmt.Sprintf("conditional(%s,%s)", ifTrue.Name(), ifFalse.Name())
	return unit.New(name, func(ctx unit.ExecutionContext, in A) (B, error) {
		branch := ifFalse
		if predicate(in) {
			branch = ifTrue
		}
		res := branch.Execute(ctx, in)
		if !res.Success {
			var zero B
			return zero, res.Failure().Forwarded()
		}
		return res.Output, nil
	})
}
