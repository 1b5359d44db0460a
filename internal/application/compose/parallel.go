package compose

import (
	"fmt"
	"strings"
	"sync"

	"github.com/weftlabs/weft/internal/application/unit"
)

// Parallel dispatches the same input to every unit concurrently and
// succeeds only if all of them succeed. The aggregated output preserves
// registration order regardless of completion order, and on failure the
// composite reports the first failure by registration order, so repeated
// runs produce identical results under any scheduling.
//
// A failing branch does not cancel its siblings; every branch runs to
// completion. Branches that have not started yet consult the shared
// cancellation signal before executing.
func Parallel[A, B any](units ...unit.Unit[A, B]) unit.Unit[A, []B] {
	names := make([]string, len(units))
	for i, u := range units {
		names[i] = u.Name()
	}
	name := fmt.Sprintf("parallel(%s)", strings.Join(names, ","))

	return unit.New(name, func(ctx unit.ExecutionContext, in A) ([]B, error) {
		results := make([]unit.Result[B], len(units))
		var wg sync.WaitGroup
		for i, u := range units {
			wg.Add(1)
			go func(i int, u unit.Unit[A, B]) {
				defer wg.Done()
				results[i] = u.Execute(ctx, in)
			}(i, u)
		}
		wg.Wait()

		outputs := make([]B, len(units))
		for i, res := range results {
			if !res.Success {
				return nil, res.Failure().Forwarded()
			}
			outputs[i] = res.Output
		}
		return outputs, nil
	})
}
