//go:build property

package watcher

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDebouncerProperties validates batching of rapid changes
func TestDebouncerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9876)
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	// Property: a burst collapses to one sorted event per distinct path
	properties.Property("burst collapses to distinct sorted paths", prop.ForAll(
		func(indexes []int) bool {
			if len(indexes) == 0 {
				return true
			}

			debouncer := &Debouncer{
				delay:   50 * time.Millisecond,
				events:  make(chan ChangeEvent, 100),
				output:  make(chan []ChangeEvent, 10),
				pending: make([]ChangeEvent, 0),
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go debouncer.start(ctx)

			distinct := map[string]bool{}
			for _, i := range indexes {
				path := fmt.Sprintf("file-%d.mdx", i)
				distinct[path] = true
				debouncer.events <- ChangeEvent{Path: path, Type: EventTypeModified}
			}

			select {
			case batch := <-debouncer.output:
				if len(batch) != len(distinct) {
					return false
				}
				return sort.SliceIsSorted(batch, func(a, b int) bool { return batch[a].Path < batch[b].Path })
			case <-time.After(2 * time.Second):
				return false
			}
		},
		gen.SliceOfN(20, gen.IntRange(0, 9)),
	))

	properties.TestingRun(t)
}
