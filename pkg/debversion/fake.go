package debversion

import (
	"context"
	"strconv"
	"strings"
)

// Fake is a deterministic Comparator used by tests elsewhere in this module.
// It treats a version as dot/hyphen-separated numeric components compared
// lexicographically by value, which matches every fixture used across the
// orchestrator's test suites without needing PKGTOOL installed.
type Fake struct{}

// GreaterThan compares numeric dot/hyphen components left to right.
func (Fake) GreaterThan(_ context.Context, a, b string) (bool, error) {
	return compareFake(a, b) > 0, nil
}

func compareFake(a, b string) int {
	as := splitComponents(a)
	bs := splitComponents(b)

	for i := 0; i < len(as) || i < len(bs); i++ {
		var av, bv int

		if i < len(as) {
			av = as[i]
		}

		if i < len(bs) {
			bv = bs[i]
		}

		if av != bv {
			if av > bv {
				return 1
			}

			return -1
		}
	}

	return 0
}

func splitComponents(v string) []int {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == '.' || r == '-' || r == ':'
	})

	nums := make([]int, 0, len(fields))

	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			// Non-numeric component (e.g. a suffix letter); fall back to
			// its first byte so "1.0-1" still orders before "1.0-2".
			if len(f) > 0 {
				n = int(f[0])
			}
		}

		nums = append(nums, n)
	}

	return nums
}
