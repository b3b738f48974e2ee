package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycoleb/seattledionna/internal/domain"
)

func TestBuildBrackets(t *testing.T) {
	permits := []domain.Permit{
		{ID: "A", EstCost: cost(0)},
		{ID: "B", EstCost: cost(999.99)},
		{ID: "C", EstCost: cost(1000)}, // boundary opens $1K-$10K
		{ID: "D", EstCost: cost(9999)},
		{ID: "E", EstCost: cost(10000)},
		{ID: "F", EstCost: cost(150000)},
		{ID: "G", EstCost: cost(2500000)},
		{ID: "H", EstCost: cost(15000000)},
		{ID: "I"}, // no cost
	}

	v := BuildBrackets(permits)

	assert.Equal(t, 1, v.Excluded)
	require.Len(t, v.Brackets, 6)

	counts := make([]int, len(v.Brackets))
	for i, b := range v.Brackets {
		counts[i] = b.Count
	}
	assert.Equal(t, []int{2, 2, 1, 1, 1, 1}, counts)

	assert.Equal(t, "$0-$1K", v.Brackets[0].Label)
	assert.Equal(t, 999.99, v.Brackets[0].TotalCost)
	assert.Equal(t, "$1K-$10K", v.Brackets[1].Label)
	assert.Equal(t, 10999.0, v.Brackets[1].TotalCost)
	assert.Equal(t, "$10M+", v.Brackets[5].Label)
	assert.Equal(t, 15000000.0, v.Brackets[5].TotalCost)
}

func TestBuildBracketsAllPresentWhenEmpty(t *testing.T) {
	v := BuildBrackets(nil)

	require.Len(t, v.Brackets, 6)
	for _, b := range v.Brackets {
		assert.Zero(t, b.Count)
		assert.Zero(t, b.TotalCost)
	}
}
