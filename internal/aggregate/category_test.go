package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycoleb/seattledionna/internal/domain"
)

func TestBuildCategories(t *testing.T) {
	permits := []domain.Permit{
		{ID: "A", Type: "Building", EstCost: cost(100)},
		{ID: "B", Type: "Building", EstCost: cost(200)},
		{ID: "C", Type: "Building"}, // no cost, still counted
		{ID: "D", Type: "Trade"},
		{ID: "E", Type: "Trade"},
		{ID: "F", Type: "Trade", EstCost: cost(30)},
		{ID: "G", Type: "Demolition", EstCost: cost(50)},
		{ID: "I", Type: "Demolition", EstCost: cost(10)},
		{ID: "J", Type: "Demolition", EstCost: cost(600)},
		{ID: "H"}, // no type
	}

	v := BuildCategories(permits)

	assert.Equal(t, 1, v.Excluded)
	require.Len(t, v.Categories, 3)

	// Three-way tie at three permits each; name breaks the tie.
	assert.Equal(t, "Building", v.Categories[0].Type)
	assert.Equal(t, 3, v.Categories[0].Count)
	assert.Equal(t, 2, v.Categories[0].CostCount)
	assert.Equal(t, 300.0, v.Categories[0].TotalCost)
	assert.Equal(t, 150.0, v.Categories[0].MeanCost)
	assert.Equal(t, 150.0, v.Categories[0].MedianCost)

	// A skewed cost pulls the mean away from the median.
	assert.Equal(t, "Demolition", v.Categories[1].Type)
	assert.Equal(t, 3, v.Categories[1].Count)
	assert.Equal(t, 3, v.Categories[1].CostCount)
	assert.Equal(t, 660.0, v.Categories[1].TotalCost)
	assert.Equal(t, 220.0, v.Categories[1].MeanCost)
	assert.Equal(t, 50.0, v.Categories[1].MedianCost)

	assert.Equal(t, "Trade", v.Categories[2].Type)
	assert.Equal(t, 3, v.Categories[2].Count)
	assert.Equal(t, 1, v.Categories[2].CostCount)
	assert.Equal(t, 30.0, v.Categories[2].MeanCost)
	assert.Equal(t, 30.0, v.Categories[2].MedianCost)
}

func TestBuildCategoriesNoCosts(t *testing.T) {
	v := BuildCategories([]domain.Permit{{ID: "A", Type: "Building"}})

	require.Len(t, v.Categories, 1)
	assert.Equal(t, 1, v.Categories[0].Count)
	assert.Equal(t, 0, v.Categories[0].CostCount)
	assert.Equal(t, 0.0, v.Categories[0].MeanCost)
	assert.Equal(t, 0.0, v.Categories[0].MedianCost)
}

func TestBuildCategoriesEmpty(t *testing.T) {
	v := BuildCategories(nil)
	assert.Empty(t, v.Categories)
	assert.Equal(t, 0, v.Excluded)
}
