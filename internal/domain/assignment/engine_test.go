package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petlodge/internal/domain/suites"
)

func TestAssignRejectsEmptyInputs(t *testing.T) {
	_, err := Assign(nil, []Unit{{ID: "s-1", Capacity: 1}}, Options{})
	assert.ErrorIs(t, err, ErrNoPets)

	_, err = Assign([]string{"pet-1"}, nil, Options{})
	assert.ErrorIs(t, err, ErrNoUnits)
}

func TestAssignDistributesOnePetPerSuiteInIDOrder(t *testing.T) {
	units := []Unit{
		{ID: "s-3", Capacity: 1},
		{ID: "s-1", Capacity: 1},
		{ID: "s-2", Capacity: 1},
	}
	res, err := Assign([]string{"pet-a", "pet-b"}, units, Options{})
	require.NoError(t, err)
	assert.Equal(t, map[suites.SuiteID][]string{
		"s-1": {"pet-a"},
		"s-2": {"pet-b"},
	}, res.Assignments)
}

func TestAssignIsDeterministic(t *testing.T) {
	units := []Unit{
		{ID: "s-2", Capacity: 2},
		{ID: "s-1", Capacity: 2},
		{ID: "s-3", Capacity: 2},
	}
	first, err := Assign([]string{"pet-a", "pet-b", "pet-c"}, units, Options{})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Assign([]string{"pet-a", "pet-b", "pet-c"}, units, Options{})
		require.NoError(t, err)
		assert.Equal(t, first.Assignments, again.Assignments)
	}
}

func TestAssignInsufficientCapacityNeverPartial(t *testing.T) {
	units := []Unit{{ID: "s-1", Capacity: 1}, {ID: "s-2", Capacity: 1}}
	res, err := Assign([]string{"pet-a", "pet-b", "pet-c"}, units, Options{})
	assert.ErrorIs(t, err, ErrInsufficientCapacity)
	assert.Nil(t, res.Assignments)
}

func TestPreferSameSuitePicksTightestFit(t *testing.T) {
	units := []Unit{
		{ID: "s-big", Capacity: 6},
		{ID: "s-snug", Capacity: 2},
		{ID: "s-mid", Capacity: 4},
	}
	res, err := Assign([]string{"pet-a", "pet-b"}, units, Options{PreferSameSuite: true})
	require.NoError(t, err)
	assert.Equal(t, map[suites.SuiteID][]string{
		"s-snug": {"pet-a", "pet-b"},
	}, res.Assignments)
}

func TestPreferSameSuiteTieBreaksOnLowestID(t *testing.T) {
	units := []Unit{
		{ID: "s-2", Capacity: 3},
		{ID: "s-1", Capacity: 3},
	}
	res, err := Assign([]string{"pet-a", "pet-b", "pet-c"}, units, Options{PreferSameSuite: true})
	require.NoError(t, err)
	_, ok := res.Assignments["s-1"]
	assert.True(t, ok)
	assert.Len(t, res.Assignments, 1)
}

func TestPreferSameSuiteFallsBackToDistribution(t *testing.T) {
	units := []Unit{
		{ID: "s-1", Capacity: 1},
		{ID: "s-2", Capacity: 1},
	}
	res, err := Assign([]string{"pet-a", "pet-b"}, units, Options{PreferSameSuite: true})
	require.NoError(t, err)
	assert.Len(t, res.Assignments, 2)
}

func TestPreferNearbyClusterByLocationPrefix(t *testing.T) {
	units := []Unit{
		{ID: "s-1", Capacity: 1, LocationCode: "A-101"},
		{ID: "s-2", Capacity: 1, LocationCode: "C-301"},
		{ID: "s-3", Capacity: 1, LocationCode: "A-102"},
	}
	res, err := Assign([]string{"pet-a", "pet-b"}, units, Options{PreferNearby: true})
	require.NoError(t, err)
	// First pick is the lowest id (A-101); the second pick shares the longest
	// location prefix with it.
	assert.Equal(t, map[suites.SuiteID][]string{
		"s-1": {"pet-a"},
		"s-3": {"pet-b"},
	}, res.Assignments)
}

func TestPreferNearbyWithoutCodesStillAssigns(t *testing.T) {
	units := []Unit{
		{ID: "s-1", Capacity: 1},
		{ID: "s-2", Capacity: 1},
	}
	res, err := Assign([]string{"pet-a", "pet-b"}, units, Options{PreferNearby: true})
	require.NoError(t, err)
	assert.Len(t, res.Assignments, 2)
}

func TestAssignDoesNotMutateCandidates(t *testing.T) {
	units := []Unit{
		{ID: "s-2", Capacity: 1, LocationCode: "B-1"},
		{ID: "s-1", Capacity: 1, LocationCode: "A-1"},
	}
	_, err := Assign([]string{"pet-a"}, units, Options{PreferNearby: true})
	require.NoError(t, err)
	assert.Equal(t, suites.SuiteID("s-2"), units[0].ID)
	assert.Equal(t, suites.SuiteID("s-1"), units[1].ID)
}
