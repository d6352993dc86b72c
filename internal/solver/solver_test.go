package solver

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		walk    Distance
		eggs    []Distance
		want    Result
		wantErr error
	}{
		{
			name: "SingleEggEndsInInfinite",
			walk: TenKM,
			eggs: []Distance{5},
			want: Result{
				InfiniteDistances:   []Distance{5},
				IncubatorDistances:  [][]Distance{},
				InfeasibleDistances: []Distance{},
			},
		},
		{
			name: "TwoEqualEggsFirstIncubatorMerged",
			walk: TenKM,
			eggs: []Distance{5, 5},
			want: Result{
				InfiniteDistances:   []Distance{5},
				IncubatorDistances:  [][]Distance{{5}},
				InfeasibleDistances: []Distance{},
			},
		},
		{
			name:    "OnlyEggExceedsWalk",
			walk:    TwoKM,
			eggs:    []Distance{5},
			wantErr: ErrNoFeasibleEggs,
		},
		{
			name:    "NoEggs",
			walk:    TenKM,
			eggs:    nil,
			wantErr: ErrNoFeasibleEggs,
		},
		{
			name: "LongEggThenShortEggs",
			walk: TenKM,
			eggs: []Distance{10, 2, 2, 2, 2, 2},
			want: Result{
				InfiniteDistances:   []Distance{2, 2, 2},
				IncubatorDistances:  [][]Distance{{10}, {2, 2}},
				InfeasibleDistances: []Distance{},
			},
		},
		{
			name: "InfeasibleEggsReportedInOrder",
			walk: FiveKM,
			eggs: []Distance{10, 5, 2, 10},
			want: Result{
				InfiniteDistances:   []Distance{5},
				IncubatorDistances:  [][]Distance{{2}},
				InfeasibleDistances: []Distance{10, 10},
			},
		},
		{
			name: "PerfectFillBeatsLightest",
			walk: TenKM,
			eggs: []Distance{10, 9, 3, 1},
			want: Result{
				InfiniteDistances:   []Distance{9, 1},
				IncubatorDistances:  [][]Distance{{10}, {3}},
				InfeasibleDistances: []Distance{},
			},
		},
		{
			name: "LightestCandidateWhenNoPerfectFill",
			walk: TenKM,
			eggs: []Distance{10, 7, 5, 1},
			want: Result{
				InfiniteDistances:   []Distance{5, 1},
				IncubatorDistances:  [][]Distance{{10}, {7}},
				InfeasibleDistances: []Distance{},
			},
		},
		{
			name: "FullIncubatorIsSkipped",
			walk: TenKM,
			eggs: []Distance{10, 2, 2, 2, 2},
			want: Result{
				InfiniteDistances:   []Distance{2, 2, 2},
				IncubatorDistances:  [][]Distance{{10}, {2}},
				InfeasibleDistances: []Distance{},
			},
		},
		{
			name: "SmallEggsPackedUpToLongest",
			walk: TenKM,
			eggs: []Distance{5, 2, 2, 5},
			want: Result{
				InfiniteDistances:   []Distance{2, 2},
				IncubatorDistances:  [][]Distance{{5}, {5}},
				InfeasibleDistances: []Distance{},
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := New(WithLogger(zaptest.NewLogger(t))).Solve(tc.walk, EggsFrom(tc.eggs))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSolveLeavesInfeasibleEggsUnhatched(t *testing.T) {
	t.Parallel()

	eggs := EggsFrom([]Distance{TenKM, TwoKM, TenKM})
	_, err := New().Solve(FiveKM, eggs)
	require.NoError(t, err)

	assert.False(t, eggs[0].Hatched())
	assert.True(t, eggs[1].Hatched())
	assert.False(t, eggs[2].Hatched())
}

func TestSolveProperties(t *testing.T) {
	t.Parallel()

	classes := []Distance{TwoKM, FiveKM, TenKM}
	rng := rand.New(rand.NewPCG(42, 7))
	solver := New()

	for run := 0; run < 500; run++ {
		walk := classes[rng.IntN(len(classes))]
		input := make([]Distance, 1+rng.IntN(12))
		for i := range input {
			input[i] = classes[rng.IntN(len(classes))]
		}

		got, err := solver.Solve(walk, EggsFrom(input))
		if !slices.ContainsFunc(input, func(d Distance) bool { return d <= walk }) {
			require.ErrorIs(t, err, ErrNoFeasibleEggs, "walk=%d eggs=%v", walk, input)
			continue
		}
		require.NoError(t, err, "walk=%d eggs=%v", walk, input)

		var placed []Distance
		placed = append(placed, got.InfiniteDistances...)
		for _, group := range got.IncubatorDistances {
			assert.LessOrEqual(t, len(group), maxIncubatorUses, "walk=%d eggs=%v", walk, input)
			placed = append(placed, group...)
		}
		for _, d := range placed {
			assert.LessOrEqual(t, d, walk, "placed egg above walk: walk=%d eggs=%v", walk, input)
		}
		for _, d := range got.InfeasibleDistances {
			assert.Greater(t, d, walk, "feasible egg left over: walk=%d eggs=%v", walk, input)
		}

		all := append(slices.Clone(placed), got.InfeasibleDistances...)
		assert.ElementsMatch(t, input, all, "conservation: walk=%d", walk)
		assert.Equal(t, len(input), got.TotalEggs())

		again, err := solver.Solve(walk, EggsFrom(input))
		require.NoError(t, err)
		assert.Equal(t, got, again, "determinism: walk=%d eggs=%v", walk, input)
	}
}

func TestSolveSkipsEggsHatchedBeforehand(t *testing.T) {
	t.Parallel()

	eggs := EggsFrom([]Distance{FiveKM, FiveKM})
	require.NoError(t, eggs[0].hatch())

	got, err := New().Solve(TenKM, eggs)
	require.NoError(t, err)
	assert.Equal(t, []Distance{FiveKM}, got.InfiniteDistances)
	assert.Empty(t, got.IncubatorDistances)
	assert.Empty(t, got.InfeasibleDistances)
}

func TestSalvageRespectsWalk(t *testing.T) {
	t.Parallel()

	infinite := NewInfiniteIncubator()
	require.NoError(t, infinite.Use(NewEgg(8)))

	small := NewIncubator()
	require.NoError(t, small.Use(NewEgg(2)))
	big := NewIncubator()
	require.NoError(t, big.Use(NewEgg(2)))
	require.NoError(t, big.Use(NewEgg(2)))

	s := New().(*greedySolver)
	left := s.salvage(TenKM, infinite, []Incubator{big, small})

	require.Len(t, left, 1)
	assert.Same(t, big, left[0])
	assert.Equal(t, 10, infinite.TotalDistance())
}

func TestSalvageWithNoCandidate(t *testing.T) {
	t.Parallel()

	infinite := NewInfiniteIncubator()
	require.NoError(t, infinite.Use(NewEgg(9)))
	inc := NewIncubator()
	require.NoError(t, inc.Use(NewEgg(5)))

	s := New().(*greedySolver)
	left := s.salvage(TenKM, infinite, []Incubator{inc})

	assert.Len(t, left, 1)
	assert.Equal(t, 9, infinite.TotalDistance())
}

func TestMustUsePanicsOnFullIncubator(t *testing.T) {
	t.Parallel()

	inc := NewIncubator()
	for i := 0; i < maxIncubatorUses; i++ {
		mustUse(inc, NewEgg(TwoKM))
	}
	assert.Panics(t, func() { mustUse(inc, NewEgg(TwoKM)) })
}

func TestResultCloneIsIndependent(t *testing.T) {
	t.Parallel()

	original := Result{
		InfiniteDistances:   []Distance{5},
		IncubatorDistances:  [][]Distance{{2, 2}},
		InfeasibleDistances: []Distance{10},
	}
	clone := original.Clone()
	clone.InfiniteDistances[0] = 2
	clone.IncubatorDistances[0][0] = 10

	assert.Equal(t, []Distance{5}, original.InfiniteDistances)
	assert.Equal(t, [][]Distance{{2, 2}}, original.IncubatorDistances)
}

func BenchmarkSolve(b *testing.B) {
	solver := New()
	input := []Distance{10, 5, 2, 2, 5, 10, 2, 5, 2}
	for i := 0; i < b.N; i++ {
		if _, err := solver.Solve(TenKM, EggsFrom(input)); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
