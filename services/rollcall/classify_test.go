package rollcall

import (
	"testing"

	"github.com/mazen160/go-random"
	"github.com/stretchr/testify/require"
)

func testSets() VoterSets {
	return VoterSets{
		Favor:              []int64{1, 2, 3},
		Against:            []int64{4, 5},
		Abstention:         []int64{6},
		IntendedFavor:      []int64{7},
		IntendedAgainst:    []int64{8},
		IntendedAbstention: []int64{9},
		Excused:            []int64{10},
		Participants:       []int64{11},
	}
}

func TestClassifyDirectVotes(t *testing.T) {
	sets := testSets()

	require.Equal(t, OutcomeFavor, Classify(1, sets, false))
	require.Equal(t, OutcomeAgainst, Classify(4, sets, false))
	require.Equal(t, OutcomeAbstention, Classify(6, sets, false))
	require.Equal(t, OutcomeExcused, Classify(10, sets, false))
}

func TestClassifyIntendedVotes(t *testing.T) {
	sets := testSets()

	// a recorded intention counts the same as the cast vote
	require.Equal(t, OutcomeFavor, Classify(7, sets, false))
	require.Equal(t, OutcomeAgainst, Classify(8, sets, false))
	require.Equal(t, OutcomeAbstention, Classify(9, sets, false))
}

func TestClassifyPrecedence(t *testing.T) {
	// data anomaly: the same id in several lists. the earliest-checked
	// category wins.
	sets := VoterSets{
		Favor:      []int64{42},
		Against:    []int64{42},
		Abstention: []int64{42},
		Excused:    []int64{42},
	}
	require.Equal(t, OutcomeFavor, Classify(42, sets, false))

	sets.Favor = nil
	require.Equal(t, OutcomeAgainst, Classify(42, sets, false))

	sets.Against = nil
	require.Equal(t, OutcomeAbstention, Classify(42, sets, false))

	sets.Abstention = nil
	require.Equal(t, OutcomeExcused, Classify(42, sets, true), "excused beats not-a-member")
}

func TestClassifyNoSignal(t *testing.T) {
	sets := testSets()

	require.Equal(t, OutcomeNotMember, Classify(999, sets, true))
	require.Equal(t, OutcomeParticipant, Classify(999, sets, false))
	// an explicit participant entry classifies the same as no signal
	require.Equal(t, OutcomeParticipant, Classify(11, sets, false))
}

func TestClassifyIdempotent(t *testing.T) {
	sets := testSets()

	for range 100 {
		id, err := random.IntRange(1, 20)
		require.NoError(t, err)

		first := Classify(int64(id), sets, false)
		second := Classify(int64(id), sets, false)
		require.Equal(t, first, second)

		// exactly one category, always in range
		require.GreaterOrEqual(t, int(first), int(OutcomeNotMember))
		require.LessOrEqual(t, int(first), int(OutcomeParticipant))
	}
}
