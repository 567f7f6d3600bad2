package rollcall

import (
	"slices"

	"epvote-monitor/lib/scrapers/europarl"
)

// Outcome is how one member related to one roll-call vote. The numeric
// values are the persisted wire encoding, keep them stable.
type Outcome int

const (
	OutcomeNotMember   Outcome = 0
	OutcomeFavor       Outcome = 1
	OutcomeAgainst     Outcome = 2
	OutcomeAbstention  Outcome = 3
	OutcomeExcused     Outcome = 4
	OutcomeParticipant Outcome = 5
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotMember:
		return "NOT_A_MEMBER"
	case OutcomeFavor:
		return "FAVOR"
	case OutcomeAgainst:
		return "AGAINST"
	case OutcomeAbstention:
		return "ABSTENTION"
	case OutcomeExcused:
		return "EXCUSED"
	case OutcomeParticipant:
		return "PARTICIPANT"
	}
	return "UNKNOWN"
}

// VoterSets are the per-vote member id lists. The lists are disjoint
// by construction in the source; when a data anomaly puts an id in
// several lists the classifier's precedence order decides.
type VoterSets struct {
	Favor              []int64
	Against            []int64
	Abstention         []int64
	IntendedFavor      []int64
	IntendedAgainst    []int64
	IntendedAbstention []int64
	Excused            []int64
	Participants       []int64
}

// NewVoterSets joins a decision's voter lists with the sitting-level
// attendance lists.
func NewVoterSets(decision europarl.Decision, attendance europarl.Attendance) VoterSets {
	return VoterSets{
		Favor:              decision.VoterFavor,
		Against:            decision.VoterAgainst,
		Abstention:         decision.VoterAbstention,
		IntendedFavor:      decision.VoterIntendedFavor,
		IntendedAgainst:    decision.VoterIntendedAgainst,
		IntendedAbstention: decision.VoterIntendedAbstention,
		Excused:            attendance.Excused,
		Participants:       attendance.Participants,
	}
}

// Classify assigns exactly one outcome to a member for one vote.
// The precedence order is fixed policy: a declared or intended favor
// beats against, beats abstention, beats excused. A member absent from
// every list is either no longer seated (isFormerMember) or counted as
// an uncategorized participant.
func Classify(memberID int64, sets VoterSets, isFormerMember bool) Outcome {
	switch {
	case slices.Contains(sets.Favor, memberID),
		slices.Contains(sets.IntendedFavor, memberID):
		return OutcomeFavor
	case slices.Contains(sets.Against, memberID),
		slices.Contains(sets.IntendedAgainst, memberID):
		return OutcomeAgainst
	case slices.Contains(sets.Abstention, memberID),
		slices.Contains(sets.IntendedAbstention, memberID):
		return OutcomeAbstention
	case slices.Contains(sets.Excused, memberID):
		return OutcomeExcused
	case isFormerMember:
		return OutcomeNotMember
	}
	return OutcomeParticipant
}
