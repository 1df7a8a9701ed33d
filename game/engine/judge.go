package engine

// GoalJudge decides when a round is over. It runs once per tick while
// Playing: any agent already marked Reached has arrived since the last
// judgement, because judging a single arrival ends the round.
type GoalJudge struct{}

// Judge returns the round outcome if at least one agent stands on the goal.
// Two arrivals within the same tick make a tie.
func (GoalJudge) Judge(s *SessionState) (Outcome, bool) {
	if s.Mode != ModePlaying {
		return Outcome{}, false
	}
	return s.Outcome()
}
