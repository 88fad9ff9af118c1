package coordinator

// tracker records which remote operations are in flight. It is only touched
// with the coordinator lock held.
//
// The attendance slot holds a single employee id. Starting a fetch overwrites
// it, so only the most recently started fetch is visible even when several are
// in flight. Each start takes a fresh token and a completion clears the slot
// only if its token still owns it.
type tracker struct {
	rosterInFlight  int
	attendanceID    string
	attendanceToken uint64
	nextToken       uint64
}

func (t *tracker) beginRoster() int {
	t.rosterInFlight++
	return t.rosterInFlight
}

func (t *tracker) endRoster() int {
	if t.rosterInFlight > 0 {
		t.rosterInFlight--
	}
	return t.rosterInFlight
}

func (t *tracker) rosterLoading() bool { return t.rosterInFlight > 0 }

func (t *tracker) beginAttendance(id string) uint64 {
	t.nextToken++
	t.attendanceID = id
	t.attendanceToken = t.nextToken
	return t.attendanceToken
}

func (t *tracker) endAttendance(token uint64) {
	if t.attendanceToken == token {
		t.attendanceID = ""
		t.attendanceToken = 0
	}
}
