package handshake

// alertQueue tracks inbound alerts observed during the handshake. Alert
// policy itself (which alert descriptions are fatal, what to send back) is
// an external collaborator concern; this driver only dispatches fragments
// to it and records the last alert and whether a fatal one was seen. The
// read driver does not consult fatalSeen: handshake state is unchanged by
// any alert and reading continues.
type alertQueue struct {
	fatalSeen bool
	lastLevel byte
	lastDesc  byte
}

func newAlertQueue() *alertQueue {
	return &alertQueue{}
}

// processFragment consumes a raw two-byte TLS alert record (level,
// description). Malformed fragments are ignored rather than treated as
// fatal: the source's stance is that the alert subsystem, not the
// handshake core, owns alert-validity policy.
func (q *alertQueue) processFragment(payload []byte) {
	if len(payload) != 2 {
		return
	}
	const alertLevelFatal = 2
	q.lastLevel, q.lastDesc = payload[0], payload[1]
	if q.lastLevel == alertLevelFatal {
		q.fatalSeen = true
	}
}
