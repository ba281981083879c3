package model

import "github.com/pb33f/harhar"

// Phase names one sub-interval of a request's lifecycle.
type Phase string

const (
	PhaseBlocked Phase = "blocked"
	PhaseDNS     Phase = "dns"
	PhaseConnect Phase = "connect"
	PhaseSend    Phase = "send"
	PhaseWait    Phase = "wait"
	PhaseReceive Phase = "receive"
)

// Phases is the chronological phase order. It is the stacking order of a bar,
// the legend order and the tooltip order, so it must never be derived from a map.
// SSL is not listed: HAR includes it in connect.
var Phases = [...]Phase{
	PhaseBlocked,
	PhaseDNS,
	PhaseConnect,
	PhaseSend,
	PhaseWait,
	PhaseReceive,
}

// Duration picks this phase out of a timings record.
func (p Phase) Duration(t *harhar.Timings) float64 {
	if t == nil {
		return 0
	}
	switch p {
	case PhaseBlocked:
		return t.Blocked
	case PhaseDNS:
		return t.DNS
	case PhaseConnect:
		return t.Connect
	case PhaseSend:
		return t.Send
	case PhaseWait:
		return t.Wait
	case PhaseReceive:
		return t.Receive
	default:
		return 0
	}
}

// SetDuration writes the duration of this phase into a timings record.
func (p Phase) SetDuration(t *harhar.Timings, ms float64) {
	switch p {
	case PhaseBlocked:
		t.Blocked = ms
	case PhaseDNS:
		t.DNS = ms
	case PhaseConnect:
		t.Connect = ms
	case PhaseSend:
		t.Send = ms
	case PhaseWait:
		t.Wait = ms
	case PhaseReceive:
		t.Receive = ms
	}
}

// ParsePhase resolves a phase by name.
func ParsePhase(name string) (Phase, bool) {
	for _, p := range Phases {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}

func (p Phase) String() string {
	return string(p)
}
