package input

import (
	"fmt"
	"sort"

	"github.com/strokelab/ink"
	"github.com/strokelab/ink/camera"
)

// Priority orders consumers for delivery. Higher priorities see packets
// first and may steal capture from lower ones.
type Priority int

const (
	// PriorityLow is for passive observers (debug overlays, recorders).
	PriorityLow Priority = 10
	// PriorityDefault is for ordinary drawing tools.
	PriorityDefault Priority = 20
	// PriorityHigh is for manipulation tools (selection, pusher) that
	// take precedence over drawing.
	PriorityHigh Priority = 30
	// PriorityCritical is for gestures that must win over everything,
	// e.g. multi-finger pan/zoom.
	PriorityCritical Priority = 40
)

// CaptureResult is a consumer's verdict on one delivered packet.
type CaptureResult int

const (
	// ResultObserve means the consumer looked at the packet but claims
	// no ownership of the stream.
	ResultObserve CaptureResult = iota
	// ResultCapture means the consumer takes exclusive ownership of
	// the stream until its terminal packet.
	ResultCapture
	// ResultRefuse means the consumer wants no further packets until
	// all current contacts have been released.
	ResultRefuse
)

// Consumer receives dispatched packets. Implementations are typically
// tools: a line tool, an eraser, a selection tool.
type Consumer interface {
	// OnInput receives one packet and returns the consumer's verdict.
	// A consumer declared observe-only (AllowsCapture false) must not
	// return ResultCapture.
	OnInput(cam *camera.Camera, s RawSample) CaptureResult

	// Priority is fixed for the life of the registration.
	Priority() Priority

	// AllowsCapture reports whether the consumer may ever capture a
	// stream. Observe-only consumers still see every packet.
	AllowsCapture() bool
}

// Token identifies a registered consumer.
type Token int

type registration struct {
	token    Token
	consumer Consumer
	seq      int
}

// Dispatcher routes raw samples to registered consumers in priority
// order, tracking which consumer has captured which stream.
//
// Dispatcher is not safe for concurrent use; all input handling runs
// single-threaded inside the caller's frame.
type Dispatcher struct {
	regs    []registration
	nextTok Token
	nextSeq int

	// live holds the most recent packet of every stream that is down
	// and not yet terminated.
	live map[StreamID]RawSample
	// captures maps a live stream to the consumer that owns it.
	captures map[StreamID]Token
	// refused consumers are skipped until all contacts release.
	refused map[Token]bool
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		live:     make(map[StreamID]RawSample),
		captures: make(map[StreamID]Token),
		refused:  make(map[Token]bool),
	}
}

// RegisterConsumer adds a consumer and returns its token. Consumers
// with equal priority are delivered in registration order.
func (d *Dispatcher) RegisterConsumer(c Consumer) Token {
	tok := d.nextTok
	d.nextTok++
	d.regs = append(d.regs, registration{token: tok, consumer: c, seq: d.nextSeq})
	d.nextSeq++
	// Stable order: descending priority, then registration sequence.
	sort.SliceStable(d.regs, func(i, j int) bool {
		if d.regs[i].consumer.Priority() != d.regs[j].consumer.Priority() {
			return d.regs[i].consumer.Priority() > d.regs[j].consumer.Priority()
		}
		return d.regs[i].seq < d.regs[j].seq
	})
	return tok
}

// UnregisterConsumer removes a consumer. Any stream it captured is
// released without further delivery.
func (d *Dispatcher) UnregisterConsumer(tok Token) {
	for i, r := range d.regs {
		if r.token == tok {
			d.regs = append(d.regs[:i], d.regs[i+1:]...)
			break
		}
	}
	for id, t := range d.captures {
		if t == tok {
			delete(d.captures, id)
		}
	}
	delete(d.refused, tok)
}

// ContactCount returns the number of streams currently down.
func (d *Dispatcher) ContactCount() int {
	return len(d.live)
}

// Capturer returns the token of the consumer capturing the stream, if
// any.
func (d *Dispatcher) Capturer(id StreamID) (Token, bool) {
	tok, ok := d.captures[id]
	return tok, ok
}

// Dispatch validates, corrects, and delivers one packet. Malformed
// packets are repaired or silently dropped; duplicate packets are
// always dropped.
func (d *Dispatcher) Dispatch(cam *camera.Camera, s RawSample) {
	var prev *RawSample
	if p, ok := d.live[s.ID]; ok {
		prev = &p
		// Carry the derived last* fields forward from the prior packet.
		s.LastScreenPos = p.ScreenPos
		s.LastWorldPos = p.WorldPos
		s.LastTime = p.Time
	} else {
		s.LastScreenPos = s.ScreenPos
		s.LastWorldPos = s.WorldPos
		s.LastTime = s.Time
	}

	switch Correct(prev, &s) {
	case CorrectionDrop:
		ink.Logger().Warn("input: dropping malformed packet",
			"stream", s.ID, "device", s.Device.String(), "flags", s.Flags)
		return
	case CorrectionCancel:
		ink.Logger().Warn("input: downgrading malformed packet to cancel",
			"stream", s.ID, "device", s.Device.String())
	}

	if s.Flags.Has(FlagDown) && len(d.live) == 0 {
		s.Flags = s.Flags.Set(FlagPrimary)
	}

	if !s.Flags.Terminal() {
		d.live[s.ID] = s
	}

	d.deliver(cam, s)

	if s.Flags.Terminal() {
		delete(d.live, s.ID)
		delete(d.captures, s.ID)
		if len(d.live) == 0 {
			// A consumer's refusal lasts for the contact session.
			clear(d.refused)
		}
	}
}

// ForceAllUp synthesizes and dispatches a cancel for every live stream.
// Used when the host loses input authority (window blur, app suspend).
func (d *Dispatcher) ForceAllUp(cam *camera.Camera) {
	ids := make([]StreamID, 0, len(d.live))
	for id := range d.live {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		last := d.live[id]
		d.Dispatch(cam, last.AsCancel())
	}
}

// deliver walks consumers in priority order and interprets their
// verdicts.
func (d *Dispatcher) deliver(cam *camera.Camera, s RawSample) {
	capTok, hasCapturer := d.captures[s.ID]
	var capPriority Priority
	if hasCapturer {
		if r, ok := d.lookup(capTok); ok {
			capPriority = r.consumer.Priority()
		} else {
			// Capturer vanished without unregistering.
			delete(d.captures, s.ID)
			hasCapturer = false
		}
	}

	for _, r := range d.regs {
		if d.refused[r.token] {
			continue
		}
		if hasCapturer && r.token != capTok && r.consumer.Priority() < capPriority {
			// Consumers strictly below the capturer do not even observe.
			continue
		}

		switch r.consumer.OnInput(cam, s) {
		case ResultCapture:
			if !r.consumer.AllowsCapture() {
				panic(fmt.Sprintf("input: observe-only consumer %d returned ResultCapture", r.token))
			}
			if hasCapturer && capTok != r.token {
				// The displaced capturer gets a synthesized cancel and
				// its response is recorded before the handover.
				d.cancelCapturer(cam, capTok, s)
			}
			d.captures[s.ID] = r.token
			ink.Logger().Debug("input: stream captured",
				"stream", s.ID, "consumer", r.token)
			return
		case ResultRefuse:
			d.refused[r.token] = true
			if hasCapturer && capTok == r.token {
				delete(d.captures, s.ID)
				hasCapturer = false
			}
		case ResultObserve:
			// No state change.
		}
	}
}

func (d *Dispatcher) cancelCapturer(cam *camera.Camera, tok Token, s RawSample) {
	r, ok := d.lookup(tok)
	if !ok {
		return
	}
	cancel := s.AsCancel()
	if r.consumer.OnInput(cam, cancel) == ResultRefuse {
		d.refused[tok] = true
	}
	delete(d.captures, s.ID)
	ink.Logger().Debug("input: capture displaced", "stream", s.ID, "consumer", tok)
}

func (d *Dispatcher) lookup(tok Token) (registration, bool) {
	for _, r := range d.regs {
		if r.token == tok {
			return r, true
		}
	}
	return registration{}, false
}
