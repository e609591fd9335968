package input

// CorrectionResult is the outcome of the packet-correction pass.
type CorrectionResult int

const (
	// CorrectionKeep means the packet is valid, possibly after minor
	// in-place repairs, and should be forwarded.
	CorrectionKeep CorrectionResult = iota
	// CorrectionCancel means the packet was unrecoverable and has been
	// rewritten as the stream's terminal cancel.
	CorrectionCancel
	// CorrectionDrop means the packet must not be forwarded at all.
	CorrectionDrop
)

// Correct validates a packet against the stream's prior packet and
// repairs what it can. The policy has three tiers: fix minor
// inconsistencies in place, downgrade unrecoverable packets to a
// cancel, and drop packets that cannot even be cancelled meaningfully.
//
// prev is nil when no packet for this stream is live. Correct is
// idempotent: feeding an already-corrected packet through again with
// the same prev yields the packet unchanged.
func Correct(prev *RawSample, s *RawSample) CorrectionResult {
	if prev == nil {
		// Only a down may open a stream. A move or up for a stream we
		// have never seen has nothing to cancel; drop it.
		if !s.Flags.Has(FlagDown) {
			return CorrectionDrop
		}
		if s.Flags.Has(FlagUp) && !s.Flags.Has(FlagCancel) {
			// Down and up in one packet is contradictory.
			*s = s.AsCancel()
			return CorrectionCancel
		}
		return CorrectionKeep
	}

	// Exact duplicate of the previous packet: intentional backpressure
	// against noisy hardware.
	if s.ScreenPos == prev.ScreenPos && s.Time == prev.Time && s.Flags == prev.Flags {
		return CorrectionDrop
	}

	// A second down on a live stream means the platform lost the up.
	// The stream state is no longer trustworthy; end it.
	if s.Flags.Has(FlagDown) {
		*s = s.AsCancel()
		return CorrectionCancel
	}

	// Fix tier: clamp time to keep the stream monotonic.
	if s.Time < prev.Time {
		s.Time = prev.Time
	}

	// Fix tier: identity flags may not mutate mid-stream.
	s.Flags = s.Flags.Clear(identityFlags) | prev.Flags&identityFlags
	if s.Flags.Terminal() {
		s.Flags = s.Flags.Clear(FlagInContact)
	}

	return CorrectionKeep
}
