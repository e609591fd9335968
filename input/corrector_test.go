package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strokelab/ink/geom"
)

func downSample(id StreamID, x, y float32, t float64) RawSample {
	return RawSample{
		Device:        DeviceTouch,
		ID:            id,
		Flags:         FlagDown | FlagInContact,
		ScreenPos:     geom.Pt(x, y),
		LastScreenPos: geom.Pt(x, y),
		WorldPos:      geom.Pt(x, y),
		LastWorldPos:  geom.Pt(x, y),
		Time:          t,
		LastTime:      t,
		Pressure:      1,
	}
}

func moveSample(prev RawSample, x, y float32, t float64) RawSample {
	s := prev
	s.Flags = prev.Flags.Clear(FlagDown)
	s.LastScreenPos = prev.ScreenPos
	s.LastWorldPos = prev.WorldPos
	s.LastTime = prev.Time
	s.ScreenPos = geom.Pt(x, y)
	s.WorldPos = geom.Pt(x, y)
	s.Time = t
	return s
}

func upSample(prev RawSample, x, y float32, t float64) RawSample {
	s := moveSample(prev, x, y, t)
	s.Flags = s.Flags.Clear(FlagInContact).Set(FlagUp)
	return s
}

func TestCorrectFirstPacketMustBeDown(t *testing.T) {
	s := downSample(1, 0, 0, 0)
	s.Flags = s.Flags.Clear(FlagDown)

	assert.Equal(t, CorrectionDrop, Correct(nil, &s))
}

func TestCorrectDownOpensStream(t *testing.T) {
	s := downSample(1, 0, 0, 0)
	assert.Equal(t, CorrectionKeep, Correct(nil, &s))
}

func TestCorrectDuplicateDropped(t *testing.T) {
	prev := downSample(1, 5, 5, 1)
	dup := prev

	assert.Equal(t, CorrectionDrop, Correct(&prev, &dup))
}

func TestCorrectDoubleDownBecomesCancel(t *testing.T) {
	prev := downSample(1, 0, 0, 0)
	again := downSample(1, 2, 2, 0.5)

	res := Correct(&prev, &again)
	require.Equal(t, CorrectionCancel, res)
	assert.True(t, again.Flags.Has(FlagCancel))
	assert.True(t, again.Flags.Has(FlagUp))
	assert.False(t, again.Flags.Has(FlagDown))
}

func TestCorrectClampsBackwardTime(t *testing.T) {
	prev := downSample(1, 0, 0, 2)
	move := moveSample(prev, 1, 1, 1.5) // time went backwards

	res := Correct(&prev, &move)
	require.Equal(t, CorrectionKeep, res)
	assert.Equal(t, 2.0, move.Time)
}

func TestCorrectReassertsIdentityFlags(t *testing.T) {
	prev := downSample(1, 0, 0, 0)
	prev.Flags = prev.Flags.Set(FlagPrimary)

	move := moveSample(prev, 1, 1, 0.1)
	move.Flags = move.Flags.Clear(FlagPrimary).Set(FlagEraser) // corrupted

	res := Correct(&prev, &move)
	require.Equal(t, CorrectionKeep, res)
	assert.True(t, move.Flags.Has(FlagPrimary))
	assert.False(t, move.Flags.Has(FlagEraser))
}

func TestCorrectIdempotent(t *testing.T) {
	prev := downSample(1, 0, 0, 2)
	prev.Flags = prev.Flags.Set(FlagPrimary)

	move := moveSample(prev, 3, 4, 1) // backwards time, needs repair
	require.Equal(t, CorrectionKeep, Correct(&prev, &move))

	again := move
	require.Equal(t, CorrectionKeep, Correct(&prev, &again))
	assert.Equal(t, move, again, "re-correcting a corrected packet must be a no-op")
}

func TestCorrectIdempotentOnTerminal(t *testing.T) {
	prev := downSample(1, 0, 0, 0)
	up := upSample(prev, 1, 1, 0.2)
	require.Equal(t, CorrectionKeep, Correct(&prev, &up))

	again := up
	require.Equal(t, CorrectionKeep, Correct(&prev, &again))
	assert.Equal(t, up, again)
}

func TestCorrectTerminalClearsContact(t *testing.T) {
	prev := downSample(1, 0, 0, 0)
	up := upSample(prev, 1, 1, 0.2)
	up.Flags = up.Flags.Set(FlagInContact) // platform forgot to clear

	require.Equal(t, CorrectionKeep, Correct(&prev, &up))
	assert.False(t, up.Flags.Has(FlagInContact))
}
