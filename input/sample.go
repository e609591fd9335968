// Package input defines raw input samples and routes them, packet by
// packet, to the consumer that owns their stream.
//
// A stream is the sequence of samples produced by one contact (one
// finger, one stylus, one mouse button hold) and is identified by a
// stable StreamID. Within a stream a down flag occurs exactly once
// before any up, and every down is eventually terminated by exactly one
// up or cancel. The Dispatcher enforces this protocol, repairing or
// dropping packets that violate it.
package input

import "github.com/strokelab/ink/geom"

// DeviceType identifies the kind of device that produced a sample.
type DeviceType int

const (
	// DeviceInvalid marks a sample without a known source.
	DeviceInvalid DeviceType = iota
	// DeviceMouse is a mouse or trackpad pointer.
	DeviceMouse
	// DeviceTouch is a finger on a touch surface.
	DeviceTouch
	// DevicePen is an active stylus.
	DevicePen
)

// String returns the device name for logging.
func (d DeviceType) String() string {
	switch d {
	case DeviceMouse:
		return "mouse"
	case DeviceTouch:
		return "touch"
	case DevicePen:
		return "pen"
	default:
		return "invalid"
	}
}

// Touch reports whether the device is a direct-touch device. Prediction
// is decayed harder for touch input because finger trajectories are less
// ballistic than stylus ones.
func (d DeviceType) Touch() bool {
	return d == DeviceTouch
}

// Flag is a bit set describing the state transitions and buttons of a
// sample.
type Flag uint16

const (
	// FlagDown marks the first sample of a stream (contact began).
	FlagDown Flag = 1 << iota
	// FlagUp marks the terminal sample of a stream (contact ended).
	FlagUp
	// FlagCancel marks a terminal sample whose stream was force-ended.
	// Always accompanied by FlagUp.
	FlagCancel
	// FlagPrimary marks the first concurrently-down stream.
	FlagPrimary
	// FlagInContact is set while the device is touching the surface.
	FlagInContact
	// FlagEraser is set for the eraser end of a stylus.
	FlagEraser
	// FlagLeft is the left/primary button.
	FlagLeft
	// FlagRight is the right/secondary button.
	FlagRight
	// FlagShift is set while a shift key is held.
	FlagShift
	// FlagControl is set while a control key is held.
	FlagControl
)

// identityFlags are stable for the life of a stream; the corrector
// re-asserts them if a mid-stream packet mutates them.
const identityFlags = FlagPrimary | FlagInContact | FlagEraser | FlagLeft | FlagRight

// Has reports whether all bits of g are set in f.
func (f Flag) Has(g Flag) bool {
	return f&g == g
}

// Set returns f with the bits of g set.
func (f Flag) Set(g Flag) Flag {
	return f | g
}

// Clear returns f with the bits of g cleared.
func (f Flag) Clear(g Flag) Flag {
	return f &^ g
}

// Terminal reports whether the sample ends its stream.
func (f Flag) Terminal() bool {
	return f.Has(FlagUp) || f.Has(FlagCancel)
}

// StreamID identifies one input stream. IDs are assigned by the
// platform boundary and are stable from down to terminal up.
type StreamID uint32

// PressureUnknown is the pressure value reported by devices that do not
// sense pressure. Any negative pressure means unknown.
const PressureUnknown float32 = -1

// RawSample is one input packet as delivered by the platform boundary.
// Positions are carried in both screen and world space; the previous
// position and time are filled in by the Dispatcher from the stream's
// prior packet.
type RawSample struct {
	Device DeviceType
	ID     StreamID
	Flags  Flag

	ScreenPos     geom.Point
	LastScreenPos geom.Point
	WorldPos      geom.Point
	LastWorldPos  geom.Point

	// Time and LastTime are seconds on a monotonic clock.
	Time     float64
	LastTime float64

	// Pressure is in [0, 1], or negative when the device does not
	// report pressure.
	Pressure float32
	// Tilt is radians from vertical, in [0, pi/2].
	Tilt float32
	// Orientation is radians, in [0, 2*pi).
	Orientation float32
}

// DeltaScreen returns the screen-space displacement since the previous
// sample of the stream.
func (s RawSample) DeltaScreen() geom.Vec {
	return s.ScreenPos.Sub(s.LastScreenPos)
}

// DeltaWorld returns the world-space displacement since the previous
// sample of the stream.
func (s RawSample) DeltaWorld() geom.Vec {
	return s.WorldPos.Sub(s.LastWorldPos)
}

// DeltaTime returns the elapsed seconds since the previous sample of
// the stream.
func (s RawSample) DeltaTime() float64 {
	return s.Time - s.LastTime
}

// HasPressure reports whether the sample carries a known pressure.
func (s RawSample) HasPressure() bool {
	return s.Pressure >= 0
}

// AsCancel returns a copy of s rewritten as the stream's terminal
// cancel packet.
func (s RawSample) AsCancel() RawSample {
	s.Flags = s.Flags.Clear(FlagDown | FlagInContact).Set(FlagUp | FlagCancel)
	return s
}
