// Package temporal groups audio-frames, parameter-blocks, and tick-tagged
// arbitrary OBUs by timestamp into complete Temporal Units, ready for the
// Demix Graph Builder and Renderer to consume.
package temporal

import "github.com/go-iamf/iamf/internal/obu"

// Unit is one assembled Temporal Unit: every audio-frame and
// parameter-block record sharing a start timestamp, plus any arbitrary
// OBUs tick-tagged to it.
type Unit struct {
	StartTimestamp uint64

	// AudioFrames indexes every Audio-Frame belonging to this unit by
	// substream id.
	AudioFrames map[uint32]obu.AudioFrame

	// ParameterBlocks indexes every Parameter-Block covering this unit by
	// parameter id.
	ParameterBlocks map[uint32]obu.ParameterBlock

	Arbitrary []obu.Arbitrary

	// TrimAtStart/TrimAtEnd are the maximum trim values carried by any
	// audio-frame in this unit, for either end.
	TrimAtStart uint32
	TrimAtEnd   uint32
}

// RequiredSubstream names one substream a Unit must carry an Audio-Frame
// for before it can be considered complete.
type RequiredSubstream struct {
	AudioElementID uint32
	SubstreamID    uint32
}

// Assembler accumulates Audio-Frame and Parameter-Block records by
// timestamp and reports when a unit's required substreams are all present.
type Assembler struct {
	units []*Unit
	index map[uint64]*Unit

	nextExpectedTimestamp uint64
}

// New returns an empty Assembler. The first unit observed establishes the
// starting timestamp; subsequent units are expected to arrive in
// non-decreasing timestamp order, matching an append-only bitstream.
func New() *Assembler {
	return &Assembler{index: make(map[uint64]*Unit)}
}

func (a *Assembler) unitFor(timestamp uint64) *Unit {
	if u, ok := a.index[timestamp]; ok {
		return u
	}
	u := &Unit{
		StartTimestamp:  timestamp,
		AudioFrames:     make(map[uint32]obu.AudioFrame),
		ParameterBlocks: make(map[uint32]obu.ParameterBlock),
	}
	a.index[timestamp] = u
	a.units = append(a.units, u)
	return u
}

// AddAudioFrame files af under timestamp, recording its substream id and
// any trim fields carried by header.
func (a *Assembler) AddAudioFrame(timestamp uint64, header obu.Header, af obu.AudioFrame) {
	u := a.unitFor(timestamp)
	u.AudioFrames[af.SubstreamID] = af
	if header.TrimmingStatusFlag {
		if header.NumSamplesToTrimAtStart > u.TrimAtStart {
			u.TrimAtStart = header.NumSamplesToTrimAtStart
		}
		if header.NumSamplesToTrimAtEnd > u.TrimAtEnd {
			u.TrimAtEnd = header.NumSamplesToTrimAtEnd
		}
	}
}

// AddParameterBlock files pb under timestamp.
func (a *Assembler) AddParameterBlock(timestamp uint64, pb obu.ParameterBlock) {
	u := a.unitFor(timestamp)
	u.ParameterBlocks[pb.ParameterID] = pb
}

// AddArbitrary attaches a tick-tagged Arbitrary OBU to the unit named by
// its InsertionTick, interpreted as a timestamp.
func (a *Assembler) AddArbitrary(ar obu.Arbitrary) {
	u := a.unitFor(uint64(ar.InsertionTick))
	u.Arbitrary = append(u.Arbitrary, ar)
}

// IsComplete reports whether the unit at timestamp has an audio-frame for
// every substream required and a resolvable parameter-block for every
// required parameter id.
func (a *Assembler) IsComplete(timestamp uint64, requiredSubstreams []uint32, requiredParams []uint32) bool {
	u, ok := a.index[timestamp]
	if !ok {
		return false
	}
	for _, sid := range requiredSubstreams {
		if _, ok := u.AudioFrames[sid]; !ok {
			return false
		}
	}
	for _, pid := range requiredParams {
		if _, ok := u.ParameterBlocks[pid]; !ok {
			return false
		}
	}
	return true
}

// PopCompleted removes and returns the oldest buffered unit if it is
// complete per the given requirements, in bitstream arrival order. It
// returns (nil, false) when the oldest unit isn't complete yet — the
// caller should wait for more data rather than skip ahead, since units
// must be emitted in order.
func (a *Assembler) PopCompleted(requiredSubstreams []uint32, requiredParams []uint32) (*Unit, bool) {
	if len(a.units) == 0 {
		return nil, false
	}
	u := a.units[0]
	if !a.IsComplete(u.StartTimestamp, requiredSubstreams, requiredParams) {
		return nil, false
	}
	a.units = a.units[1:]
	delete(a.index, u.StartTimestamp)
	return u, true
}

// Pending reports how many units are currently buffered awaiting
// completion, for diagnostics and backpressure decisions.
func (a *Assembler) Pending() int {
	return len(a.units)
}

// PeekOldest returns the oldest buffered unit without removing it, letting
// a caller check completeness (e.g. for an availability query) without the
// destructive side effect PopCompleted has.
func (a *Assembler) PeekOldest() (*Unit, bool) {
	if len(a.units) == 0 {
		return nil, false
	}
	return a.units[0], true
}
