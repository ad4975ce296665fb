package obu

import "github.com/go-iamf/iamf/internal/bitbuffer"

// InsertionHook names where a reserved/arbitrary OBU round-trips relative
// to the descriptor set and temporal units it was found alongside.
type InsertionHook uint8

const (
	InsertionHookBeforeDescriptors  InsertionHook = 0
	InsertionHookAfterDescriptors   InsertionHook = 1
	InsertionHookBeforeTemporalUnit InsertionHook = 2
)

// Arbitrary is a reserved or otherwise-unrecognized OBU, preserved
// verbatim so a caller rebuilding a bitstream (or simply inspecting it)
// doesn't lose data the parser itself has no opinion about.
type Arbitrary struct {
	Type          Type
	Hook          InsertionHook
	InsertionTick uint32 // meaningful only when Hook == InsertionHookBeforeTemporalUnit
	Payload       []byte
}

// readArbitrary captures payloadBytes verbatim. hook and insertionTick are
// supplied by the caller: they are determined by where in the overall
// stream this OBU was encountered, not by anything in the OBU's own bytes.
func readArbitrary(rb *bitbuffer.Buffer, obuType Type, payloadBytes uint32, hook InsertionHook, insertionTick uint32) (Arbitrary, error) {
	data, err := rb.ReadBytes(int(payloadBytes))
	if err != nil {
		return Arbitrary{}, err
	}
	return Arbitrary{
		Type:          obuType,
		Hook:          hook,
		InsertionTick: insertionTick,
		Payload:       data,
	}, nil
}
