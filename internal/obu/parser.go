package obu

import (
	"errors"

	"github.com/go-iamf/iamf/internal/bitbuffer"
)

// ParameterResolver answers "what kind of parameter is this, and at what
// rate, and which channels does a Recon-Gain subblock cover" for a given
// parameter_id. The obu package has no visibility into Audio-Element or
// Mix-Presentation cross-references, so internal/descriptor supplies this
// at construction time.
type ParameterResolver func(parameterID uint32) (defType ParamDefinitionType, paramRate uint32, activeLayerChannels []int, err error)

// ErrUnknownParameter is wrapped by a ParameterResolver when parameterID
// doesn't match any Demixing-Info or Recon-Gain definition reachable from
// the descriptors seen so far.
var ErrUnknownParameter = errors.New("obu: parameter_id not declared by any descriptor")

// OBU is a decoded Object Bitstream Unit: the common header plus exactly
// one populated type-specific payload, selected by Kind.
type OBU struct {
	Header Header
	Kind   Type

	SequenceHeader  *SequenceHeader
	CodecConfig     *CodecConfig
	AudioElement    *AudioElement
	MixPresentation *MixPresentation
	ParameterBlock  *ParameterBlock
	AudioFrame      *AudioFrame
	Arbitrary       *Arbitrary
}

// Parser decodes a sequence of OBUs off an append-only bitbuffer.Buffer,
// pausing with bitbuffer.ErrInsufficientData (cursor untouched) whenever an
// OBU isn't fully buffered yet.
type Parser struct {
	rb           *bitbuffer.Buffer
	resolveParam ParameterResolver

	hook InsertionHook
	tick uint32
}

// NewParser constructs a Parser reading from rb. resolveParam may be nil
// until the descriptor set is sealed; attempting to parse a Parameter-Block
// OBU before then returns ErrUnknownParameter.
func NewParser(rb *bitbuffer.Buffer, resolveParam ParameterResolver) *Parser {
	return &Parser{rb: rb, resolveParam: resolveParam}
}

// SetResolver installs or replaces the ParameterResolver, used once
// descriptor processing seals the set of known parameter definitions.
func (p *Parser) SetResolver(resolveParam ParameterResolver) {
	p.resolveParam = resolveParam
}

// SetInsertionContext tells the parser where the next Arbitrary OBU it
// decodes should be considered to round-trip to. Callers switch this as
// they move between descriptor processing and temporal-unit processing.
func (p *Parser) SetInsertionContext(hook InsertionHook, tick uint32) {
	p.hook = hook
	p.tick = tick
}

// Next decodes the next OBU. It returns bitbuffer.ErrInsufficientData,
// leaving the buffer's cursor untouched, if the next OBU (header and
// payload together) isn't fully buffered yet — the caller should stop
// pulling from upstream, wait for more bytes, and retry the identical
// call.
func (p *Parser) Next() (OBU, error) {
	startBit := p.rb.Tell()

	h, err := readHeader(p.rb)
	if err != nil {
		p.rb.Seek(startBit)
		return OBU{}, err
	}

	if !p.rb.HasBytes(int(h.PayloadSize)) {
		p.rb.Seek(startBit)
		return OBU{}, bitbuffer.ErrInsufficientData
	}

	out := OBU{Header: h, Kind: h.Type}

	switch {
	case h.Type == TypeSequenceHeader:
		v, err := readSequenceHeader(p.rb, h.PayloadSize)
		if err != nil {
			p.rb.Seek(startBit)
			return OBU{}, err
		}
		out.SequenceHeader = &v

	case h.Type == TypeCodecConfig:
		v, err := readCodecConfig(p.rb, h.PayloadSize)
		if err != nil {
			p.rb.Seek(startBit)
			return OBU{}, err
		}
		out.CodecConfig = &v

	case h.Type == TypeAudioElement:
		v, err := readAudioElement(p.rb)
		if err != nil {
			p.rb.Seek(startBit)
			return OBU{}, err
		}
		out.AudioElement = &v

	case h.Type == TypeMixPresent:
		v, err := readMixPresentation(p.rb)
		if err != nil {
			p.rb.Seek(startBit)
			return OBU{}, err
		}
		out.MixPresentation = &v

	case h.Type == TypeParameterBlk:
		if p.resolveParam == nil {
			p.rb.Seek(startBit)
			return OBU{}, ErrUnknownParameter
		}
		v, err := p.readParameterBlockWithLookahead(h.PayloadSize)
		if err != nil {
			p.rb.Seek(startBit)
			return OBU{}, err
		}
		out.ParameterBlock = &v

	case h.Type == TypeAudioFrame:
		v, err := readAudioFrame(p.rb, h.PayloadSize, nil)
		if err != nil {
			p.rb.Seek(startBit)
			return OBU{}, err
		}
		out.AudioFrame = &v

	case IsAudioFrameWithImplicitSubstream(h.Type):
		sid := ImplicitSubstreamID(h.Type)
		v, err := readAudioFrame(p.rb, h.PayloadSize, &sid)
		if err != nil {
			p.rb.Seek(startBit)
			return OBU{}, err
		}
		out.AudioFrame = &v

	case h.Type == TypeTemporalDelim:
		if h.PayloadSize != 0 {
			p.rb.Seek(startBit)
			return OBU{}, malformed("temporal_delimiter must have an empty payload")
		}

	default:
		v, err := readArbitrary(p.rb, h.Type, h.PayloadSize, p.hook, p.tick)
		if err != nil {
			p.rb.Seek(startBit)
			return OBU{}, err
		}
		out.Arbitrary = &v
	}

	return out, nil
}

// readParameterBlockWithLookahead peeks parameter_id, consults the
// resolver for the rest of the context readParameterBlock needs, then
// rewinds and lets readParameterBlock parse the OBU from the top.
func (p *Parser) readParameterBlockWithLookahead(payloadBytes uint32) (ParameterBlock, error) {
	peekBit := p.rb.Tell()
	id, err := p.rb.ReadUnsignedLeb128()
	if err != nil {
		return ParameterBlock{}, err
	}
	p.rb.Seek(peekBit)

	defType, rate, channels, err := p.resolveParam(id)
	if err != nil {
		return ParameterBlock{}, err
	}
	return readParameterBlock(p.rb, defType, rate, channels)
}
