// Package plugin adapts codec/aac's Decoder to the internal/codecplugin.Decoder
// interface and self-registers as codecplugin.AACFactory.
//
// It lives under codec/aac/ rather than at the module root because it
// needs codec/aac/internal/syntax.ParseASC to read a Codec-Config's
// decoder_config_bytes, and Go's internal-package visibility rule only
// lets packages rooted under codec/aac/ import codec/aac/internal/....
package plugin

import (
	"fmt"

	"github.com/go-iamf/iamf/codec/aac"
	"github.com/go-iamf/iamf/codec/aac/internal/syntax"
	"github.com/go-iamf/iamf/internal/codecplugin"
	"github.com/go-iamf/iamf/internal/obu"
)

func init() {
	codecplugin.AACFactory = New
}

// decoder wraps an *aac.Decoder to present codecplugin.Decoder.
type decoder struct {
	dec        *aac.Decoder
	sampleRate uint32
	frameSize  uint32
}

// New builds an AAC inner-codec decoder from a Codec-Config, parsing its
// decoder_config_bytes as an AudioSpecificConfig the way an MP4 esds box
// or an IAMF Codec-Config carries it (raw AAC, no per-frame ADTS header).
func New(cfg obu.CodecConfig) (codecplugin.Decoder, error) {
	if cfg.CodecID != obu.CodecIDAAC {
		return nil, fmt.Errorf("codec/aac/plugin: given a non-AAC codec_config (codec_id 0x%08x)", uint32(cfg.CodecID))
	}
	asc, _, err := syntax.ParseASC(cfg.DecoderConfigBytes)
	if err != nil {
		return nil, fmt.Errorf("codec/aac/plugin: parsing AudioSpecificConfig: %w", err)
	}

	dec := aac.NewDecoder()
	frameLength := uint16(1024)
	if asc.FrameLengthFlag {
		frameLength = 960
	}
	dec.ConfigureStream(aac.ObjectType(asc.ObjectTypeIndex), asc.SamplingFrequencyIndex, asc.ChannelsConfiguration, frameLength)

	sampleRate := asc.SamplingFrequency
	if sampleRate == 0 {
		sampleRate = cfg.SampleRate
	}
	frameSize := cfg.NumSamplesPerFrame
	if frameSize == 0 {
		frameSize = uint32(frameLength)
	}

	return &decoder{dec: dec, sampleRate: sampleRate, frameSize: frameSize}, nil
}

func (d *decoder) OutputSampleRate() uint32 { return d.sampleRate }
func (d *decoder) OutputFrameSize() uint32  { return d.frameSize }

// DecodeFrame decodes one raw_data_block. Only silence frames
// (an ID_END-only raw_data_block) decode all the way through today;
// anything carrying real SCE/CPE/CCE spectral data surfaces
// aac.ErrUnimplementedElement, matching codec/aac's current scope.
func (d *decoder) DecodeFrame(_ uint32, compressed []byte) ([]float32, error) {
	samples, err := d.dec.DecodeFloat32(compressed)
	if err != nil {
		return nil, fmt.Errorf("codec/aac/plugin: %w", err)
	}
	return samples, nil
}
