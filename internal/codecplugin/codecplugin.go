// Package codecplugin defines the pluggable inner-codec decoder interface
// every Codec-Config's codec_id binds to, plus the built-in LPCM
// implementation and factory stubs for codecs this module doesn't carry a
// decoder for.
package codecplugin

import (
	"errors"
	"fmt"

	"github.com/go-iamf/iamf/internal/obu"
)

// ErrUnimplemented is returned by a Factory that has no decoder bound,
// naming which codec was requested.
var ErrUnimplemented = errors.New("codecplugin: no decoder implementation bound for this codec")

// Decoder turns one inner-codec's compressed Audio-Frame payloads into PCM
// samples, one frame at a time.
type Decoder interface {
	// DecodeFrame decodes one substream's compressed payload for a single
	// temporal unit into interleaved float32 PCM in [-1, 1].
	DecodeFrame(substreamID uint32, compressed []byte) ([]float32, error)

	// OutputSampleRate returns the sample rate this decoder produces
	// output at, which may differ from the Codec-Config's nominal rate
	// for variable-rate codecs.
	OutputSampleRate() uint32

	// OutputFrameSize returns the number of samples per channel this
	// decoder produces per DecodeFrame call under normal operation.
	OutputFrameSize() uint32
}

// Factory constructs a Decoder bound to one Codec-Config.
type Factory func(cfg obu.CodecConfig) (Decoder, error)

// LPCMFactory constructs a decoder for raw, uncompressed Codec-Configs. It
// is the only Factory that never returns ErrUnimplemented.
var LPCMFactory Factory = newLPCMDecoder

// OpusFactory and FLACFactory are declared so Settings.CodecFactories has
// a slot for every codec_id named by the Data Model, but default to
// ErrUnimplemented: no pure-Go Opus or FLAC decoder was available to bind
// in this module's dependency set. Callers may override either before
// constructing a decoder.
var (
	OpusFactory Factory = unimplementedFactory("opus")
	FLACFactory Factory = unimplementedFactory("flac")
)

// AACFactory constructs a decoder for codec_id = "aac" Codec-Configs. It
// defaults to ErrUnimplemented; codec/aac/plugin overrides it from an
// init func as soon as that package is imported, the same lazy-binding
// trick internal/filterbank uses to hand the aac package its filter
// bank without an import cycle.
var AACFactory Factory = unimplementedFactory("aac")

func unimplementedFactory(name string) Factory {
	return func(obu.CodecConfig) (Decoder, error) {
		return nil, fmt.Errorf("%w: %s", ErrUnimplemented, name)
	}
}

// lpcmDecoder unpacks little-endian signed PCM samples directly, per
// original_source/iamf/obu/codec_config.cc's LpcmDecoderConfig: bit depth
// and sample rate come straight from the Codec-Config, with no actual
// decompression step.
type lpcmDecoder struct {
	bitDepth   uint8
	sampleRate uint32
	frameSize  uint32
}

func newLPCMDecoder(cfg obu.CodecConfig) (Decoder, error) {
	if cfg.CodecID != obu.CodecIDLPCM {
		return nil, fmt.Errorf("codecplugin: LPCMFactory given a non-LPCM codec_config (codec_id 0x%08x)", uint32(cfg.CodecID))
	}
	switch cfg.BitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("codecplugin: unsupported LPCM bit depth %d", cfg.BitDepth)
	}
	return &lpcmDecoder{
		bitDepth:   cfg.BitDepth,
		sampleRate: cfg.SampleRate,
		frameSize:  cfg.NumSamplesPerFrame,
	}, nil
}

func (d *lpcmDecoder) OutputSampleRate() uint32 { return d.sampleRate }
func (d *lpcmDecoder) OutputFrameSize() uint32  { return d.frameSize }

func (d *lpcmDecoder) DecodeFrame(_ uint32, compressed []byte) ([]float32, error) {
	bytesPerSample := int(d.bitDepth) / 8
	if bytesPerSample == 0 || len(compressed)%bytesPerSample != 0 {
		return nil, fmt.Errorf("codecplugin: lpcm payload length %d is not a multiple of %d bytes/sample", len(compressed), bytesPerSample)
	}

	n := len(compressed) / bytesPerSample
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		off := i * bytesPerSample
		switch d.bitDepth {
		case 16:
			v := int16(uint16(compressed[off]) | uint16(compressed[off+1])<<8)
			out[i] = float32(v) / float32(1<<15)
		case 24:
			raw := uint32(compressed[off]) | uint32(compressed[off+1])<<8 | uint32(compressed[off+2])<<16
			if raw&0x800000 != 0 {
				raw |= 0xff000000
			}
			out[i] = float32(int32(raw)) / float32(1<<23)
		case 32:
			v := int32(uint32(compressed[off]) | uint32(compressed[off+1])<<8 | uint32(compressed[off+2])<<16 | uint32(compressed[off+3])<<24)
			out[i] = float32(v) / float32(1<<31)
		}
	}
	return out, nil
}
