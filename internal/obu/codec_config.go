package obu

import "github.com/go-iamf/iamf/internal/bitbuffer"

// CodecID is the four-character code naming the inner codec.
type CodecID uint32

var (
	CodecIDLPCM = fourCC('i', 'p', 'c', 'm')
	CodecIDOpus = fourCC('O', 'p', 'u', 's')
	CodecIDAAC  = fourCC('m', 'p', '4', 'a')
	CodecIDFLAC = fourCC('f', 'L', 'a', 'C')
)

func fourCC(a, b, c, d byte) CodecID {
	return CodecID(uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d))
}

// Lossless reports whether CodecID encodes audio losslessly. Per spec.md
// §3, this flag is derived, not carried on the wire: it determines whether
// RECON_GAIN is meaningful for layers built on this codec config.
func (c CodecID) Lossless() bool {
	return c == CodecIDLPCM || c == CodecIDFLAC
}

// CodecConfig is the Codec-Config OBU payload.
type CodecConfig struct {
	CodecConfigID      uint32
	CodecID            CodecID
	NumSamplesPerFrame uint32
	AudioRollDistance  int32
	SampleRate         uint32
	BitDepth           uint8 // LPCM only; 0 for other codecs
	DecoderConfigBytes []byte
}

func readCodecConfig(rb *bitbuffer.Buffer, payloadBytes uint32) (CodecConfig, error) {
	startBit := rb.Tell()

	id, err := rb.ReadUnsignedLeb128()
	if err != nil {
		return CodecConfig{}, err
	}
	codecIDRaw, err := rb.ReadUnsigned(32)
	if err != nil {
		return CodecConfig{}, err
	}
	numSamples, err := rb.ReadUnsignedLeb128()
	if err != nil {
		return CodecConfig{}, err
	}
	rollDistance, err := rb.ReadSigned(16)
	if err != nil {
		return CodecConfig{}, err
	}

	cc := CodecConfig{
		CodecConfigID:      id,
		CodecID:            CodecID(codecIDRaw),
		NumSamplesPerFrame: numSamples,
		AudioRollDistance:  rollDistance,
	}

	switch cc.CodecID {
	case CodecIDLPCM:
		// lpcm_decoder_config(): sample_format_flags(8), sample_size(8),
		// sample_rate(32).
		flags, err := rb.ReadUnsigned(8)
		if err != nil {
			return CodecConfig{}, err
		}
		_ = flags // big/little endian flag; this decoder always normalizes to LE output.
		bitDepth, err := rb.ReadUnsigned(8)
		if err != nil {
			return CodecConfig{}, err
		}
		sampleRate, err := rb.ReadUnsigned(32)
		if err != nil {
			return CodecConfig{}, err
		}
		cc.BitDepth = uint8(bitDepth)
		cc.SampleRate = sampleRate
	default:
		// Opus/AAC/FLAC decoder configs are codec-specific opaque byte
		// blobs; the bound codecplugin.Decoder is responsible for
		// interpreting them. The remaining payload bytes (whatever wasn't
		// already consumed above) are captured verbatim.
		consumed := uint32(rb.Tell()-startBit) / 8
		if consumed > payloadBytes {
			return CodecConfig{}, malformed("codec_config payload too small for codec_config_id/codec_id/fields")
		}
		remaining := payloadBytes - consumed
		raw, err := rb.ReadBytes(int(remaining))
		if err != nil {
			return CodecConfig{}, err
		}
		cc.DecoderConfigBytes = raw
		// Opus and FLAC carry their own sample rate in the decoder config;
		// leaving SampleRate unset here is resolved by the bound
		// codecplugin.Decoder via OutputSampleRate().
	}

	return cc, nil
}
