// decode.go
package aac

import (
	"fmt"

	"github.com/go-iamf/iamf/codec/aac/internal/bits"
)

// adtsSyncword is the 12-bit ADTS sync pattern. Duplicated from
// internal/syntax to avoid an import cycle (syntax imports this
// package for AudioSpecificConfig).
const adtsSyncword = 0x0FFF

// Raw_data_block element IDs, duplicated from internal/syntax for the
// same reason as adtsSyncword above.
const (
	elementSCE = 0x0 // Single Channel Element
	elementCPE = 0x1 // Channel Pair Element
	elementCCE = 0x2 // Coupling Channel Element
	elementLFE = 0x3 // LFE Channel Element
	elementDSE = 0x4 // Data Stream Element
	elementPCE = 0x5 // Program Config Element
	elementFIL = 0x6 // Fill Element
	elementEND = 0x7 // Terminating element, ends the raw_data_block
)

// ErrUnimplementedElement is returned when a raw_data_block carries a
// syntax element this port does not parse yet. Only ID_END-only
// frames (silence) decode all the way through today.
var ErrUnimplementedElement = fmt.Errorf("aac: element parsing not implemented for this syntax element")

// InitResult reports how Init consumed its input buffer.
type InitResult struct {
	BytesConsumed uint32
}

// Init parses a stream header (currently ADTS) to discover the
// object type, sample rate and channel configuration, without
// decoding any audio. Call it once before the first Decode call for
// ADTS streams; raw streams that already know their parameters can
// skip it and set SetConfiguration/struct fields directly.
//
// Ported from: NeAACDecInit() in ~/dev/faad2/libfaad/decoder.c:315-420
func (d *Decoder) Init(buffer []byte) (InitResult, error) {
	if d == nil {
		return InitResult{}, ErrNilDecoder
	}
	if buffer == nil {
		return InitResult{}, ErrNilBuffer
	}
	if len(buffer) < 2 {
		return InitResult{}, ErrBufferTooSmall
	}

	r := bits.NewReader(buffer)
	if r.ShowBits(12) != adtsSyncword {
		// Not an ADTS stream: leave whatever configuration the caller
		// already set (SetConfiguration, or manual field assignment in
		// tests) and report nothing consumed.
		return InitResult{}, nil
	}

	bitsConsumed := consumeADTSHeader(d, r)
	return InitResult{BytesConsumed: uint32(bitsConsumed) / 8}, nil
}

// SimpleInit is Init for callers that only want the resulting sample
// rate and channel count, matching the package's simplified API.
func (d *Decoder) SimpleInit(buffer []byte) (sampleRate uint32, channels uint8, err error) {
	if _, err = d.Init(buffer); err != nil {
		return 0, 0, err
	}
	return d.SampleRate(), d.Channels(), nil
}

// Decode decodes one AAC frame.
//
// Parameters:
//   - buffer: Input AAC frame data
//
// Returns:
//   - samples: always nil; only a raw_data_block holding nothing but
//     ID_END decodes, and any other element returns ErrUnimplementedElement
//   - info: Frame information (channels, sample rate, bytes consumed, etc.)
//   - err: Error if decoding fails
//
// The decoder must be initialized with Init() before calling Decode()
// for ADTS streams; raw streams set their parameters directly.
// Each call to Decode() processes exactly one frame. For ADTS
// streams, the ADTS header is parsed automatically. For raw AAC, the
// caller must provide frame boundaries.
//
// Note: The first frame returns zero samples due to the overlap-add
// delay. This matches FAAD2 behavior (decoder.c:1204-1206).
//
// Ported from: aac_frame_decode() in ~/dev/faad2/libfaad/decoder.c:848-1255
func (d *Decoder) Decode(buffer []byte) (interface{}, *FrameInfo, error) {
	// Safety checks
	// Ported from: decoder.c:872-876
	if d == nil {
		return nil, nil, ErrNilDecoder
	}
	if buffer == nil {
		return nil, nil, ErrNilBuffer
	}
	if len(buffer) == 0 {
		return nil, nil, ErrBufferTooSmall
	}

	// Initialize FrameInfo
	info := &FrameInfo{}

	// Check for ID3v1 tag (128 bytes starting with "TAG")
	// Ported from: decoder.c:901-910
	if len(buffer) >= 128 && buffer[0] == 'T' && buffer[1] == 'A' && buffer[2] == 'G' {
		info.BytesConsumed = 128
		// No error, but no output either
		return nil, info, nil
	}

	d.ensureFilterBank()

	r := bits.NewReader(buffer)
	consumed := uint(0)

	switch {
	case r.ShowBits(12) == adtsSyncword:
		info.HeaderType = HeaderTypeADTS
		consumed += consumeADTSHeader(d, r)
	case d.adifHeaderPresent:
		info.HeaderType = HeaderTypeADIF
	default:
		info.HeaderType = HeaderTypeRAW
	}

	elementID := r.GetBits(3)
	consumed += 3
	for elementID != elementEND {
		// Full syntax-element parsing (SCE/CPE/CCE/LFE/DSE/PCE/FIL) is
		// not implemented by this port yet; only a terminator-only
		// raw_data_block decodes cleanly.
		return nil, nil, fmt.Errorf("%w: element id %d", ErrUnimplementedElement, elementID)
	}
	// Byte-align after the terminating element, per raw_data_block().
	if rem := consumed % 8; rem != 0 {
		r.GetBits(8 - rem)
		consumed += 8 - rem
	}

	info.Channels = 0
	info.SampleRate = d.SampleRate()
	info.ObjectType = ObjectType(d.objectType)
	info.BytesConsumed = uint32(consumed) / 8
	d.frame++

	return nil, info, nil
}

// consumeADTSHeader reads a per-frame ADTS header and returns the
// number of bits consumed, refreshing the decoder's stream parameters
// the same way Init does for the stream's first header.
func consumeADTSHeader(d *Decoder, r *bits.Reader) uint {
	r.FlushBits(12) // syncword
	r.GetBits(1)    // id
	r.GetBits(2)    // layer
	protectionAbsent := r.GetBits(1) == 1
	profile := r.GetBits(2)
	sfIndex := uint8(r.GetBits(4))
	r.GetBits(1) // private_bit
	chanConfig := uint8(r.GetBits(3))
	r.GetBits(1)  // original
	r.GetBits(1)  // home
	r.GetBits(1)  // copyright_id_bit
	r.GetBits(1)  // copyright_id_start
	r.GetBits(13) // frame_length
	r.GetBits(11) // adts_buffer_fullness
	r.GetBits(2)  // no_raw_data_blocks_in_frame

	d.adtsHeaderPresent = true
	d.objectType = uint8(profile) + 1
	d.sfIndex = sfIndex
	d.channelConfiguration = chanConfig

	bitsConsumed := uint(56)
	if !protectionAbsent {
		r.GetBits(16) // crc_check
		bitsConsumed += 16
	}
	return bitsConsumed
}

// createChannelConfig fills in FrameInfo's per-channel layout from the
// decoder's channel_configuration, following the fixed mappings in
// Table 1.17 of ISO/IEC 14496-3.
//
// Ported from: create_channel_config() in ~/dev/faad2/libfaad/decoder.c:605-700
func (d *Decoder) createChannelConfig(info *FrameInfo) {
	switch d.channelConfiguration {
	case 1:
		info.ChannelPosition[0] = ChannelFrontCenter
		info.NumFrontChannels = 1
	case 2:
		info.ChannelPosition[0] = ChannelFrontLeft
		info.ChannelPosition[1] = ChannelFrontRight
		info.NumFrontChannels = 2
	case 3:
		info.ChannelPosition[0] = ChannelFrontCenter
		info.ChannelPosition[1] = ChannelFrontLeft
		info.ChannelPosition[2] = ChannelFrontRight
		info.NumFrontChannels = 3
	case 4:
		info.ChannelPosition[0] = ChannelFrontCenter
		info.ChannelPosition[1] = ChannelFrontLeft
		info.ChannelPosition[2] = ChannelFrontRight
		info.ChannelPosition[3] = ChannelBackCenter
		info.NumFrontChannels = 3
		info.NumBackChannels = 1
	case 5:
		info.ChannelPosition[0] = ChannelFrontCenter
		info.ChannelPosition[1] = ChannelFrontLeft
		info.ChannelPosition[2] = ChannelFrontRight
		info.ChannelPosition[3] = ChannelBackLeft
		info.ChannelPosition[4] = ChannelBackRight
		info.NumFrontChannels = 3
		info.NumBackChannels = 2
	case 6:
		info.ChannelPosition[0] = ChannelFrontCenter
		info.ChannelPosition[1] = ChannelFrontLeft
		info.ChannelPosition[2] = ChannelFrontRight
		info.ChannelPosition[3] = ChannelBackLeft
		info.ChannelPosition[4] = ChannelBackRight
		info.ChannelPosition[5] = ChannelLFE
		info.NumFrontChannels = 3
		info.NumBackChannels = 2
		info.NumLFEChannels = 1
	case 7:
		info.ChannelPosition[0] = ChannelFrontCenter
		info.ChannelPosition[1] = ChannelFrontLeft
		info.ChannelPosition[2] = ChannelFrontRight
		info.ChannelPosition[3] = ChannelSideLeft
		info.ChannelPosition[4] = ChannelSideRight
		info.ChannelPosition[5] = ChannelBackLeft
		info.ChannelPosition[6] = ChannelBackRight
		info.ChannelPosition[7] = ChannelLFE
		info.NumFrontChannels = 3
		info.NumSideChannels = 2
		info.NumBackChannels = 2
		info.NumLFEChannels = 1
	}
}

// generatePCMOutput interleaves numChannels channels of d.timeOut into
// the output sample type selected by d.config.OutputFormat.
//
// Ported from: output conversion loop in ~/dev/faad2/libfaad/output.c
func (d *Decoder) generatePCMOutput(numChannels uint8) interface{} {
	frameLen := int(d.frameLength)
	n := frameLen * int(numChannels)

	switch d.config.OutputFormat {
	case OutputFormat24Bit, OutputFormat32Bit:
		out := make([]int32, n)
		for i := 0; i < frameLen; i++ {
			for ch := 0; ch < int(numChannels); ch++ {
				out[i*int(numChannels)+ch] = int32(d.timeOut[ch][i] * float32(1<<23))
			}
		}
		return out
	case OutputFormatFloat:
		out := make([]float32, n)
		for i := 0; i < frameLen; i++ {
			for ch := 0; ch < int(numChannels); ch++ {
				out[i*int(numChannels)+ch] = d.timeOut[ch][i]
			}
		}
		return out
	case OutputFormatDouble:
		out := make([]float64, n)
		for i := 0; i < frameLen; i++ {
			for ch := 0; ch < int(numChannels); ch++ {
				out[i*int(numChannels)+ch] = float64(d.timeOut[ch][i])
			}
		}
		return out
	default: // OutputFormat16Bit
		out := make([]int16, n)
		for i := 0; i < frameLen; i++ {
			for ch := 0; ch < int(numChannels); ch++ {
				out[i*int(numChannels)+ch] = int16(d.timeOut[ch][i] * float32(1<<15))
			}
		}
		return out
	}
}

// DecodeFloat decodes one frame the same way Decode does, but forces
// 32-bit float output for the call, restoring the caller's configured
// OutputFormat before returning.
func (d *Decoder) DecodeFloat(buffer []byte) ([]float32, *FrameInfo, error) {
	saved := d.config.OutputFormat
	d.config.OutputFormat = OutputFormatFloat
	defer func() { d.config.OutputFormat = saved }()

	samples, info, err := d.Decode(buffer)
	if err != nil {
		return nil, info, err
	}
	out, _ := samples.([]float32)
	return out, info, nil
}

// DecodeInt16 decodes one frame and returns 16-bit PCM samples,
// regardless of the decoder's configured OutputFormat.
func (d *Decoder) DecodeInt16(buffer []byte) ([]int16, error) {
	saved := d.config.OutputFormat
	d.config.OutputFormat = OutputFormat16Bit
	defer func() { d.config.OutputFormat = saved }()

	samples, _, err := d.Decode(buffer)
	if err != nil {
		return nil, err
	}
	out, _ := samples.([]int16)
	return out, nil
}

// DecodeFloat32 decodes one frame and returns 32-bit float PCM
// samples, regardless of the decoder's configured OutputFormat.
func (d *Decoder) DecodeFloat32(buffer []byte) ([]float32, error) {
	out, _, err := d.DecodeFloat(buffer)
	return out, err
}
