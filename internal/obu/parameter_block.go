package obu

import "github.com/go-iamf/iamf/internal/bitbuffer"

// ParamDefinitionType names which of the four subblock payload shapes a
// Parameter-Block carries. The type itself isn't present on the wire inside
// the parameter block OBU; it's carried by whichever Audio-Element or
// Mix-Presentation MixGain referenced ParameterID, and is threaded in by the
// caller (internal/descriptor) when it dispatches to readParameterBlock.
type ParamDefinitionType uint8

const (
	ParamDefinitionMixGain      ParamDefinitionType = 0
	ParamDefinitionDemixingInfo ParamDefinitionType = 1
	ParamDefinitionReconGain    ParamDefinitionType = 2
	ParamDefinitionExtension    ParamDefinitionType = 3
)

// DMixPMode selects one of the six scalable-channel demixing modes (spec.md
// §3's DMixPMode table, driving the weights internal/demix applies when
// reconstructing S2 from S1, S3 from S2, and so on).
type DMixPMode uint8

// Subblock is one subblock of a Parameter-Block; exactly one of the fields
// is meaningful, selected by the enclosing ParameterBlock's DefinitionType.
type Subblock struct {
	SubblockDuration uint32

	MixGain int16 // Q7.8, ParamDefinitionMixGain

	DMixPMode DMixPMode // ParamDefinitionDemixingInfo
	DefaultW  uint8     // ParamDefinitionDemixingInfo: the w weight used before the first subblock

	ReconGain []ReconGainChannel // ParamDefinitionReconGain, one entry per channel needing reconstruction

	ExtensionBytes []byte // ParamDefinitionExtension: opaque, forwarded unmodified
}

// ReconGainChannel is one channel's recon_gain byte plus the flag bit that
// marks whether this channel is even present at this layer (spec.md §4.6a).
type ReconGainChannel struct {
	ChannelLabel int
	Gain         uint8
	Flag         bool
}

// ParameterBlock is the Parameter-Block OBU payload.
type ParameterBlock struct {
	ParameterID              uint32
	DefinitionType           ParamDefinitionType
	Duration                 uint32
	ConstantSubblockDuration uint32
	NumSubblocks             uint32
	Subblocks                []Subblock
}

// reconGainFlagsForLayer is supplied by internal/demix at dispatch time: it
// names which channel labels this layer's recon_gain subblocks cover, since
// that set depends on the audio element's scalable layer structure, which
// obu has no knowledge of.
type reconGainFlagsForLayer = []int

func readParameterBlock(rb *bitbuffer.Buffer, defType ParamDefinitionType, paramRate uint32, activeLayerChannels reconGainFlagsForLayer) (ParameterBlock, error) {
	id, err := rb.ReadUnsignedLeb128()
	if err != nil {
		return ParameterBlock{}, err
	}
	duration, err := rb.ReadUnsignedLeb128()
	if err != nil {
		return ParameterBlock{}, err
	}
	constantSubblockDuration, err := rb.ReadUnsignedLeb128()
	if err != nil {
		return ParameterBlock{}, err
	}

	pb := ParameterBlock{
		ParameterID:              id,
		DefinitionType:           defType,
		Duration:                 duration,
		ConstantSubblockDuration: constantSubblockDuration,
	}

	var numSubblocks uint32
	if constantSubblockDuration == 0 {
		n, err := rb.ReadUnsignedLeb128()
		if err != nil {
			return ParameterBlock{}, err
		}
		numSubblocks = n
	} else {
		numSubblocks = (duration + constantSubblockDuration - 1) / constantSubblockDuration
	}
	pb.NumSubblocks = numSubblocks

	for i := uint32(0); i < numSubblocks; i++ {
		sb := Subblock{}
		if constantSubblockDuration == 0 {
			d, err := rb.ReadUnsignedLeb128()
			if err != nil {
				return ParameterBlock{}, err
			}
			sb.SubblockDuration = d
		}

		switch defType {
		case ParamDefinitionMixGain:
			g, err := rb.ReadSigned(16)
			if err != nil {
				return ParameterBlock{}, err
			}
			sb.MixGain = int16(g)
		case ParamDefinitionDemixingInfo:
			mode, err := rb.ReadUnsigned(3)
			if err != nil {
				return ParameterBlock{}, err
			}
			if _, err := rb.ReadUnsigned(5); err != nil { // reserved
				return ParameterBlock{}, err
			}
			sb.DMixPMode = DMixPMode(mode)
		case ParamDefinitionReconGain:
			for _, label := range activeLayerChannels {
				flag, err := rb.ReadUnsigned(1)
				if err != nil {
					return ParameterBlock{}, err
				}
				if flag == 0 {
					continue
				}
				if _, err := rb.ReadUnsigned(7); err != nil { // reserved pad, flag byte-aligns the field
					return ParameterBlock{}, err
				}
				gain, err := rb.ReadUnsigned(8)
				if err != nil {
					return ParameterBlock{}, err
				}
				sb.ReconGain = append(sb.ReconGain, ReconGainChannel{
					ChannelLabel: label,
					Gain:         uint8(gain),
					Flag:         true,
				})
			}
		case ParamDefinitionExtension:
			size, err := rb.ReadUnsignedLeb128()
			if err != nil {
				return ParameterBlock{}, err
			}
			data, err := rb.ReadBytes(int(size))
			if err != nil {
				return ParameterBlock{}, err
			}
			sb.ExtensionBytes = data
		}

		pb.Subblocks = append(pb.Subblocks, sb)
	}

	return pb, nil
}
