package iamf

import (
	charmlog "github.com/charmbracelet/log"

	"github.com/go-iamf/iamf/internal/codecplugin"
	"github.com/go-iamf/iamf/internal/obu"
	"github.com/go-iamf/iamf/internal/reorder"
	"github.com/go-iamf/iamf/internal/render"
)

// ProfileVersion is a profile this decoder is willing to accept descriptors
// for. A caller requesting playback narrows acceptance with Settings.Profiles;
// the zero value set means "accept whichever profile the bitstream declares".
type ProfileVersion = obu.Profile

const (
	ProfileVersionSimple       = obu.ProfileSimple
	ProfileVersionBase         = obu.ProfileBase
	ProfileVersionBaseEnhanced = obu.ProfileBaseEnhanced
)

// OutputSampleType selects the PCM encoding GetOutputTemporalUnit emits.
type OutputSampleType = render.OutputSampleType

const (
	OutputSampleTypeInt16LittleEndian = render.OutputInt16LittleEndian
	OutputSampleTypeInt32LittleEndian = render.OutputInt32LittleEndian
)

// ChannelOrdering selects the channel permutation applied to rendered
// output, on top of whatever order the target OutputLayout's render.Layout
// names internally.
type ChannelOrdering = reorder.Ordering

const (
	ChannelOrderingIAMF        = reorder.OrderingIAMF
	ChannelOrderingAndroidWAVE = reorder.OrderingAndroidWAVE
)

// CodecFactories overrides the package-level default Factory bound to each
// codec_id, letting a caller supply its own Opus or FLAC decoder (or swap
// out the built-in LPCM/AAC ones) without this module needing to carry
// every possible codec dependency itself.
type CodecFactories struct {
	LPCM codecplugin.Factory
	Opus codecplugin.Factory
	AAC  codecplugin.Factory
	FLAC codecplugin.Factory
}

func (c CodecFactories) resolve(id obu.CodecID) codecplugin.Factory {
	switch id {
	case obu.CodecIDLPCM:
		if c.LPCM != nil {
			return c.LPCM
		}
		return codecplugin.LPCMFactory
	case obu.CodecIDOpus:
		if c.Opus != nil {
			return c.Opus
		}
		return codecplugin.OpusFactory
	case obu.CodecIDAAC:
		if c.AAC != nil {
			return c.AAC
		}
		return codecplugin.AACFactory
	case obu.CodecIDFLAC:
		if c.FLAC != nil {
			return c.FLAC
		}
		return codecplugin.FLACFactory
	default:
		return nil
	}
}

// Settings configures a Decoder at construction time. Every field is
// optional; the zero Settings value decodes the bitstream's primary
// profile, renders to the first playable mix-presentation and layout, emits
// int16 little-endian PCM in IAMF channel order, and logs nothing.
type Settings struct {
	// Logger receives structured diagnostic events (descriptor seal, mix
	// selection, reset, end-of-stream) at Debug/Info level. A nil Logger
	// disables logging entirely; the sample-decode hot path never logs
	// regardless of level.
	Logger *charmlog.Logger

	// Profiles restricts which profiles this decoder accepts. An empty set
	// accepts any profile the Sequence-Header's Profile Filter leaves
	// standing.
	Profiles []ProfileVersion

	// RequestedMixPresentationID and HasRequestedMixPresentationID select a
	// specific Mix-Presentation by id, per internal/mixselect's Request.
	RequestedMixPresentationID    uint32
	HasRequestedMixPresentationID bool

	// RequestedLayout selects the target output layout. The zero value,
	// OutputLayoutStereo, is also a meaningful request, so
	// HasRequestedLayout gates whether RequestedLayout is actually honored
	// over a layout-agnostic "first playable" selection.
	RequestedLayout    OutputLayout
	HasRequestedLayout bool

	SampleType       OutputSampleType
	ChannelOrdering  ChannelOrdering
	CodecFactories   CodecFactories
	LoudnessObserver render.LoudnessObserver

	// BinauralRenderer is the external collaborator consulted when
	// RequestedLayout is OutputLayoutBinaural. Requesting binaural output
	// without one configured fails with KindUnimplemented.
	BinauralRenderer render.BinauralRenderer

	// GainCacheSize bounds the Renderer's resolved gain-matrix LRU. Zero
	// selects a small built-in default.
	GainCacheSize int
}

func (s Settings) profileSet() []ProfileVersion {
	if len(s.Profiles) == 0 {
		return []ProfileVersion{ProfileVersionSimple, ProfileVersionBase, ProfileVersionBaseEnhanced}
	}
	return s.Profiles
}

func (s Settings) gainCacheSize() int {
	if s.GainCacheSize > 0 {
		return s.GainCacheSize
	}
	return 32
}

func (s Settings) logger() *charmlog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return charmlog.New(discardWriter{})
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
