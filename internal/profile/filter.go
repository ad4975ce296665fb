// Package profile narrows the set of IAMF profiles a Mix-Presentation is
// compatible with, by successively eliminating candidates whose caps
// (sub-mix count, audio-element count, channel count) the mix-presentation
// exceeds.
package profile

import (
	"fmt"

	"github.com/go-iamf/iamf/internal/descriptor"
	"github.com/go-iamf/iamf/internal/obu"
)

const (
	simpleMaxAudioElements       = 1
	baseMaxAudioElements         = 2
	baseEnhancedMaxAudioElements = 28

	simpleMaxChannels       = 16
	baseMaxChannels         = 18
	baseEnhancedMaxChannels = 28
)

// Set is a candidate set of profiles, narrowed in place by each Filter*
// call. The zero Set is empty; use NewSet to seed one with the profiles an
// IA-Sequence-Header declares.
type Set map[obu.Profile]struct{}

// NewSet returns a Set containing exactly the given profiles.
func NewSet(profiles ...obu.Profile) Set {
	s := make(Set, len(profiles))
	for _, p := range profiles {
		s[p] = struct{}{}
	}
	return s
}

// Has reports whether p remains a candidate.
func (s Set) Has(p obu.Profile) bool {
	_, ok := s[p]
	return ok
}

func (s Set) clear() {
	for p := range s {
		delete(s, p)
	}
}

// FilterForMixPresentation narrows s to the profiles compatible with one
// Mix-Presentation, resolving its audio-element and channel-count
// references against store. It mutates s and returns an error (s is left
// empty) the moment no candidate remains.
func FilterForMixPresentation(s Set, store *descriptor.Store, mp obu.MixPresentation) error {
	if err := filterForNumSubMixes(s, mp); err != nil {
		return err
	}

	numElements, numChannels, err := countElementsAndChannels(store, mp)
	if err != nil {
		s.clear()
		return err
	}

	if err := filterForNumAudioElements(s, mp.MixPresentationID, numElements); err != nil {
		return err
	}
	return filterForNumChannels(s, mp.MixPresentationID, numChannels)
}

func filterForNumSubMixes(s Set, mp obu.MixPresentation) error {
	if len(mp.SubMixes) > 1 {
		delete(s, obu.ProfileSimple)
		delete(s, obu.ProfileBase)
		delete(s, obu.ProfileBaseEnhanced)
	}
	if len(s) == 0 {
		return fmt.Errorf("profile: mix_presentation %d has %d sub mixes, which no requested profile supports", mp.MixPresentationID, len(mp.SubMixes))
	}
	return nil
}

func countElementsAndChannels(store *descriptor.Store, mp obu.MixPresentation) (numElements, numChannels int, err error) {
	for _, sm := range mp.SubMixes {
		numElements += len(sm.Elements)
		for _, ec := range sm.Elements {
			ae, ok := store.AudioElements[ec.AudioElementID]
			if !ok {
				return 0, 0, fmt.Errorf("profile: mix_presentation %d references unknown audio_element_id %d", mp.MixPresentationID, ec.AudioElementID)
			}
			numChannels += channelCount(ae)
		}
	}
	return numElements, numChannels, nil
}

// channelCount sums the channel count across an Audio-Element's substreams:
// for Channel-Based elements that is NumSubstreams + CoupledSubstreamCnt
// summed over every scalable layer (a coupled substream carries two
// channels); for Scene-Based elements it is simply OutputChannelCount.
func channelCount(ae obu.AudioElement) int {
	switch ae.ElementType {
	case obu.AudioElementSceneBased:
		if ae.Scene.Mode == obu.AmbisonicsModeProjection {
			return int(ae.Scene.Projection.OutputChannelCount)
		}
		return int(ae.Scene.Mono.OutputChannelCount)
	default:
		total := 0
		for _, layer := range ae.Channel.Layers {
			total += int(layer.NumSubstreams) + int(layer.CoupledSubstreamCnt)
		}
		return total
	}
}

func filterForNumAudioElements(s Set, mixID uint32, n int) error {
	if n > simpleMaxAudioElements {
		delete(s, obu.ProfileSimple)
	}
	if n > baseMaxAudioElements {
		delete(s, obu.ProfileBase)
	}
	if n > baseEnhancedMaxAudioElements {
		delete(s, obu.ProfileBaseEnhanced)
	}
	if len(s) == 0 {
		return fmt.Errorf("profile: mix_presentation %d has %d audio elements, which no profile supports", mixID, n)
	}
	return nil
}

func filterForNumChannels(s Set, mixID uint32, n int) error {
	if n > simpleMaxChannels {
		delete(s, obu.ProfileSimple)
	}
	if n > baseMaxChannels {
		delete(s, obu.ProfileBase)
	}
	if n > baseEnhancedMaxChannels {
		delete(s, obu.ProfileBaseEnhanced)
	}
	if len(s) == 0 {
		return fmt.Errorf("profile: mix_presentation %d has %d channels, which no profile supports", mixID, n)
	}
	return nil
}
