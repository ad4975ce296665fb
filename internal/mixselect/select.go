// Package mixselect chooses which Mix-Presentation, sub-mix, and target
// layout a decoder renders to, from the caller's requested mix id and/or
// layout plus the profile-filtered descriptor set.
package mixselect

import (
	"errors"
	"fmt"

	"github.com/go-iamf/iamf/internal/descriptor"
	"github.com/go-iamf/iamf/internal/obu"
	"github.com/go-iamf/iamf/internal/profile"
)

// ErrNoPlayableMix is returned when no mix-presentation in the descriptor
// set has both a passing profile and at least one sub-mix with at least one
// layout.
var ErrNoPlayableMix = errors.New("mixselect: no mix-presentation has a playable sub-mix")

// Request is what a caller asks for: a specific mix-presentation id and/or
// an abstract target layout. Either field may be its zero value, meaning
// "no preference".
type Request struct {
	MixPresentationID uint32
	HasMixID          bool

	LayoutType  uint8
	SoundSystem uint8
	HasLayout   bool
}

// Selection is what the Mix Selector decided.
type Selection struct {
	MixPresentation obu.MixPresentation
	SubMixIndex     int
	LayoutIndex     int
}

// Select runs the four-step algorithm described by the Pipeline
// Controller's mix-selection contract: prefer an id match, then an exact
// layout match within it (or, failing that, bitstream order); fall back to
// the first playable layout of the first profile-passing mix; error if
// neither exists.
func Select(store *descriptor.Store, profiles profile.Set, req Request) (Selection, error) {
	candidates := store.MixPresentations
	if req.HasMixID {
		for _, mp := range candidates {
			if mp.MixPresentationID == req.MixPresentationID {
				candidates = []obu.MixPresentation{mp}
				break
			}
		}
	}

	if req.HasLayout {
		if sel, ok := findExactLayoutMatch(candidates, req); ok {
			return sel, nil
		}
	}

	return findFirstPlayable(store, profiles, candidates)
}

func findExactLayoutMatch(candidates []obu.MixPresentation, req Request) (Selection, bool) {
	for _, mp := range candidates {
		for si, sm := range mp.SubMixes {
			for li, layout := range sm.Layouts {
				if layout.LayoutType == req.LayoutType && layout.SoundSystem == req.SoundSystem {
					return Selection{MixPresentation: mp, SubMixIndex: si, LayoutIndex: li}, true
				}
			}
		}
	}
	return Selection{}, false
}

func findFirstPlayable(store *descriptor.Store, profiles profile.Set, candidates []obu.MixPresentation) (Selection, error) {
	for _, mp := range candidates {
		working := cloneSet(profiles)
		if err := profile.FilterForMixPresentation(working, store, mp); err != nil {
			continue
		}
		for si, sm := range mp.SubMixes {
			if len(sm.Layouts) > 0 {
				return Selection{MixPresentation: mp, SubMixIndex: si, LayoutIndex: 0}, nil
			}
		}
	}
	return Selection{}, fmt.Errorf("%w (requested %d candidate mix-presentations)", ErrNoPlayableMix, len(candidates))
}

func cloneSet(s profile.Set) profile.Set {
	out := make(profile.Set, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}
