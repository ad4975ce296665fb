// Package reorder applies a stateless channel permutation to an
// interleaved output buffer, converting between IAMF's own channel
// ordering and a target platform's expected ordering.
package reorder

// Ordering selects which convention the caller's output buffer uses.
type Ordering uint8

const (
	// OrderingIAMF is the identity ordering — output channels already
	// match the bitstream's layout order.
	OrderingIAMF Ordering = iota

	// OrderingAndroidWAVE matches AudioFormat.java / WAVEFORMATEXTENSIBLE
	// conventions: for a 12-channel (7.1.4) buffer the side surrounds and
	// rear surrounds swap places; every other channel count, including 8
	// (7.1), is left in IAMF order. LFE is never moved.
	OrderingAndroidWAVE
)

// iamfToAndroidWAVE7_1_4 permutes IAMF's 7.1.4 channel order (L, R, C, LFE,
// Lss, Rss, Lrs, Rrs, Ltf, Rtf, Ltb, Rtb) into Android/WAVE order (L, R, C,
// LFE, Lrs, Rrs, Lss, Rss, Ltf, Rtf, Ltb, Rtb): permutation[i] is the
// source index feeding output position i.
var iamfToAndroidWAVE7_1_4 = []int{0, 1, 2, 3, 6, 7, 4, 5, 8, 9, 10, 11}

// iamfToAndroidWAVE5_1 permutes IAMF's 5.1 order (L, R, C, LFE, Ls, Rs)
// into WAVE order, which already places LFE at index 3 and needs no
// surround swap for a layout with only one surround pair — identity.
var iamfToAndroidWAVE5_1 = []int{0, 1, 2, 3, 4, 5}

// permutationFor resolves the permutation table for numChannels channels
// and the given ordering. Layouts without a named table use the identity
// permutation — spec.md only calls out swaps for layouts with both a
// surround and a rear-surround pair.
func permutationFor(ordering Ordering, numChannels int) []int {
	if ordering == OrderingIAMF {
		return identity(numChannels)
	}
	switch numChannels {
	case len(iamfToAndroidWAVE7_1_4):
		return iamfToAndroidWAVE7_1_4
	case len(iamfToAndroidWAVE5_1):
		return iamfToAndroidWAVE5_1
	default:
		return identity(numChannels)
	}
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// Permute reorders channels (one []float64-like slice per channel, any
// element type via generics) according to ordering, returning a new slice
// in output order. The input is left untouched.
func Permute[T any](ordering Ordering, channels []T) []T {
	perm := permutationFor(ordering, len(channels))
	out := make([]T, len(channels))
	for i, srcIdx := range perm {
		out[i] = channels[srcIdx]
	}
	return out
}
