package demix

import "math"

// Q7Dot8ToLinear converts a Q7.8 fixed-point gain (as carried by
// output_gain and mix_gain fields throughout the OBU data model) to a
// linear multiplier. These fields are dB values in Q7.8 format.
func Q7Dot8ToLinear(q int16) float64 {
	db := float64(q) / 256.0
	return math.Pow(10, db/20)
}

// Q7Dot8ToFraction converts a Q7.8 fixed-point coefficient (as carried by
// an ambisonics demixing matrix) directly to its linear fraction — unlike
// Q7Dot8ToLinear, these values are not dB; 8 fractional bits means the
// integer encoding is simply the fraction times 256.
func Q7Dot8ToFraction(q int16) float64 {
	return float64(q) / 256.0
}

// ApplyOutputGain scales every sample of label by the linear gain
// equivalent of q, in place on a fresh Samples slice (the input is left
// untouched, matching every other function in this package).
func ApplyOutputGain(in Samples, q int16) Samples {
	if q == 0 {
		return in
	}
	gain := Q7Dot8ToLinear(q)
	out := make(Samples, len(in))
	for i, s := range in {
		out[i] = s * gain
	}
	return out
}

// ApplyReconGain scales label's samples by the linear gain equivalent of
// an 8-bit recon_gain byte (unsigned, 0..255 representing 0..1 linear
// directly per spec.md §3's Parameter-Block model — unlike output_gain,
// recon_gain is not a dB value). It must run on a label immediately after
// the demixer that produced it, before any later lattice step consumes
// that label (SPEC_FULL.md §4.6a).
func ApplyReconGain(in Samples, reconGain uint8) Samples {
	gain := float64(reconGain) / 255.0
	out := make(Samples, len(in))
	for i, s := range in {
		out[i] = s * gain
	}
	return out
}
