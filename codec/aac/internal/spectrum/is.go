package spectrum

import "github.com/go-iamf/iamf/codec/aac/internal/syntax"

// ISDecodeConfig holds configuration for intensity stereo decoding.
type ISDecodeConfig struct {
	// ICSL is the left channel's individual channel stream
	ICSL *syntax.ICStream

	// ICSR is the right channel's individual channel stream (contains IS scale factors)
	ICSR *syntax.ICStream

	// FrameLength is the frame length (typically 1024 or 960)
	FrameLength uint16
}

// ISDecode is the intensity stereo stage for spectral coefficients.
// Its body is empty: neither spectrum is modified, and the right channel
// is not reconstructed for bands coded with INTENSITY_HCB or INTENSITY_HCB2.
//
// Ported from: is_decode() in ~/dev/faad2/libfaad/is.c:46-106
func ISDecode(lSpec, rSpec []float64, cfg *ISDecodeConfig) {
	// Stub - to be implemented
}
