package demix

import "fmt"

// MonoReconstruct builds a LabelMap for an ambisonics-mono element directly
// from its decoded substreams: each transmitted channel maps to exactly
// one ambisonics channel number, as named by channelMapping (255 marks a
// channel the encoder chose not to transmit, left silent).
func MonoReconstruct(substreams []Samples, channelMapping []uint8) (LabelMap, error) {
	out := make(LabelMap, len(channelMapping))
	for acn, substreamIdx := range channelMapping {
		label, ok := AmbisonicsChannelNumberToLabel(acn)
		if !ok {
			return nil, fmt.Errorf("demix: ambisonics channel number %d has no Label", acn)
		}
		if substreamIdx == 255 {
			continue // not transmitted; left silent (omitted from the map)
		}
		if int(substreamIdx) >= len(substreams) {
			return nil, fmt.Errorf("demix: channel_mapping[%d] = %d is out of range (%d substreams)", acn, substreamIdx, len(substreams))
		}
		out[label] = substreams[substreamIdx]
	}
	return out, nil
}

// ProjectionReconstruct reconstructs every ambisonics channel from fewer
// transmitted substreams via the stored (substreamCount+coeffCount) x
// outputCount demixing matrix: each output channel is a weighted sum of
// the first substreamCount substreams (using Q7.8 fixed-point
// coefficients). The matrix's coeffCount extra rows are only counted in
// the size check; they are not applied to any output channel.
func ProjectionReconstruct(substreams []Samples, matrix []int16, substreamCount, coeffCount, outputCount int) (LabelMap, error) {
	rows := substreamCount + coeffCount
	if len(matrix) != rows*outputCount {
		return nil, fmt.Errorf("demix: demixing matrix has %d entries, want %d (%d rows x %d outputs)", len(matrix), rows*outputCount, rows, outputCount)
	}
	if len(substreams) < substreamCount {
		return nil, fmt.Errorf("demix: projection config wants %d substreams, got %d", substreamCount, len(substreams))
	}

	numSamples := 0
	if len(substreams) > 0 {
		numSamples = len(substreams[0])
	}

	out := make(LabelMap, outputCount)
	for acn := 0; acn < outputCount; acn++ {
		label, ok := AmbisonicsChannelNumberToLabel(acn)
		if !ok {
			return nil, fmt.Errorf("demix: ambisonics channel number %d has no Label", acn)
		}
		channel := make(Samples, numSamples)
		for row := 0; row < substreamCount; row++ {
			coeff := Q7Dot8ToFraction(matrix[row*outputCount+acn])
			src := substreams[row]
			for i := 0; i < numSamples && i < len(src); i++ {
				channel[i] += src[i] * coeff
			}
		}
		out[label] = channel
	}
	return out, nil
}
