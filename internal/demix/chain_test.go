package demix

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestS1ToS2_RecoversStereoFromMono(t *testing.T) {
	in := LabelMap{
		LabelMono: Samples{0.5},
		LabelL2:   Samples{0.2},
	}
	out := S1ToS2(in, DownMixParams{})
	r2, ok := out[LabelDemixedR2]
	if !ok {
		t.Fatal("DemixedR2 missing")
	}
	want := 2*0.5 - 0.2
	if !almostEqual(r2[0], want) {
		t.Errorf("DemixedR2 = %v, want %v", r2[0], want)
	}
	// Original map must be untouched.
	if _, ok := in[LabelDemixedR2]; ok {
		t.Error("S1ToS2 mutated its input map")
	}
}

func TestS3ToS5_UsesDeltaWeight(t *testing.T) {
	in := LabelMap{
		LabelL3: Samples{1.0},
		LabelR3: Samples{1.0},
		LabelL5: Samples{0.5},
		LabelR5: Samples{0.5},
	}
	out := S3ToS5(in, DownMixParams{Delta: 0.5})
	ls5 := out[LabelDemixedLs5]
	want := (1.0 - 0.5) / 0.5
	if !almostEqual(ls5[0], want) {
		t.Errorf("DemixedLs5 = %v, want %v", ls5[0], want)
	}
}

func TestS3ToS5_MissingPrerequisiteIsANoOp(t *testing.T) {
	in := LabelMap{LabelL3: Samples{1.0}}
	out := S3ToS5(in, DownMixParams{Delta: 0.5})
	if _, ok := out[LabelDemixedLs5]; ok {
		t.Error("expected no-op when R3/L5/R5 are absent")
	}
}

func TestRunChain_S1ThroughS7(t *testing.T) {
	in := LabelMap{
		LabelMono: Samples{1},
		LabelL2:   Samples{1},
		LabelCentre: Samples{0.5},
		LabelL3:   Samples{0.9},
		LabelR3:   Samples{0.9},
		LabelL5:   Samples{0.7},
		LabelR5:   Samples{0.7},
		LabelLs5:  Samples{0.3},
		LabelRs5:  Samples{0.3},
		LabelLss7: Samples{0.2},
		LabelRss7: Samples{0.2},
	}
	params := DownMixParams{Alpha: 1, Beta: 0.866, Gamma: 0.866, Delta: 0.866, W: 0.25}
	out := RunChain(DefaultChain, in, params)

	for _, label := range []Label{LabelDemixedR2, LabelDemixedL3, LabelDemixedR3, LabelDemixedLs5, LabelDemixedRs5, LabelDemixedL7, LabelDemixedR7, LabelDemixedLrs7, LabelDemixedRrs7} {
		if _, ok := out[label]; !ok {
			t.Errorf("expected label %v to be produced by the chain", label)
		}
	}
}

func TestDefaultDownMixParams_SelectsWByIndex(t *testing.T) {
	p := DefaultDownMixParams(1, 2)
	if p.W != 0.5 {
		t.Errorf("W = %v, want 0.5", p.W)
	}
	if p.Alpha != 1 {
		t.Errorf("Alpha = %v, want 1", p.Alpha)
	}
}

func TestApplyOutputGain_ZeroIsIdentity(t *testing.T) {
	in := Samples{1, 2, 3}
	out := ApplyOutputGain(in, 0)
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("index %d: got %v want %v", i, out[i], in[i])
		}
	}
}

func TestApplyReconGain_ScalesLinearly(t *testing.T) {
	in := Samples{1, 1, 1}
	out := ApplyReconGain(in, 128)
	want := 128.0 / 255.0
	for i := range in {
		if !almostEqual(out[i], want) {
			t.Errorf("index %d: got %v want %v", i, out[i], want)
		}
	}
}

func TestMonoReconstruct_SkipsUntransmittedChannels(t *testing.T) {
	substreams := []Samples{{1, 2}, {3, 4}}
	mapping := []uint8{0, 255, 1}
	out, err := MonoReconstruct(substreams, mapping)
	if err != nil {
		t.Fatalf("MonoReconstruct: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2 (ACN 1 omitted)", len(out))
	}
	if _, ok := out[LabelA1]; ok {
		t.Error("ACN 1 should be omitted per channel_mapping = 255")
	}
	if out[LabelA0][0] != 1 {
		t.Errorf("LabelA0[0] = %v, want 1", out[LabelA0][0])
	}
}

func TestProjectionReconstruct_SumsWeightedSubstreams(t *testing.T) {
	// One substream, one output channel, coefficient 1.0 in Q7.8 (256).
	substreams := []Samples{{2, 4}}
	matrix := []int16{256}
	out, err := ProjectionReconstruct(substreams, matrix, 1, 0, 1)
	if err != nil {
		t.Fatalf("ProjectionReconstruct: %v", err)
	}
	a0 := out[LabelA0]
	if !almostEqual(a0[0], 2) || !almostEqual(a0[1], 4) {
		t.Errorf("LabelA0 = %v, want [2 4]", a0)
	}
}
