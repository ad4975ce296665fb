package codecplugin

import (
	"errors"
	"math"
	"testing"

	"github.com/go-iamf/iamf/internal/obu"
)

func TestLPCMFactory_Decode16Bit(t *testing.T) {
	cfg := obu.CodecConfig{CodecID: obu.CodecIDLPCM, BitDepth: 16, SampleRate: 48000, NumSamplesPerFrame: 960}
	dec, err := LPCMFactory(cfg)
	if err != nil {
		t.Fatalf("LPCMFactory: %v", err)
	}

	// Two little-endian int16 samples: 0x4000 (16384) and 0x8000 (-32768).
	payload := []byte{0x00, 0x40, 0x00, 0x80}
	out, err := dec.DecodeFrame(0, payload)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if math.Abs(float64(out[0])-0.5) > 1e-6 {
		t.Errorf("out[0] = %v, want ~0.5", out[0])
	}
	if math.Abs(float64(out[1])-(-1.0)) > 1e-6 {
		t.Errorf("out[1] = %v, want -1.0", out[1])
	}
	if dec.OutputSampleRate() != 48000 {
		t.Errorf("OutputSampleRate() = %d, want 48000", dec.OutputSampleRate())
	}
}

func TestLPCMFactory_RejectsUnsupportedBitDepth(t *testing.T) {
	cfg := obu.CodecConfig{CodecID: obu.CodecIDLPCM, BitDepth: 12}
	if _, err := LPCMFactory(cfg); err == nil {
		t.Fatal("expected an error for an unsupported bit depth")
	}
}

func TestLPCMFactory_RejectsNonLPCMCodecID(t *testing.T) {
	cfg := obu.CodecConfig{CodecID: obu.CodecIDAAC}
	if _, err := LPCMFactory(cfg); err == nil {
		t.Fatal("expected an error when given a non-LPCM codec config")
	}
}

func TestOpusAndFLACFactories_AreUnimplementedByDefault(t *testing.T) {
	if _, err := OpusFactory(obu.CodecConfig{}); !errors.Is(err, ErrUnimplemented) {
		t.Errorf("OpusFactory err = %v, want ErrUnimplemented", err)
	}
	if _, err := FLACFactory(obu.CodecConfig{}); !errors.Is(err, ErrUnimplemented) {
		t.Errorf("FLACFactory err = %v, want ErrUnimplemented", err)
	}
}
