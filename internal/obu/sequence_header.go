package obu

import "github.com/go-iamf/iamf/internal/bitbuffer"

// SequenceHeader is the IA-Sequence-Header payload. Exactly one precedes
// every IA sequence; a second one appearing mid-stream marks what would be
// a new sequence, which this module treats as an error (SPEC_FULL.md §9,
// Open Question 4).
type SequenceHeader struct {
	IaCode            uint32
	PrimaryProfile    Profile
	AdditionalProfile Profile
}

func readSequenceHeader(rb *bitbuffer.Buffer, payloadBytes uint32) (SequenceHeader, error) {
	if payloadBytes != 6 {
		return SequenceHeader{}, malformed("ia_sequence_header payload must be 6 bytes, got %d", payloadBytes)
	}

	code, err := rb.ReadUnsigned(32)
	if err != nil {
		return SequenceHeader{}, err
	}
	if code != IaCode {
		return SequenceHeader{}, malformed("ia_code 0x%08x does not match \"iamf\"", code)
	}

	primary, err := rb.ReadUnsigned(8)
	if err != nil {
		return SequenceHeader{}, err
	}
	additional, err := rb.ReadUnsigned(8)
	if err != nil {
		return SequenceHeader{}, err
	}

	return SequenceHeader{
		IaCode:            code,
		PrimaryProfile:    Profile(primary),
		AdditionalProfile: Profile(additional),
	}, nil
}
