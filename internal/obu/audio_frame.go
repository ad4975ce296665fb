package obu

import "github.com/go-iamf/iamf/internal/bitbuffer"

// AudioFrame is the Audio-Frame OBU payload: one substream's worth of
// compressed (or raw LPCM) samples for a single temporal unit.
type AudioFrame struct {
	SubstreamID    uint32
	EncodedPayload []byte
}

// readAudioFrame decodes an Audio-Frame OBU payload. When the OBU's type
// itself carries the substream id (TypeAudioFrameID0..TypeAudioFrameID17),
// implicitSubstreamID is that id and no substream_id field is present on
// the wire; otherwise the field is read explicitly, per spec.md §3's
// Audio-Frame data model.
func readAudioFrame(rb *bitbuffer.Buffer, payloadBytes uint32, implicitSubstreamID *uint32) (AudioFrame, error) {
	af := AudioFrame{}
	remaining := payloadBytes

	if implicitSubstreamID != nil {
		af.SubstreamID = *implicitSubstreamID
	} else {
		startBit := rb.Tell()
		sid, err := rb.ReadUnsignedLeb128()
		if err != nil {
			return AudioFrame{}, err
		}
		af.SubstreamID = sid
		consumed := uint32(rb.Tell()-startBit) / 8
		if consumed > remaining {
			return AudioFrame{}, malformed("audio_frame payload too small for substream_id")
		}
		remaining -= consumed
	}

	payload, err := rb.ReadBytes(int(remaining))
	if err != nil {
		return AudioFrame{}, err
	}
	af.EncodedPayload = payload
	return af, nil
}
