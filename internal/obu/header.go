package obu

import (
	"errors"
	"fmt"

	"github.com/go-iamf/iamf/internal/bitbuffer"
)

// ErrMalformedBitstream is returned for any parse failure that is not a
// simple "need more bytes" condition: bad LEB128 encoding, an obu_size that
// doesn't agree with the bytes actually consumed, or a field value outside
// its allowed range.
var ErrMalformedBitstream = errors.New("obu: malformed bitstream")

// malformed wraps ErrMalformedBitstream with context, keeping the sentinel
// matchable via errors.Is.
func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedBitstream, fmt.Sprintf(format, args...))
}

// Header is the common leading structure of every OBU, preceding the
// type-specific payload.
type Header struct {
	Type                    Type
	RedundantCopy           bool
	TrimmingStatusFlag      bool
	ExtensionFlag           bool
	NumSamplesToTrimAtEnd   uint32
	NumSamplesToTrimAtStart uint32
	ExtensionBytes          []byte

	// Size is obu_size: the byte length of everything following the
	// obu_size field itself, including any trim/extension fields.
	Size uint32

	// PayloadSize is the byte length of the type-specific payload alone,
	// i.e. Size minus whatever trim/extension fields were already
	// consumed as part of the header.
	PayloadSize uint32
}

// readHeader decodes the flags byte, obu_size, and any trimming/extension
// fields. It returns bitbuffer.ErrInsufficientData, leaving the cursor
// untouched, if the header itself isn't fully buffered; it does not check
// whether the payload named by PayloadSize is buffered — that is the
// caller's job, since only the caller knows how to peek ahead and rewind
// atomically.
func readHeader(rb *bitbuffer.Buffer) (Header, error) {
	startBit := rb.Tell()

	typeBits, err := rb.ReadUnsigned(5)
	if err != nil {
		rb.Seek(startBit)
		return Header{}, err
	}
	redundant, err := rb.ReadUnsigned(1)
	if err != nil {
		rb.Seek(startBit)
		return Header{}, err
	}
	trimming, err := rb.ReadUnsigned(1)
	if err != nil {
		rb.Seek(startBit)
		return Header{}, err
	}
	extension, err := rb.ReadUnsigned(1)
	if err != nil {
		rb.Seek(startBit)
		return Header{}, err
	}

	h := Header{
		Type:               Type(typeBits),
		RedundantCopy:      redundant != 0,
		TrimmingStatusFlag: trimming != 0,
		ExtensionFlag:      extension != 0,
	}

	size, err := rb.ReadUnsignedLeb128()
	if err != nil {
		rb.Seek(startBit)
		return Header{}, err
	}
	h.Size = size
	h.PayloadSize = size

	if h.TrimmingStatusFlag {
		preTrimBit := rb.Tell()
		trimEnd, err := rb.ReadUnsignedLeb128()
		if err != nil {
			rb.Seek(startBit)
			return Header{}, err
		}
		trimStart, err := rb.ReadUnsignedLeb128()
		if err != nil {
			rb.Seek(startBit)
			return Header{}, err
		}
		h.NumSamplesToTrimAtEnd = trimEnd
		h.NumSamplesToTrimAtStart = trimStart

		consumedBytes := (rb.Tell() - preTrimBit) / 8
		if uint32(consumedBytes) > h.PayloadSize {
			return Header{}, malformed("obu_size %d too small for trim fields", h.Size)
		}
		h.PayloadSize -= uint32(consumedBytes)
	}

	if h.ExtensionFlag {
		preExtBit := rb.Tell()
		extSize, err := rb.ReadUnsignedLeb128()
		if err != nil {
			rb.Seek(startBit)
			return Header{}, err
		}
		extBytes, err := rb.ReadBytes(int(extSize))
		if err != nil {
			rb.Seek(startBit)
			return Header{}, err
		}
		h.ExtensionBytes = extBytes

		consumedBytes := (rb.Tell() - preExtBit) / 8
		if uint32(consumedBytes) > h.PayloadSize {
			return Header{}, malformed("obu_size %d too small for extension field", h.Size)
		}
		h.PayloadSize -= uint32(consumedBytes)
	}

	return h, nil
}
