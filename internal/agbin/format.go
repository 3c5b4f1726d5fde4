package agbin

// On-disk layout of a capture file, all integers little-endian:
//
//	[0x00] file header        16 bytes
//	[0x10] channel 0 block:   waveform header (wfmHeaderSize bytes)
//	                          buffer layout header (bufHeaderSize bytes)
//	                          sample payload (BufferSize bytes)
//	[...]  channel 1 block, channel 2 block, ...
//
// Every channel block repeats the full waveform header; the shared
// descriptor fields are taken from channel 0 only. The buffer size is
// likewise read once, from channel 0's layout header, and assumed
// constant for every channel. The format does not appear to support
// heterogeneous per-channel buffer sizes.

const (
	binSignature = "AG"

	// Second version byte known to lay out files as described here.
	// Other digits decode with a compatibility warning.
	binCompatDigit = '0'

	fileHeaderSize = 16

	wfmHeaderSize = 140
	bufHeaderSize = 16

	// Field positions inside one waveform header.
	relUnitCode    = 52  // y_units
	relChannelName = 112 // 16-byte name field

	channelNameLen = 16
	dateLen        = 16
	timeLen        = 16
	modelLen       = 24

	// Absolute position of channel 0's buffer layout header.
	bufHeaderStart = fileHeaderSize + wfmHeaderSize

	bytesPerSample = 4
)

// blockLayout computes the absolute byte offsets of channel i's fields.
// All three are pure functions of the index, the fixed header sizes and
// the buffer size learned from the descriptor; nothing is re-derived
// from file content per channel.
type blockLayout struct {
	stride  int64 // fixed header bytes per channel block
	bufSize int64
}

func newBlockLayout(desc *CaptureDescriptor) blockLayout {
	return blockLayout{
		stride:  int64(desc.SubHeaderSize) + bufHeaderSize,
		bufSize: int64(desc.BufferSize),
	}
}

func (l blockLayout) blockStart(index int) int64 {
	return fileHeaderSize + int64(index)*(l.stride+l.bufSize)
}

func (l blockLayout) unitOffset(index int) int64 {
	return l.blockStart(index) + relUnitCode
}

func (l blockLayout) nameOffset(index int) int64 {
	return l.blockStart(index) + relChannelName
}

func (l blockLayout) dataOffset(index int) int64 {
	return l.blockStart(index) + l.stride
}
