package agbin

// FileHeader is the fixed 16-byte region at the start of every capture
// file. Read once per file.
type FileHeader struct {
	Signature  [2]byte
	Version    [2]byte
	FileSize   uint64
	NWaveforms uint32
}

// CaptureDescriptor holds the per-capture fields shared by every
// channel, plus the layout fields needed to locate channel blocks.
// It is populated from channel 0's waveform and buffer headers.
type CaptureDescriptor struct {
	HeaderSize     uint32
	WaveformType   uint32
	NBuffers       uint32
	NPts           uint32
	Count          uint32
	XRange         float32
	XDisplayOrigin float64
	XIncrement     float64 // seconds per sample
	XOrigin        float64
	XUnits         uint32
	YUnits         uint32
	Date           string
	Time           string
	Model          string

	// Buffer layout region.
	SubHeaderSize uint32
	BufferType    uint16
	BytesPerPoint uint16
	BufferSize    uint64
}

// ChannelRecord is one decoded channel: its unit, display name and
// exactly NPts samples.
type ChannelRecord struct {
	Unit    Unit
	Name    string
	Samples []float32
}

// File is a fully decoded capture. It is owned by the caller; the
// decoder keeps no state and no handle once it returns.
type File struct {
	Header     FileHeader
	Descriptor CaptureDescriptor
	Channels   []ChannelRecord

	// VersionWarning is set when the file's version digit differs from
	// the one this decoder was written against. The decode itself
	// proceeded normally.
	VersionWarning string
}

// TimeAxis reconstructs the time value of each sample:
// t[k] = -x_origin + x_increment*k. The same formula covers memory and
// screen save modes; only the sign the instrument stored in x_origin
// differs between them.
func (f *File) TimeAxis() []float64 {
	n := int(f.Descriptor.NPts)
	t := make([]float64, n)
	for k := 0; k < n; k++ {
		t[k] = -f.Descriptor.XOrigin + f.Descriptor.XIncrement*float64(k)
	}
	return t
}
