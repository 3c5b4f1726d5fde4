package agbin

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Wire images of the two header regions, field order and widths exactly
// as stored.
type wfmHeader struct {
	HeaderSize     uint32
	WaveformType   uint32
	NBuffers       uint32
	NPts           uint32
	Count          uint32
	XRange         float32
	XDisplayOrigin float64
	XIncrement     float64
	XOrigin        float64
	XUnits         uint32
	YUnits         uint32
	Date           [dateLen]byte
	Time           [timeLen]byte
	Model          [modelLen]byte
	ChannelName    [channelNameLen]byte
	Reserved       [12]byte
}

type bufHeader struct {
	HeaderSize    uint32
	BufferType    uint16
	BytesPerPoint uint16
	BufferSize    uint64
}

// ParseBINFile decodes the capture file at fileName. The file is opened
// read-only and closed again on every return path.
func ParseBINFile(fileName string) (*File, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", fileName)
	}
	defer file.Close()

	return Decode(file)
}

// Decode decodes one capture from r, which must support absolute seeks:
// channel blocks are located by offset arithmetic, not by sequential
// reads. Either the whole file decodes or an error is returned; there
// is no partial result.
func Decode(r io.ReadSeeker) (*File, error) {
	hdr, warning, err := readFileHeader(r)
	if err != nil {
		return nil, err
	}

	desc, err := readCaptureDescriptor(r)
	if err != nil {
		return nil, err
	}

	layout := newBlockLayout(desc)
	channels := make([]ChannelRecord, hdr.NWaveforms)
	for i := 0; i < int(hdr.NWaveforms); i++ {
		ch, err := readChannel(r, i, desc, layout)
		if err != nil {
			return nil, err
		}
		channels[i] = *ch
	}

	return &File{
		Header:         *hdr,
		Descriptor:     *desc,
		Channels:       channels,
		VersionWarning: warning,
	}, nil
}

// readFileHeader validates the signature and version and reads the file
// size and channel count, leaving the cursor at the first waveform
// header. On a signature mismatch nothing past the first two bytes has
// been read.
func readFileHeader(r io.ReadSeeker) (*FileHeader, string, error) {
	hdr := FileHeader{}

	if _, err := io.ReadFull(r, hdr.Signature[:]); err != nil {
		return nil, "", formatErr(0, ErrTruncated, "reading signature: %v", err)
	}
	if string(hdr.Signature[:]) != binSignature {
		return nil, "", formatErr(0, ErrBadSignature, "got %q, want %q", hdr.Signature[:], binSignature)
	}

	if _, err := io.ReadFull(r, hdr.Version[:]); err != nil {
		return nil, "", formatErr(2, ErrTruncated, "reading version: %v", err)
	}
	warning := ""
	if hdr.Version[1] != binCompatDigit {
		warning = fmt.Sprintf("file version %q does not match supported minor version %q; decoding anyway",
			hdr.Version[:], binCompatDigit)
	}

	tail := struct {
		FileSize   uint64
		NWaveforms uint32
	}{}
	if err := binary.Read(r, binary.LittleEndian, &tail); err != nil {
		return nil, "", formatErr(4, ErrTruncated, "reading file size and channel count: %v", err)
	}
	hdr.FileSize = tail.FileSize
	hdr.NWaveforms = tail.NWaveforms

	if hdr.NWaveforms < 1 {
		return nil, "", formatErr(12, ErrInvalidDescriptor, "channel count is zero")
	}

	return &hdr, warning, nil
}

// readCaptureDescriptor reads channel 0's waveform header sequentially,
// then seeks to the buffer layout region. The absolute seek skips the
// reserved channel-name field sitting between the two regions.
func readCaptureDescriptor(r io.ReadSeeker) (*CaptureDescriptor, error) {
	wh := wfmHeader{}
	if err := binary.Read(r, binary.LittleEndian, &wh); err != nil {
		return nil, formatErr(fileHeaderSize, ErrTruncated, "reading waveform header: %v", err)
	}

	bh := bufHeader{}
	if err := readAt(r, bufHeaderStart, &bh); err != nil {
		return nil, formatErr(bufHeaderStart, ErrTruncated, "reading buffer layout header: %v", err)
	}

	if wh.NPts == 0 {
		return nil, formatErr(fileHeaderSize+12, ErrInvalidDescriptor, "point count is zero")
	}
	if bh.BufferSize == 0 {
		return nil, formatErr(bufHeaderStart+8, ErrInvalidDescriptor, "buffer size is zero")
	}

	return &CaptureDescriptor{
		HeaderSize:     wh.HeaderSize,
		WaveformType:   wh.WaveformType,
		NBuffers:       wh.NBuffers,
		NPts:           wh.NPts,
		Count:          wh.Count,
		XRange:         wh.XRange,
		XDisplayOrigin: wh.XDisplayOrigin,
		XIncrement:     wh.XIncrement,
		XOrigin:        wh.XOrigin,
		XUnits:         wh.XUnits,
		YUnits:         wh.YUnits,
		Date:           trimField(wh.Date[:]),
		Time:           trimField(wh.Time[:]),
		Model:          trimField(wh.Model[:]),
		SubHeaderSize:  bh.HeaderSize,
		BufferType:     bh.BufferType,
		BytesPerPoint:  bh.BytesPerPoint,
		BufferSize:     bh.BufferSize,
	}, nil
}

// readChannel decodes channel index. Its unit code, name and payload
// live at three computed offsets; each is an independent absolute seek
// because the channel block interleaves sub-header and payload.
func readChannel(r io.ReadSeeker, index int, desc *CaptureDescriptor, layout blockLayout) (*ChannelRecord, error) {
	var code uint32
	unitOff := layout.unitOffset(index)
	if err := readAt(r, unitOff, &code); err != nil {
		return nil, formatErr(unitOff, ErrTruncated, "reading channel %d unit code: %v", index, err)
	}
	unit, ok := mapUnit(code)
	if !ok {
		return nil, formatErr(unitOff, ErrUnknownUnitCode, "channel %d: code %d", index, code)
	}

	name := [channelNameLen]byte{}
	nameOff := layout.nameOffset(index)
	if err := readAt(r, nameOff, &name); err != nil {
		return nil, formatErr(nameOff, ErrTruncated, "reading channel %d name: %v", index, err)
	}

	samples := make([]float32, desc.NPts)
	dataOff := layout.dataOffset(index)
	if err := readAt(r, dataOff, samples); err != nil {
		return nil, formatErr(dataOff, ErrTruncatedChannelData, "channel %d: want %d samples: %v", index, desc.NPts, err)
	}

	return &ChannelRecord{
		Unit:    unit,
		Name:    trimField(name[:]),
		Samples: samples,
	}, nil
}

// readAt seeks to an absolute offset and reads one fixed-size value.
func readAt(r io.ReadSeeker, offset int64, v interface{}) error {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	return binary.Read(r, binary.LittleEndian, v)
}

// trimField decodes a fixed-width string field: cut at the first NUL,
// then drop trailing blanks.
func trimField(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimRight(string(b), " ")
}
