package agbin

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// testCapture builds an in-memory capture with nChannels channels of
// nPts ramp samples each, using the timing of the concrete scenario
// (x_origin -0.0005, x_increment 1e-6).
func testCapture(nChannels, nPts int) *File {
	f := &File{
		Descriptor: CaptureDescriptor{
			HeaderSize:     wfmHeaderSize,
			WaveformType:   1,
			NBuffers:       1,
			NPts:           uint32(nPts),
			Count:          1,
			XRange:         0.008,
			XDisplayOrigin: -0.0005,
			XIncrement:     1e-6,
			XOrigin:        -0.0005,
			XUnits:         uint32(UnitSeconds),
			YUnits:         uint32(UnitVolts),
			Date:           "29-08-2026",
			Time:           "12:34:56",
			Model:          "DSO-X 3024A:MY1234",
			SubHeaderSize:  wfmHeaderSize,
			BufferType:     1,
			BytesPerPoint:  bytesPerSample,
			BufferSize:     uint64(nPts) * bytesPerSample,
		},
		Channels: make([]ChannelRecord, nChannels),
	}

	for chID := 0; chID < nChannels; chID++ {
		samples := make([]float32, nPts)
		for i := range samples {
			samples[i] = float32(chID*1000 + i)
		}
		f.Channels[chID] = ChannelRecord{
			Unit:    UnitVolts,
			Name:    fmt.Sprintf("CHAN%d", chID+1),
			Samples: samples,
		}
	}

	return f
}

// encodeCapture round-trips a capture through WriteBIN and returns the
// raw file image for mutation tests.
func encodeCapture(t *testing.T, f *File) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "capture.bin")
	if err := WriteBIN(path, f); err != nil {
		t.Fatalf("WriteBIN failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	return data
}

func TestRoundTrip(t *testing.T) {
	want := testCapture(2, 50)
	data := encodeCapture(t, want)

	got, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if got.Header.Signature != [2]byte{'A', 'G'} {
		t.Errorf("signature = %q", got.Header.Signature[:])
	}
	if got.Header.NWaveforms != 2 {
		t.Errorf("NWaveforms = %d, want 2", got.Header.NWaveforms)
	}
	if got.Header.FileSize != uint64(len(data)) {
		t.Errorf("FileSize = %d, want %d", got.Header.FileSize, len(data))
	}
	if got.VersionWarning != "" {
		t.Errorf("unexpected version warning: %s", got.VersionWarning)
	}
	if !reflect.DeepEqual(got.Descriptor, want.Descriptor) {
		t.Errorf("descriptor mismatch:\n got %+v\nwant %+v", got.Descriptor, want.Descriptor)
	}
	if !reflect.DeepEqual(got.Channels, want.Channels) {
		t.Errorf("channels mismatch")
	}
}

func TestDecodeChannelShapes(t *testing.T) {
	for _, tc := range []struct{ n, pts int }{
		{1, 1}, {1, 100}, {2, 1000}, {4, 37},
	} {
		data := encodeCapture(t, testCapture(tc.n, tc.pts))

		f, err := Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Decode(%d ch, %d pts) failed: %v", tc.n, tc.pts, err)
		}
		if len(f.Channels) != tc.n {
			t.Errorf("got %d channels, want %d", len(f.Channels), tc.n)
		}
		for i, ch := range f.Channels {
			if len(ch.Samples) != tc.pts {
				t.Errorf("channel %d: got %d samples, want %d", i, len(ch.Samples), tc.pts)
			}
		}
	}
}

func TestParseBINFile(t *testing.T) {
	want := testCapture(1, 10)
	path := filepath.Join(t.TempDir(), "capture.bin")
	if err := WriteBIN(path, want); err != nil {
		t.Fatalf("WriteBIN failed: %v", err)
	}

	f, err := ParseBINFile(path)
	if err != nil {
		t.Fatalf("ParseBINFile failed: %v", err)
	}
	if !reflect.DeepEqual(f.Channels, want.Channels) {
		t.Errorf("channels mismatch")
	}
}

func TestParseBINFileNotFound(t *testing.T) {
	_, err := ParseBINFile(filepath.Join(t.TempDir(), "missing.bin"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

// trackingReader records the furthest byte position ever read.
type trackingReader struct {
	r       *bytes.Reader
	maxRead int64
}

func (t *trackingReader) Read(p []byte) (int, error) {
	pos, _ := t.r.Seek(0, io.SeekCurrent)
	n, err := t.r.Read(p)
	if end := pos + int64(n); end > t.maxRead {
		t.maxRead = end
	}
	return n, err
}

func (t *trackingReader) Seek(offset int64, whence int) (int64, error) {
	return t.r.Seek(offset, whence)
}

func TestBadSignature(t *testing.T) {
	for flip := 0; flip < 2; flip++ {
		data := encodeCapture(t, testCapture(1, 10))
		data[flip] ^= 0xFF

		tr := &trackingReader{r: bytes.NewReader(data)}
		_, err := Decode(tr)
		if !errors.Is(err, ErrBadSignature) {
			t.Fatalf("flip byte %d: expected ErrBadSignature, got %v", flip, err)
		}
		if tr.maxRead > 2 {
			t.Errorf("flip byte %d: read %d bytes past the signature", flip, tr.maxRead-2)
		}
	}
}

func TestVersionWarning(t *testing.T) {
	data := encodeCapture(t, testCapture(1, 10))
	data[3] = '7'

	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if f.VersionWarning == "" {
		t.Error("expected a version warning")
	}
	if len(f.Channels) != 1 || len(f.Channels[0].Samples) != 10 {
		t.Error("warning must not affect the decoded result")
	}
}

func TestTruncatedChannelData(t *testing.T) {
	data := encodeCapture(t, testCapture(2, 100))

	_, err := Decode(bytes.NewReader(data[:len(data)-1]))
	if !errors.Is(err, ErrTruncatedChannelData) {
		t.Fatalf("expected ErrTruncatedChannelData, got %v", err)
	}

	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatal("expected a *FormatError with an offset")
	}
	layout := newBlockLayout(&testCapture(2, 100).Descriptor)
	if fe.Offset != layout.dataOffset(1) {
		t.Errorf("error offset = %d, want %d", fe.Offset, layout.dataOffset(1))
	}
}

func TestTruncatedHeader(t *testing.T) {
	data := encodeCapture(t, testCapture(1, 10))

	for _, cut := range []int{1, 3, 10, 20, 100} {
		_, err := Decode(bytes.NewReader(data[:cut]))
		if !errors.Is(err, ErrTruncated) {
			t.Errorf("cut at %d: expected ErrTruncated, got %v", cut, err)
		}
	}
}

func TestUnitCodes(t *testing.T) {
	wantLabels := []string{"Unknown", "Volts", "Seconds", "Constant", "Amps", "Decibel", "Hertz"}

	for code := uint32(0); code < 8; code++ {
		data := encodeCapture(t, testCapture(1, 10))
		layout := newBlockLayout(&testCapture(1, 10).Descriptor)
		binary.LittleEndian.PutUint32(data[layout.unitOffset(0):], code)

		f, err := Decode(bytes.NewReader(data))
		if code < unitCount {
			if err != nil {
				t.Fatalf("code %d: Decode failed: %v", code, err)
			}
			if got := f.Channels[0].Unit.String(); got != wantLabels[code] {
				t.Errorf("code %d: label = %q, want %q", code, got, wantLabels[code])
			}
		} else if !errors.Is(err, ErrUnknownUnitCode) {
			t.Errorf("code %d: expected ErrUnknownUnitCode, got %v", code, err)
		}
	}
}

func TestInvalidDescriptor(t *testing.T) {
	t.Run("zero points", func(t *testing.T) {
		data := encodeCapture(t, testCapture(1, 10))
		binary.LittleEndian.PutUint32(data[fileHeaderSize+12:], 0)

		_, err := Decode(bytes.NewReader(data))
		if !errors.Is(err, ErrInvalidDescriptor) {
			t.Errorf("expected ErrInvalidDescriptor, got %v", err)
		}
	})

	t.Run("zero buffer size", func(t *testing.T) {
		data := encodeCapture(t, testCapture(1, 10))
		binary.LittleEndian.PutUint64(data[bufHeaderStart+8:], 0)

		_, err := Decode(bytes.NewReader(data))
		if !errors.Is(err, ErrInvalidDescriptor) {
			t.Errorf("expected ErrInvalidDescriptor, got %v", err)
		}
	})

	t.Run("zero channels", func(t *testing.T) {
		data := encodeCapture(t, testCapture(1, 10))
		binary.LittleEndian.PutUint32(data[12:], 0)

		_, err := Decode(bytes.NewReader(data))
		if !errors.Is(err, ErrInvalidDescriptor) {
			t.Errorf("expected ErrInvalidDescriptor, got %v", err)
		}
	})
}

func TestTimeAxis(t *testing.T) {
	data := encodeCapture(t, testCapture(2, 1000))
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	axis := f.TimeAxis()
	if len(axis) != 1000 {
		t.Fatalf("time axis has %d points, want 1000", len(axis))
	}
	if math.Abs(axis[0]-0.0005) > 1e-15 {
		t.Errorf("t[0] = %g, want 0.0005", axis[0])
	}
	if want := 0.0005 + 999e-6; math.Abs(axis[999]-want) > 1e-12 {
		t.Errorf("t[999] = %g, want %g", axis[999], want)
	}
	for k := 0; k < len(axis)-1; k++ {
		if diff := axis[k+1] - axis[k]; math.Abs(diff-1e-6) > 1e-12 {
			t.Fatalf("t[%d+1]-t[%d] = %g, want 1e-6", k, k, diff)
		}
	}
}
