package agbin

import "testing"

func TestBlockLayoutOffsets(t *testing.T) {
	desc := CaptureDescriptor{
		SubHeaderSize: 140,
		BufferSize:    4000, // 1000 points * 4 bytes
	}
	layout := newBlockLayout(&desc)

	// Channel 0 sits right after the 16-byte file header; each further
	// channel is one fixed sub-header plus one payload later.
	tests := []struct {
		index      int
		unit, name int64
		data       int64
	}{
		{0, 68, 128, 172},
		{1, 68 + 4156, 128 + 4156, 172 + 4156},
		{2, 68 + 2*4156, 128 + 2*4156, 172 + 2*4156},
	}

	for _, tc := range tests {
		if got := layout.unitOffset(tc.index); got != tc.unit {
			t.Errorf("unitOffset(%d) = %d, want %d", tc.index, got, tc.unit)
		}
		if got := layout.nameOffset(tc.index); got != tc.name {
			t.Errorf("nameOffset(%d) = %d, want %d", tc.index, got, tc.name)
		}
		if got := layout.dataOffset(tc.index); got != tc.data {
			t.Errorf("dataOffset(%d) = %d, want %d", tc.index, got, tc.data)
		}
	}
}

func TestBlockLayoutFollowsSubHeaderSize(t *testing.T) {
	// The stride comes from the descriptor, not from a constant.
	desc := CaptureDescriptor{
		SubHeaderSize: 160,
		BufferSize:    100,
	}
	layout := newBlockLayout(&desc)

	if got := layout.dataOffset(0); got != 16+160+bufHeaderSize {
		t.Errorf("dataOffset(0) = %d, want %d", got, 16+160+bufHeaderSize)
	}
	if got := layout.unitOffset(1) - layout.unitOffset(0); got != 160+bufHeaderSize+100 {
		t.Errorf("block stride = %d, want %d", got, 160+bufHeaderSize+100)
	}
}
