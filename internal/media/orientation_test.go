package media

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"testing"
)

// tiffWithOrientation builds a minimal little-endian TIFF blob whose
// only IFD entry is the orientation tag.
func tiffWithOrientation(orientation uint16) []byte {
	var buf bytes.Buffer
	// Header: byte order, magic, IFD offset
	buf.WriteString("II")
	binary.Write(&buf, binary.LittleEndian, uint16(42))
	binary.Write(&buf, binary.LittleEndian, uint32(8))
	// One IFD entry: the orientation tag as a SHORT
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(0x0112))
	binary.Write(&buf, binary.LittleEndian, uint16(3))
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, uint32(orientation))
	// No next IFD
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	return buf.Bytes()
}

// jpegWithOrientation splices an Exif APP1 segment carrying the given
// orientation into a freshly encoded JPEG.
func jpegWithOrientation(t *testing.T, width, height int, orientation uint16) []byte {
	t.Helper()

	plain := encodeJPEG(t, width, height)
	if len(plain) < 2 || plain[0] != 0xFF || plain[1] != 0xD8 {
		t.Fatal("encoded JPEG does not start with SOI")
	}

	tiff := tiffWithOrientation(orientation)
	payload := append([]byte("Exif\x00\x00"), tiff...)

	var buf bytes.Buffer
	buf.Write(plain[:2]) // SOI
	buf.WriteByte(0xFF)
	buf.WriteByte(0xE1) // APP1
	binary.Write(&buf, binary.BigEndian, uint16(len(payload)+2))
	buf.Write(payload)
	buf.Write(plain[2:])
	return buf.Bytes()
}

func TestReadOrientation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		ext  string
		want int
	}{
		{"non-jpeg family ignored", tiffWithOrientation(6), "png", 1},
		{"plain jpeg without exif", nil, "jpg", 1},
		{"garbage bytes", []byte("garbage"), "jpg", 1},
		{"raw tiff orientation 6", tiffWithOrientation(6), "jpg", 6},
		{"raw tiff orientation 8", tiffWithOrientation(8), "jpeg", 8},
		{"out of range clamps to identity", tiffWithOrientation(9), "jpg", 1},
		{"zero clamps to identity", tiffWithOrientation(0), "jpg", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := tt.data
			if data == nil {
				data = encodeJPEG(t, 4, 4)
			}
			if got := ReadOrientation(data, tt.ext); got != tt.want {
				t.Errorf("ReadOrientation() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReadOrientationFromJPEGSegment(t *testing.T) {
	t.Parallel()

	data := jpegWithOrientation(t, 4, 2, 6)
	if got := ReadOrientation(data, "jpg"); got != 6 {
		t.Errorf("ReadOrientation() = %d, want 6", got)
	}
}

func TestApplyOrientationDimensions(t *testing.T) {
	t.Parallel()

	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))

	tests := []struct {
		orientation int
		wantW       int
		wantH       int
	}{
		{1, 4, 2},
		{2, 4, 2},
		{3, 4, 2},
		{4, 4, 2},
		{5, 2, 4},
		{6, 2, 4},
		{7, 2, 4},
		{8, 2, 4},
		{0, 4, 2},
		{9, 4, 2},
	}

	for _, tt := range tests {
		got := ApplyOrientation(src, tt.orientation).Bounds()
		if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
			t.Errorf("orientation %d: dimensions = %dx%d, want %dx%d",
				tt.orientation, got.Dx(), got.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestApplyOrientationSixRotatesClockwise(t *testing.T) {
	t.Parallel()

	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	red := color.NRGBA{R: 255, A: 255}
	src.SetNRGBA(0, 0, red)

	dst := ApplyOrientation(src, 6)

	// The top-left pixel must land in the top-right corner.
	got := color.NRGBAModel.Convert(dst.At(dst.Bounds().Dx()-1, 0)).(color.NRGBA)
	if got != red {
		t.Errorf("pixel at top-right = %+v, want %+v", got, red)
	}
}

func TestNormalizeUprightsRotatedJPEG(t *testing.T) {
	t.Parallel()

	data := jpegWithOrientation(t, 4, 2, 6)

	img, err := Decode(data, "jpg")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	upright := Normalize(img, data, "jpg")
	if got := upright.Bounds(); got.Dx() != 2 || got.Dy() != 4 {
		t.Errorf("normalized dimensions = %dx%d, want 2x4", got.Dx(), got.Dy())
	}
}
