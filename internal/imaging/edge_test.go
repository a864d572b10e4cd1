package imaging

import (
	"testing"
)

func TestSobel_VerticalEdge(t *testing.T) {
	// Columns 0-1 hold 10, columns 2-4 hold 0.
	rows := make([][]uint8, 5)
	for y := range rows {
		rows[y] = []uint8{10, 10, 0, 0, 0}
	}
	out := Sobel(grayBuffer(t, rows))

	// |Gx| = (1+2+1)*10 = 40 where the 3x3 window straddles the step.
	want := [][]uint8{
		{0, 0, 0, 0, 0},
		{0, 40, 40, 0, 0},
		{0, 40, 40, 0, 0},
		{0, 40, 40, 0, 0},
		{0, 0, 0, 0, 0},
	}
	for y, row := range want {
		for x, v := range row {
			r, g, b := out.RGB(x, y)
			if r != v || g != v || b != v {
				t.Errorf("(%d,%d): got (%d,%d,%d), want %d", x, y, r, g, b, v)
			}
		}
	}
}

func TestSobel_RoundsMagnitude(t *testing.T) {
	// A single bright pixel at the top-left corner of a 3x3 window gives
	// Gx = Gy = -12 at the center: sqrt(288) = 16.97.
	out := Sobel(grayBuffer(t, [][]uint8{
		{12, 0, 0},
		{0, 0, 0},
		{0, 0, 0},
	}))
	if v := out.Intensity(1, 1); v != 17 {
		t.Errorf("center: got %d, want 17", v)
	}
}

func TestSobel_Saturates(t *testing.T) {
	out := Sobel(grayBuffer(t, [][]uint8{
		{255, 0, 0},
		{255, 0, 0},
		{255, 0, 0},
	}))
	if v := out.Intensity(1, 1); v != 255 {
		t.Errorf("center: got %d, want 255", v)
	}
}

func TestSobel_UniformImage(t *testing.T) {
	out := Sobel(Fill(12, 9, 77, 77, 77))
	if !out.Equal(Fill(12, 9, 0, 0, 0)) {
		t.Error("uniform image should have no edges")
	}
}

func TestSobel_BordersStayBlack(t *testing.T) {
	// Checkerboard: strong gradients everywhere.
	rows := make([][]uint8, 8)
	for y := range rows {
		rows[y] = make([]uint8, 8)
		for x := range rows[y] {
			if (x+y)%2 == 0 {
				rows[y][x] = 255
			}
		}
	}
	out := Sobel(grayBuffer(t, rows))

	for i := 0; i < 8; i++ {
		for _, p := range [][2]int{{i, 0}, {i, 7}, {0, i}, {7, i}} {
			if v := out.Intensity(p[0], p[1]); v != 0 {
				t.Errorf("border (%d,%d): got %d, want 0", p[0], p[1], v)
			}
		}
	}
}

func TestSobel_SmallImage(t *testing.T) {
	for _, size := range [][2]int{{0, 0}, {1, 1}, {2, 5}, {5, 2}} {
		out := Sobel(Fill(size[0], size[1], 255, 255, 255))
		if out.Width() != size[0] || out.Height() != size[1] {
			t.Errorf("%v: got %dx%d", size, out.Width(), out.Height())
		}
		if !out.Equal(Fill(size[0], size[1], 0, 0, 0)) {
			t.Errorf("%v: images without interior should be all black", size)
		}
	}
}

func TestEdgeDetect_GrayscalesFirst(t *testing.T) {
	// Red (luma 60) against black: the step is 60, not R=200.
	pix := make([]uint8, 0, 5*5*3)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if x < 2 {
				pix = append(pix, 200, 0, 0)
			} else {
				pix = append(pix, 0, 0, 0)
			}
		}
	}
	src, err := NewBuffer(5, 5, FormatRGB, pix)
	if err != nil {
		t.Fatal(err)
	}

	out := EdgeDetect(src)
	if v := out.Intensity(2, 2); v != 240 {
		t.Errorf("edge: got %d, want 240", v)
	}
}
