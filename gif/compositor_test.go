package gif

import "testing"

func TestCompositeWritesRectIntoCanvas(t *testing.T) {
	canvas := make([]byte, 4*4*4) // 4x4 canvas, transparent black
	table := []color{{255, 0, 0}, {0, 255, 0}}
	indices := []uint16{0, 1, 1, 0} // a 2x2 block

	rect := frameRect{x: 1, y: 1, w: 2, h: 2}
	if err := composite(canvas, 4, indices, table, rect, noTransparentIndex); err != nil {
		t.Fatalf("composite: %v", err)
	}

	px := func(x, y int) (byte, byte, byte, byte) {
		p := (y*4 + x) * 4
		return canvas[p], canvas[p+1], canvas[p+2], canvas[p+3]
	}
	if r, g, b, a := px(1, 1); r != 255 || g != 0 || b != 0 || a != 255 {
		t.Fatalf("(1,1) = %d,%d,%d,%d, want red opaque", r, g, b, a)
	}
	if r, g, b, a := px(2, 1); r != 0 || g != 255 || b != 0 || a != 255 {
		t.Fatalf("(2,1) = %d,%d,%d,%d, want green opaque", r, g, b, a)
	}
	if r, g, b, a := px(0, 0); r != 0 || g != 0 || b != 0 || a != 0 {
		t.Fatalf("(0,0) outside rect = %d,%d,%d,%d, want untouched", r, g, b, a)
	}
}

func TestCompositeSkipsTransparentIndex(t *testing.T) {
	canvas := make([]byte, 2*1*4)
	canvas[0], canvas[1], canvas[2], canvas[3] = 9, 9, 9, 9 // sentinel pixel 0
	table := []color{{1, 2, 3}, {4, 5, 6}}
	indices := []uint16{0, 1}
	rect := frameRect{x: 0, y: 0, w: 2, h: 1}

	if err := composite(canvas, 2, indices, table, rect, 0); err != nil {
		t.Fatalf("composite: %v", err)
	}
	if canvas[0] != 9 || canvas[1] != 9 || canvas[2] != 9 || canvas[3] != 9 {
		t.Fatalf("transparent pixel was overwritten: %v", canvas[0:4])
	}
	if canvas[4] != 4 || canvas[5] != 5 || canvas[6] != 6 || canvas[7] != 255 {
		t.Fatalf("opaque pixel wrong: %v", canvas[4:8])
	}
}

func TestApplyDisposalClearToBackground(t *testing.T) {
	canvas := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	bg := color{r: 10, g: 20, b: 30}
	applyDisposal(canvas, 2, 1, DisposalClearToBackground, bg)
	want := []byte{10, 20, 30, 255, 10, 20, 30, 255}
	for i := range want {
		if canvas[i] != want[i] {
			t.Fatalf("got %v, want %v", canvas, want)
		}
	}
}

func TestApplyDisposalNoneLeavesCanvas(t *testing.T) {
	canvas := []byte{1, 2, 3, 4}
	orig := append([]byte{}, canvas...)
	applyDisposal(canvas, 1, 1, DisposalNone, color{})
	for i := range orig {
		if canvas[i] != orig[i] {
			t.Fatalf("DisposalNone mutated canvas: got %v, want %v", canvas, orig)
		}
	}
	applyDisposal(canvas, 1, 1, DisposalKeep, color{})
	for i := range orig {
		if canvas[i] != orig[i] {
			t.Fatalf("DisposalKeep mutated canvas: got %v, want %v", canvas, orig)
		}
	}
}
