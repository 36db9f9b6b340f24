package gif

// color is a 24-bit RGB triplet as stored in a GIF color table.
type color struct {
	r, g, b byte
}

// colorTable is an ordered sequence of RGB triplets, either the global
// table (owned by the decoded image) or a frame's local table.
type colorTable []color

// frameRect is a frame's sub-rectangle within the canvas.
type frameRect struct {
	x, y, w, h int
}

// logicalScreen is the GIF header's canvas description.
type logicalScreen struct {
	width, height       int
	backgroundColorIdx  byte
	hasGlobalColorTable bool
	globalColorTableExp int
}

// graphicsControl carries the disposal method, transparency, and delay
// time attached to the next image descriptor.
type graphicsControl struct {
	disposal          disposalMethod
	transparentValid  bool
	transparentIdx    byte
	delayCentiseconds uint16
}

func (g graphicsControl) transparentIndexOrNone() int {
	if g.transparentValid {
		return int(g.transparentIdx)
	}
	return noTransparentIndex
}

// rawFrame is the container parser's output for one image descriptor,
// before any payload (RGBA / index stream / compressed bytes) is attached
// by the facade layer that owns the chosen retention mode.
type rawFrame struct {
	rect               frameRect
	localColorTable    colorTable // nil if the frame uses the global table
	localColorTableExp int        // valid only when localColorTable != nil
	minCodeSize        int
	control            graphicsControl
}

func (f *rawFrame) activeColorTable(global colorTable) colorTable {
	if f.localColorTable != nil {
		return f.localColorTable
	}
	return global
}

func (f *rawFrame) activeColorTableSizeExp(globalExp int) int {
	if f.localColorTable != nil {
		return f.localColorTableExp
	}
	return globalExp
}
