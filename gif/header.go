package gif

// GIF89a Logical Screen Descriptor packed byte bit layout, LSB -> MSB:
// colorTableSizeExp(3) | sortFlag(1) | colorResolution(3) | hasGlobalColorTable(1)
const (
	screenBitsColorTableSize = 0x07
	screenBitGlobalTable     = 0x80
)

// parseHeader reads the 13-byte GIF header (signature, version, width,
// height, packed screen descriptor, background index, aspect ratio) and,
// if present, the global color table that immediately follows it.
func parseHeader(c *cursor) (logicalScreen, colorTable, *DecodeError) {
	sig, err := c.bytesN(6, -1)
	if err != nil {
		return logicalScreen{}, nil, err
	}
	sigStr := string(sig)
	if sigStr != "GIF87a" && sigStr != "GIF89a" {
		return logicalScreen{}, nil, newError(KindMalformed, 0, -1, "not a GIF: signature %q", sigStr)
	}

	width, err := c.uint16le(-1)
	if err != nil {
		return logicalScreen{}, nil, err
	}
	height, err := c.uint16le(-1)
	if err != nil {
		return logicalScreen{}, nil, err
	}

	packed, err := c.byte1(-1)
	if err != nil {
		return logicalScreen{}, nil, err
	}
	bgIdx, err := c.byte1(-1)
	if err != nil {
		return logicalScreen{}, nil, err
	}
	if _, err := c.byte1(-1); err != nil { // pixel aspect ratio, ignored
		return logicalScreen{}, nil, err
	}

	screen := logicalScreen{
		width:               int(width),
		height:              int(height),
		backgroundColorIdx:  bgIdx,
		hasGlobalColorTable: packed&screenBitGlobalTable != 0,
		globalColorTableExp: int(packed & screenBitsColorTableSize),
	}

	var global colorTable
	if screen.hasGlobalColorTable {
		var perr *DecodeError
		global, perr = parseColorTable(c, screen.globalColorTableExp, -1)
		if perr != nil {
			return logicalScreen{}, nil, perr
		}
	}

	return screen, global, nil
}

// parseColorTable reads 2^(sizeExp+1) RGB triplets and copies them into an
// owned colorTable (the input buffer is borrowed and not retained).
func parseColorTable(c *cursor, sizeExp, frameIndex int) (colorTable, *DecodeError) {
	n := 1 << uint(sizeExp+1)
	raw, err := c.bytesN(n*3, frameIndex)
	if err != nil {
		return nil, err
	}
	table := make(colorTable, n)
	for i := 0; i < n; i++ {
		table[i] = color{r: raw[i*3], g: raw[i*3+1], b: raw[i*3+2]}
	}
	return table, nil
}
