package gif

// GIF89a Image Descriptor packed byte layout, explicit masks:
// localColorTable(0x80) | interlace(0x40) | sort(0x20) | reserved(0x18) | localColorTableSizeExp(0x07)
const (
	imgBitLocalColorTable = 0x80
	imgBitInterlace       = 0x40
	imgBitSort            = 0x20
	imgBitsColorTableSize = 0x07
)

// parseImageDescriptor reads the 9-byte image descriptor (x, y, w, h,
// packed byte) and, if present, its local color table. The 0x2C block
// label byte has already been consumed by the caller.
func parseImageDescriptor(c *cursor, frameIndex int) (frameRect, colorTable, int, *DecodeError) {
	x, err := c.uint16le(frameIndex)
	if err != nil {
		return frameRect{}, nil, 0, err
	}
	y, err := c.uint16le(frameIndex)
	if err != nil {
		return frameRect{}, nil, 0, err
	}
	w, err := c.uint16le(frameIndex)
	if err != nil {
		return frameRect{}, nil, 0, err
	}
	h, err := c.uint16le(frameIndex)
	if err != nil {
		return frameRect{}, nil, 0, err
	}
	packed, err := c.byte1(frameIndex)
	if err != nil {
		return frameRect{}, nil, 0, err
	}

	if packed&imgBitInterlace != 0 {
		return frameRect{}, nil, 0, newError(KindUnsupported, c.offset(), frameIndex, "interlaced frames are unsupported")
	}
	if packed&imgBitSort != 0 {
		return frameRect{}, nil, 0, newError(KindUnsupported, c.offset(), frameIndex, "sorted color tables are unsupported")
	}

	rect := frameRect{x: int(x), y: int(y), w: int(w), h: int(h)}

	sizeExp := 0
	var local colorTable
	if packed&imgBitLocalColorTable != 0 {
		sizeExp = int(packed & imgBitsColorTableSize)
		var perr *DecodeError
		local, perr = parseColorTable(c, sizeExp, frameIndex)
		if perr != nil {
			return frameRect{}, nil, 0, perr
		}
	}

	return rect, local, sizeExp, nil
}

// collectLZWSubBlocks reads the LZW minimum code size followed by the
// sub-block chain that carries the compressed data, returning the
// concatenated bytes (an owned copy) and the minimum code size.
func collectLZWSubBlocks(c *cursor, frameIndex int) ([]byte, int, *DecodeError) {
	minCodeSize, err := c.byte1(frameIndex)
	if err != nil {
		return nil, 0, err
	}
	if minCodeSize > 12 {
		return nil, 0, newError(KindMalformed, c.offset(), frameIndex, "lzw minimum code size %d exceeds 12", minCodeSize)
	}

	// readSubBlocks already builds a freshly appended slice, so it owns its
	// backing array independent of the input buffer.
	data, err := c.readSubBlocks(frameIndex)
	if err != nil {
		return nil, 0, err
	}
	return data, int(minCodeSize), nil
}
