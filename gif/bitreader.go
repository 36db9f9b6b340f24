package gif

// cursor is a linear byte reader over a borrowed buffer. It never copies
// the input; callers that need to retain bytes past the cursor's lifetime
// (local color tables, concatenated LZW sub-blocks) must copy explicitly.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) offset() int {
	return c.pos
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

// byte1 reads a single byte and advances the cursor.
func (c *cursor) byte1(frameIndex int) (byte, *DecodeError) {
	if c.remaining() < 1 {
		return 0, newError(KindMalformed, c.pos, frameIndex, "unexpected end of input")
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// uint16le reads a little-endian 16-bit field and advances the cursor.
func (c *cursor) uint16le(frameIndex int) (uint16, *DecodeError) {
	if c.remaining() < 2 {
		return 0, newError(KindMalformed, c.pos, frameIndex, "unexpected end of input reading u16")
	}
	v := uint16(c.data[c.pos]) | uint16(c.data[c.pos+1])<<8
	c.pos += 2
	return v, nil
}

// bytesN returns a borrowed slice of n bytes and advances the cursor.
// Callers that must retain the bytes should copy them.
func (c *cursor) bytesN(n, frameIndex int) ([]byte, *DecodeError) {
	if n < 0 || c.remaining() < n {
		return nil, newError(KindMalformed, c.pos, frameIndex, "unexpected end of input reading %d bytes", n)
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// skip advances the cursor by n bytes without inspecting them.
func (c *cursor) skip(n, frameIndex int) *DecodeError {
	if n < 0 || c.remaining() < n {
		return newError(KindMalformed, c.pos, frameIndex, "unexpected end of input skipping %d bytes", n)
	}
	c.pos += n
	return nil
}

// readSubBlocks concatenates a length-prefixed sub-block chain terminated
// by a zero-length sub-block, returning the concatenated bytes.
func (c *cursor) readSubBlocks(frameIndex int) ([]byte, *DecodeError) {
	var out []byte
	for {
		n, err := c.byte1(frameIndex)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return out, nil
		}
		chunk, err := c.bytesN(int(n), frameIndex)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
}

// skipSubBlocks walks a length-prefixed sub-block chain without retaining
// its contents, used for extensions this package does not interpret.
func (c *cursor) skipSubBlocks(frameIndex int) *DecodeError {
	for {
		n, err := c.byte1(frameIndex)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if err := c.skip(int(n), frameIndex); err != nil {
			return err
		}
	}
}

// bitState carries the LZW bit reader's position across sub-block
// boundaries: a partial code assembled so far, how many of its bits are
// valid, and the bit mask into the current byte. It is a value-level
// continuation, not a coroutine.
type bitState struct {
	partialCode uint16
	partialBits int
	mask        byte
	hasPartial  bool
}

// bitScanner assembles LSB-first codes of a caller-supplied width out of a
// single sub-block-concatenated byte region, resuming from a bitState
// carried in from the previous region and reporting how far it got if the
// region ends mid-code.
type bitScanner struct {
	data []byte
	pos  int
	mask byte
}

func newBitScanner(data []byte, carry bitState) *bitScanner {
	mask := carry.mask
	if mask == 0 {
		mask = 0x01
	}
	return &bitScanner{data: data, mask: mask}
}

// readCode assembles a code of width bits, LSB-first, resuming from carry
// if it holds a partial code. On success it returns the code and ok=true.
// If the region is exhausted mid-code, it returns ok=false and the caller
// should stash the returned bitState and retry on the next sub-block.
func (s *bitScanner) readCode(width int, carry bitState) (code uint16, out bitState, ok bool) {
	cur := uint16(0)
	startBit := 0
	if carry.hasPartial {
		cur = carry.partialCode
		startBit = carry.partialBits
	}

	for i := startBit; i < width; i++ {
		if s.pos >= len(s.data) {
			out = bitState{partialCode: cur, partialBits: i, mask: s.mask, hasPartial: true}
			return 0, out, false
		}
		bit := uint16(0)
		if s.data[s.pos]&s.mask != 0 {
			bit = 1
		}
		cur |= bit << uint(i)

		s.mask <<= 1
		if s.mask == 0 {
			s.mask = 0x01
			s.pos++
		}
	}

	return cur, bitState{mask: s.mask}, true
}
