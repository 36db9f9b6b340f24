package gif

// maxCodeTableRows is the hard ceiling on LZW code table size: GIF codes
// are at most 12 bits wide, so 2^12 rows is always enough for a
// well-formed stream.
const maxCodeTableRows = 4096

// maxCodeChainLength bounds the per-code chain-reconstruction buffer.
// A chain can in principle run as long as the table (maxCodeTableRows),
// so this bound sits below the theoretical maximum; overrunning it is a
// decode error rather than a silent truncation.
const maxCodeChainLength = 1024

const noPrev = -1

// codeTableRow is one entry of the LZW code table: the byte it emits when
// it is a leaf of a chain, and the row it extends (or noPrev at the root).
type codeTableRow struct {
	value byte
	prev  int
}

// codeTable is the fixed-capacity LZW dictionary. Rows
// 0..2^(colorTableSizeExp+1)-1 are the self-byte rows for the active
// color table; two reserved rows
// follow for the clear and end-of-information codes; everything past
// that is populated during decode.
type codeTable struct {
	rows        [maxCodeTableRows]codeTableRow
	count       int // number of populated rows
	codeSize    int // current code width in bits
	minCodeSize int
	clearCode   int
	eoiCode     int
}

// reset (re)initializes the table for a given LZW minimum code size and
// active color table size exponent. Called at construction and again
// whenever a clear code is read mid-stream.
func (t *codeTable) reset(minCodeSize, colorTableSizeExp int) {
	t.minCodeSize = minCodeSize
	t.codeSize = minCodeSize + 1
	t.clearCode = 1 << minCodeSize
	t.eoiCode = t.clearCode + 1
	t.count = t.clearCode + 2

	numColors := 1 << (colorTableSizeExp + 1)
	for i := 0; i < maxCodeTableRows; i++ {
		if i < numColors {
			t.rows[i] = codeTableRow{value: byte(i), prev: noPrev}
		} else {
			t.rows[i] = codeTableRow{value: 0, prev: noPrev}
		}
	}
}

// firstByte walks a chain's prev links back to its root and returns the
// root's self-byte.
func (t *codeTable) firstByte(code int) byte {
	for t.rows[code].prev != noPrev {
		code = t.rows[code].prev
	}
	return t.rows[code].value
}

// lzwDecoder holds the code table plus the decompression state that
// survives across sub-block boundaries (partial code, last-emitted code).
// It is fed successive byte regions via decode and appends emitted color
// indices to a caller-owned index stream.
type lzwDecoder struct {
	table     codeTable
	carry     bitState
	prevCode  int
	frameIdx  int
	sizeExp   int
	done      bool
	chainBuf  [maxCodeChainLength]byte
}

func newLZWDecoder(minCodeSize, colorTableSizeExp, frameIndex int) *lzwDecoder {
	d := &lzwDecoder{prevCode: noPrev, frameIdx: frameIndex, sizeExp: colorTableSizeExp}
	d.table.reset(minCodeSize, colorTableSizeExp)
	return d
}

// decode consumes one contiguous byte region (one GIF sub-block, or, as
// every caller in this package passes it, the full concatenation of a
// frame's sub-blocks) and appends decoded color indices to out. It may be called repeatedly
// across regions belonging to the same frame; a partial code at a region
// boundary is carried into the next call. Returns the (possibly grown)
// output slice.
func (d *lzwDecoder) decode(region []byte, out []uint16) ([]uint16, *DecodeError) {
	if d.done {
		return out, nil
	}

	scanner := newBitScanner(region, d.carry)

	for {
		code, next, ok := scanner.readCode(d.table.codeSize, d.carry)
		if !ok {
			d.carry = next
			return out, nil
		}
		d.carry = next
		curCode := int(code)

		switch {
		case curCode == d.table.clearCode:
			d.table.reset(d.table.minCodeSize, d.sizeExp)
			d.prevCode = noPrev
			continue

		case curCode == d.table.eoiCode:
			d.done = true
			return out, nil
		}

		if curCode > d.table.count {
			return out, newError(KindMalformed, -1, d.frameIdx,
				"lzw code %d exceeds populated code table size %d", curCode, d.table.count)
		}

		if d.prevCode != noPrev {
			if d.table.count >= maxCodeTableRows {
				return out, newError(KindCapacityExceeded, -1, d.frameIdx,
					"lzw code table exceeded %d rows", maxCodeTableRows)
			}

			rootOf := curCode
			if curCode == d.table.count {
				rootOf = d.prevCode
			}
			newIdx := d.table.count
			d.table.rows[newIdx] = codeTableRow{value: d.table.firstByte(rootOf), prev: d.prevCode}
			d.table.count++

			if d.table.count == 1<<uint(d.table.codeSize) && d.table.codeSize < 12 {
				d.table.codeSize++
			}
		}

		d.prevCode = curCode

		n := 0
		walk := curCode
		for walk != noPrev {
			if n >= maxCodeChainLength {
				return out, newError(KindCapacityExceeded, -1, d.frameIdx,
					"lzw code chain longer than %d symbols", maxCodeChainLength)
			}
			d.chainBuf[n] = d.table.rows[walk].value
			n++
			walk = d.table.rows[walk].prev
		}
		for b := n - 1; b >= 0; b-- {
			out = append(out, uint16(d.chainBuf[b]))
		}
	}
}
