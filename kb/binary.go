// SPDX-License-Identifier: MIT

package kb

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// IntSize is the on-disk width of every integer and float field.
const IntSize = 4

// decodeRecords splits a little-endian int32 buffer into count records of
// the given arity. len(buf) must equal count*arity*IntSize.
func decodeRecords(buf []byte, arity, count int) []Record {
	flat := make([]Constant, arity*count)
	for i := range flat {
		flat[i] = Constant(int32(binary.LittleEndian.Uint32(buf[i*IntSize:])))
	}
	records := make([]Record, count)
	for i := range records {
		records[i] = Record(flat[i*arity : (i+1)*arity : (i+1)*arity])
	}

	return records
}

// checkSize compares an actual byte length with the expected one.
func checkSize(got, want int64) error {
	switch {
	case got < want:
		return fmt.Errorf("%d bytes, want %d: %w", got, want, ErrTruncated)
	case got > want:
		return fmt.Errorf("%d bytes, want %d: %w", got, want, ErrMalformed)
	}

	return nil
}

// IntWriter buffers little-endian int32/float32 writes. The first error is
// sticky and reported by Flush.
type IntWriter struct {
	w   *bufio.Writer
	buf [IntSize]byte
	err error
}

// NewIntWriter wraps w with a buffered little-endian writer.
func NewIntWriter(w io.Writer) *IntWriter {
	return &IntWriter{w: bufio.NewWriter(w)}
}

// Int32 writes one little-endian int32.
func (iw *IntWriter) Int32(v int32) {
	if iw.err != nil {
		return
	}
	binary.LittleEndian.PutUint32(iw.buf[:], uint32(v))
	_, iw.err = iw.w.Write(iw.buf[:])
}

// Float32 writes one little-endian IEEE-754 float32.
func (iw *IntWriter) Float32(v float32) {
	iw.Int32(int32(math.Float32bits(v)))
}

// Record writes every constant of rec as int32.
func (iw *IntWriter) Record(rec Record) {
	for _, c := range rec {
		iw.Int32(int32(c))
	}
}

// Flush drains the buffer and returns the first write error, if any.
func (iw *IntWriter) Flush() error {
	if iw.err != nil {
		return iw.err
	}

	return iw.w.Flush()
}

// IntReader reads consecutive little-endian int32/float32 values. The first
// error is sticky, so callers check Err once after a batch of reads. A short
// read surfaces as ErrTruncated.
type IntReader struct {
	r   io.Reader
	buf [IntSize]byte
	err error
}

// NewIntReader wraps r with a buffered little-endian reader.
func NewIntReader(r io.Reader) *IntReader {
	return &IntReader{r: bufio.NewReader(r)}
}

// Int32 reads one little-endian int32, or returns 0 once an error occurred.
func (ir *IntReader) Int32() int32 {
	if ir.err != nil {
		return 0
	}
	if _, err := io.ReadFull(ir.r, ir.buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrTruncated
		}
		ir.err = err
		return 0
	}

	return int32(binary.LittleEndian.Uint32(ir.buf[:]))
}

// Float32 reads one little-endian IEEE-754 float32.
func (ir *IntReader) Float32() float32 {
	return math.Float32frombits(uint32(ir.Int32()))
}

// Err returns the first read error.
func (ir *IntReader) Err() error { return ir.err }

// AtEOF reports whether the underlying stream has no bytes left. It is used
// to reject trailing garbage after a fully parsed payload.
func (ir *IntReader) AtEOF() bool {
	if ir.err != nil {
		return false
	}
	var one [1]byte
	n, err := ir.r.Read(one[:])

	return n == 0 && errors.Is(err, io.EOF)
}
