// Package formats provides parsers for RSE engine asset file formats.
package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/sherman/pkg/encoding"
)

// Errors shared by all primitive reads.
var (
	ErrTruncatedData = errors.New("truncated data")
	ErrEmptyString   = errors.New("empty length-prefixed string")
)

// reader consumes a byte buffer with the little-endian primitive reads shared
// by the MAP and RSB containers. Every read carries a location label that is
// folded into the error chain on failure.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

// remaining returns the number of unread bytes.
func (rd *reader) remaining() int {
	return len(rd.data) - rd.pos
}

// sliceCap bounds a wire-declared element count by what the remaining bytes
// could hold, given the minimum encoded size of one element. Preallocations
// go through it so a corrupt count fails on the first truncated read instead
// of an oversized allocation.
func (rd *reader) sliceCap(count uint32, minElemSize int) int {
	if max := rd.remaining() / minElemSize; uint64(count) > uint64(max) {
		return max
	}
	return int(count)
}

// take consumes exactly n bytes.
func (rd *reader) take(n int, label string) ([]byte, error) {
	if rd.remaining() < n {
		return nil, fmt.Errorf("%w: reading %s", ErrTruncatedData, label)
	}
	b := rd.data[rd.pos : rd.pos+n]
	rd.pos += n
	return b, nil
}

func (rd *reader) readU8(label string) (uint8, error) {
	b, err := rd.take(1, label)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (rd *reader) readU16(label string) (uint16, error) {
	b, err := rd.take(2, label)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (rd *reader) readU32(label string) (uint32, error) {
	b, err := rd.take(4, label)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (rd *reader) readF32(label string) (float32, error) {
	bits, err := rd.readU32(label)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// readBool decodes one byte: 1 is true, any other value is false. Only a
// truncated buffer is an error.
func (rd *reader) readBool(label string) (bool, error) {
	b, err := rd.readU8(label)
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

// readString decodes a length-prefixed Latin-1 string: a 32-bit length L,
// then L bytes of which the last is a terminator and is stripped. A declared
// length below 1 is an error.
func (rd *reader) readString(label string) (string, error) {
	n, err := rd.readU32(label + " length")
	if err != nil {
		return "", err
	}
	if n < 1 {
		return "", fmt.Errorf("%w: %s", ErrEmptyString, label)
	}
	b, err := rd.take(int(n), label)
	if err != nil {
		return "", err
	}
	// Drop the terminator byte.
	return encoding.Latin1ToUTF8(b[:n-1]), nil
}

func (rd *reader) readVec3(label string) (Vec3, error) {
	var v Vec3
	var err error
	if v.X, err = rd.readF32(label + " x"); err != nil {
		return Vec3{}, err
	}
	if v.Y, err = rd.readF32(label + " y"); err != nil {
		return Vec3{}, err
	}
	if v.Z, err = rd.readF32(label + " z"); err != nil {
		return Vec3{}, err
	}
	return v, nil
}

// sectionHeader reads the long-form section header: a 32-bit byte size that
// precedes the id and name. The size is not used for bounds checking or
// skipping, the sections are always decoded in full.
func (rd *reader) sectionHeader(label string) (uint32, string, error) {
	if _, err := rd.readU32(label + " section size"); err != nil {
		return 0, "", err
	}
	return rd.sectionHeaderShort(label)
}

// sectionHeaderShort reads the (id, name) pair that precedes most MAP records.
// If the name decodes to the literal "Version", one extra 32-bit value is
// consumed and discarded and a second string replaces the name. That second
// string is the in-game map texture short name; the convention shows up on
// room and material headers alike.
func (rd *reader) sectionHeaderShort(label string) (uint32, string, error) {
	id, err := rd.readU32(label + " section id")
	if err != nil {
		return 0, "", err
	}
	name, err := rd.readString(label + " section name")
	if err != nil {
		return 0, "", err
	}
	if name == "Version" {
		if _, err := rd.readU32(label + " version number"); err != nil {
			return 0, "", err
		}
		name, err = rd.readString(label + " texture short name")
		if err != nil {
			return 0, "", err
		}
	}
	return id, name, nil
}
