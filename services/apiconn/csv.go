package apiconn

import (
	"bytes"
	"strconv"

	"trafficdots-go/errcode"
	"trafficdots-go/types"
	"trafficdots-go/x/circbuf"
	"trafficdots-go/x/mathx"
)

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

func skipSpace(b []byte) []byte {
	for len(b) > 0 && isSpace(b[0]) {
		b = b[1:]
	}
	return b
}

// ParseMetadata splits an addendum's first block into the next file name
// and the data that follows it. found is false when the block carries no
// metadata header, in which case data is the whole block. An empty header
// ({}) yields found with an empty name.
func ParseMetadata(block []byte) (next string, data []byte, found bool, err error) {
	b := skipSpace(block)
	if len(b) == 0 || b[0] != '{' {
		return "", block, false, nil
	}
	end := bytes.IndexByte(b, '}')
	if end < 0 {
		return "", nil, true, errcode.New(errcode.MalformedMetadata, "apiconn.metadata", "no closing brace")
	}
	name := b[1:end]
	if len(name) > MaxAddendumPath {
		return "", nil, true, errcode.New(errcode.MalformedMetadata, "apiconn.metadata", "name too long")
	}
	if bytes.ContainsAny(name, "{\n\r") {
		return "", nil, true, errcode.New(errcode.MalformedMetadata, "apiconn.metadata", "bad name")
	}
	return string(bytes.TrimSpace(name)), skipSpace(b[end+1:]), true, nil
}

// NextCSVRow parses the row following the buffer's mark. The mark is parked
// on the newline ending the previous row and is advanced to the newline
// ending this one. Blank lines are skipped.
//
// It returns errcode.InvalidResponse with the row for error-type (-1) rows,
// errcode.NotFound when no complete row is stored yet and errcode.Fail on a
// format violation.
func NextCSVRow(buf *circbuf.Buffer, scratch []byte) (types.LEDData, error) {
	n, err := buf.ReadFromMark(scratch, len(scratch)-1)
	if err != nil {
		return types.LEDData{}, err
	}
	i := 0
	for i < n && (scratch[i] == '\n' || scratch[i] == '\r') {
		i++
	}
	nl := bytes.IndexByte(scratch[i:n], '\n')
	if nl < 0 {
		return types.LEDData{}, errcode.NotFound
	}
	nl += i
	if err := buf.Mark(nl, circbuf.FromPrevMark); err != nil {
		return types.LEDData{}, err
	}
	return parseRow(bytes.TrimSuffix(scratch[i:nl], []byte{'\r'}))
}

func parseRow(line []byte) (types.LEDData, error) {
	comma := bytes.IndexByte(line, ',')
	if comma < 0 {
		return types.LEDData{}, errcode.New(errcode.Fail, "apiconn.row", "missing comma")
	}
	if bytes.IndexByte(line[comma+1:], ',') >= 0 {
		return types.LEDData{}, errcode.New(errcode.Fail, "apiconn.row", "extra comma")
	}
	led, err := strconv.ParseInt(string(line[:comma]), 10, 32)
	if err != nil || led < 1 {
		return types.LEDData{}, errcode.New(errcode.Fail, "apiconn.row", "bad led number "+strconv.Quote(string(line[:comma])))
	}
	speed, err := strconv.ParseInt(string(line[comma+1:]), 10, 32)
	if err != nil || speed < int64(types.SpeedSpecial) {
		return types.LEDData{}, errcode.New(errcode.Fail, "apiconn.row", "bad speed "+strconv.Quote(string(line[comma+1:])))
	}
	d := types.LEDData{
		// Numbers past the widest table are still reported as out of range.
		LEDNum: uint16(mathx.Min(led, 0xFFFF)),
		Speed:  int32(speed),
	}
	if d.Speed == types.SpeedErrLED {
		return d, errcode.InvalidResponse
	}
	return d, nil
}
