package ota

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	"trafficdots-go/errcode"
	"trafficdots-go/types"
	"trafficdots-go/x/circbuf"
	"trafficdots-go/x/mathx"
)

// RecvBufSize is the read block of the manifest parser. The ring holds two
// blocks, which bounds the length of one key or value.
const RecvBufSize = 128

// Manifest keys.
const (
	KeyHardware = "hardware_version"
	KeyRevision = "hardware_revision"
	KeyMajor    = "firmware_major_version"
	KeyMinor    = "firmware_minor_version"
	KeyPatch    = "firmware_patch_version"
)

func malformed(msg string) error {
	return errcode.New(errcode.MalformedJSON, "ota.manifest", msg)
}

// manifestParser walks the object one formatting character ({ : , }) at a
// time. The circbuf mark always sits on the last formatting character seen,
// so the text of the current key or value is everything after it.
type manifestParser struct {
	v types.VersionInfo

	inJSON, inKey, inValue, done bool
	field                        *uint8 // nil for keys we ignore
}

// ParseManifest reads a flat JSON object of non-negative integers and
// returns the version it describes. Missing keys read as 0; unknown keys
// are skipped. Line comments start with # outside a string.
func ParseManifest(r io.Reader) (types.VersionInfo, error) {
	var p manifestParser
	buf := make([]byte, RecvBufSize)
	ring, err := circbuf.New(2 * RecvBufSize)
	if err != nil {
		return types.VersionInfo{}, err
	}

	n, err := readBlock(r, buf)
	if err != nil {
		return types.VersionInfo{}, err
	}
	if n == 0 {
		return types.VersionInfo{}, errcode.New(errcode.EmptyBody, "ota.manifest", "no data")
	}
	if err := ring.Store(buf[:n]); err != nil {
		return types.VersionInfo{}, err
	}
	if err := ring.Mark(0, circbuf.FromOldestChar); err != nil {
		return types.VersionInfo{}, err
	}
	// The scan below always skips the byte under the mark, so the first
	// byte of the stream is looked at here.
	startComment := false
	switch buf[0] {
	case '{':
		p.inJSON, p.inKey = true, true
	case '#':
		startComment = true
	case ' ', '\t', '\r', '\n':
	default:
		return types.VersionInfo{}, malformed("stray character " + strconv.QuoteRune(rune(buf[0])) + " before object")
	}

	for {
		cnt, err := ring.ReadFromMark(buf, RecvBufSize-1)
		if err != nil {
			return types.VersionInfo{}, err
		}
		tok, at, err := p.scan(buf[:cnt], startComment)
		if err != nil {
			return types.VersionInfo{}, err
		}
		if at < 0 {
			// No formatting character in view; pull the next block.
			n, err := readBlock(r, buf)
			if err != nil {
				return types.VersionInfo{}, err
			}
			if n == 0 {
				break
			}
			if err := ring.Store(buf[:n]); err != nil {
				if errcode.Is(err, errcode.LostMark) {
					return types.VersionInfo{}, malformed("field too large to parse")
				}
				return types.VersionInfo{}, err
			}
			continue
		}
		startComment = false
		if err := ring.Mark(at, circbuf.FromPrevMark); err != nil {
			return types.VersionInfo{}, err
		}
		if err := p.step(buf[at], tok); err != nil {
			return types.VersionInfo{}, err
		}
	}
	if !p.done {
		return types.VersionInfo{}, malformed("missing '}'")
	}
	return p.v, nil
}

// readBlock reads up to len(buf)-1 bytes, returning 0 at end of stream.
func readBlock(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf[:len(buf)-1])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, errcode.Wrap(errcode.NoConn, "ota.manifest", err)
	}
	return n, nil
}

// scan looks for the next formatting character after b[0]. It returns the
// token text before it with comments removed, and its index, or -1 when b
// holds none.
func (p *manifestParser) scan(b []byte, inComment bool) ([]byte, int, error) {
	var tok []byte
	inString := false
	for i := 1; i < len(b); i++ {
		c := b[i]
		switch {
		case c == '#' && !inString:
			inComment = true
			continue
		case c == '\n' && inComment:
			inComment = false
			continue
		case inComment:
			continue
		case c == '"':
			if !p.inKey {
				if p.inJSON {
					return nil, 0, malformed("string values are not supported")
				}
				return nil, 0, malformed("missing '{' or stray '\"' before object")
			}
			inString = !inString
		case c == '\\' && inString:
			return nil, 0, malformed("escape sequences are not supported")
		case inString:
		case c == '{' || c == ':' || c == ',' || c == '}':
			return tok, i, nil
		}
		tok = append(tok, c)
	}
	return nil, -1, nil
}

// step applies formatting character c, closing the token tok before it.
func (p *manifestParser) step(c byte, tok []byte) error {
	switch c {
	case '{':
		if p.inJSON || p.done {
			return malformed("misplaced '{'")
		}
		if len(bytes.TrimSpace(tok)) != 0 {
			return malformed("data before '{'")
		}
		p.inJSON, p.inKey = true, true
	case ':':
		if !p.inKey {
			return malformed("misplaced ':'")
		}
		key, err := parseKey(tok)
		if err != nil {
			return err
		}
		p.inKey, p.inValue = false, true
		p.field = p.fieldFor(key)
	case ',', '}':
		if !p.inValue {
			return malformed("misplaced " + strconv.QuoteRune(rune(c)))
		}
		p.inValue = false
		if c == '}' {
			p.inJSON, p.done = false, true
		} else {
			p.inKey = true
		}
		if p.field != nil {
			*p.field = uint8(mathx.Clamp(strtol(tok), 0, 0xFF))
		}
		p.field = nil
	}
	return nil
}

func parseKey(tok []byte) (string, error) {
	t := bytes.TrimSpace(tok)
	if len(t) < 2 || t[0] != '"' || t[len(t)-1] != '"' {
		return "", malformed("key must be a quoted string")
	}
	return string(t[1 : len(t)-1]), nil
}

func (p *manifestParser) fieldFor(key string) *uint8 {
	switch key {
	case KeyHardware:
		return &p.v.Hardware
	case KeyRevision:
		return &p.v.Revision
	case KeyMajor:
		return &p.v.Major
	case KeyMinor:
		return &p.v.Minor
	case KeyPatch:
		return &p.v.Patch
	}
	return nil
}

// strtol parses a leading signed decimal, ignoring what follows. Text
// without digits reads as 0.
func strtol(tok []byte) int64 {
	t := bytes.TrimSpace(tok)
	end := 0
	if end < len(t) && (t[end] == '-' || t[end] == '+') {
		end++
	}
	digits := end
	for end < len(t) && t[end] >= '0' && t[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	v, err := strconv.ParseInt(string(t[:end]), 10, 64)
	if err != nil {
		// Out of range; the sign decides which bound.
		if t[0] == '-' {
			return -1
		}
		return 0xFF
	}
	return v
}

// Compare classifies server against self. Builds for another board never
// qualify.
func Compare(self, server types.VersionInfo) types.UpdateType {
	if server.Hardware != self.Hardware || server.Revision != self.Revision {
		return types.UpdateNone
	}
	switch {
	case server.Major > self.Major:
		return types.UpdateMajor
	case server.Major < self.Major:
		return types.UpdateNone
	case server.Minor > self.Minor:
		return types.UpdateMinor
	case server.Minor < self.Minor:
		return types.UpdateNone
	case server.Patch > self.Patch:
		return types.UpdatePatch
	}
	return types.UpdateNone
}
