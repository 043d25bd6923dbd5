// Package icc interprets ICC colour profiles well enough to calibrate
// process colours for display.
//
// Only the pieces needed for CMYK output profiles are read: the header, the
// tag table and lut8/lut16 (mft1/mft2) device-to-PCS tags. The resulting
// transform is exposed as a colour.Profile.
package icc

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"
)

const (
	headerSize   = 128
	tagEntrySize = 12
	magic        = "acsp"
)

// Sentinel errors for the icc package.
var (
	// ErrInvalidProfile is returned when the data is not an ICC profile.
	ErrInvalidProfile = errors.New("icc: invalid profile")

	// ErrTagNotFound is returned when a requested tag is absent.
	ErrTagNotFound = errors.New("icc: tag not found")

	// ErrUnsupported is returned for profiles this package cannot evaluate.
	ErrUnsupported = errors.New("icc: unsupported profile")
)

// Header holds the ICC header fields this package uses.
type Header struct {
	Size       uint32
	Class      string // e.g. "prtr", "mntr"
	ColorSpace string // e.g. "CMYK", "RGB "
	PCS        string // "Lab " or "XYZ "
	Version    uint32
}

type tagEntry struct {
	offset, size uint32
}

// Profile is a parsed ICC profile. It is immutable and safe for concurrent
// use.
type Profile struct {
	data   []byte
	header Header
	tags   map[string]tagEntry
}

// Parse validates the header and tag table of data.
// The slice is retained; callers must not modify it afterwards.
func Parse(data []byte) (*Profile, error) {
	if len(data) < headerSize+4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidProfile, len(data))
	}
	if string(data[36:40]) != magic {
		return nil, fmt.Errorf("%w: missing %q signature", ErrInvalidProfile, magic)
	}

	p := &Profile{
		data: data,
		header: Header{
			Size:       binary.BigEndian.Uint32(data[0:4]),
			Version:    binary.BigEndian.Uint32(data[8:12]),
			Class:      string(data[12:16]),
			ColorSpace: string(data[16:20]),
			PCS:        string(data[20:24]),
		},
	}

	count := binary.BigEndian.Uint32(data[headerSize : headerSize+4])
	table := headerSize + 4
	if uint64(table)+uint64(count)*tagEntrySize > uint64(len(data)) {
		return nil, fmt.Errorf("%w: tag table truncated", ErrInvalidProfile)
	}

	p.tags = make(map[string]tagEntry, count)
	for i := 0; i < int(count); i++ {
		e := data[table+i*tagEntrySize:]
		sig := string(e[0:4])
		entry := tagEntry{
			offset: binary.BigEndian.Uint32(e[4:8]),
			size:   binary.BigEndian.Uint32(e[8:12]),
		}
		if uint64(entry.offset)+uint64(entry.size) > uint64(len(data)) {
			return nil, fmt.Errorf("%w: tag %q out of bounds", ErrInvalidProfile, sig)
		}
		p.tags[sig] = entry
	}
	return p, nil
}

// Load reads and parses the profile stored at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("icc: %w", err)
	}
	return Parse(data)
}

// Header returns the parsed header.
func (p *Profile) Header() Header {
	return p.header
}

// Tag returns the raw bytes of a tag.
func (p *Profile) Tag(sig string) ([]byte, bool) {
	e, ok := p.tags[sig]
	if !ok {
		return nil, false
	}
	return p.data[e.offset : e.offset+e.size], true
}

// Fingerprint identifies the profile bytes (BLAKE2b-256, hex encoded). Two
// profiles with the same fingerprint produce identical transforms, so
// calibration tables built over one can be reused for the other.
func (p *Profile) Fingerprint() string {
	sum := blake2b.Sum256(p.data)
	return hex.EncodeToString(sum[:])
}
