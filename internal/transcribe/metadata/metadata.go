// Package metadata reads recording metadata out of M4A audio files.
package metadata

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"time"
)

// ErrInvalidFormat indicates the file is not a valid M4A/MP4 container.
var ErrInvalidFormat = errors.New("invalid M4A format")

// Info holds the metadata extracted from a recording.
type Info struct {
	CreatedAt time.Time
	Duration  time.Duration
}

// MP4 times count seconds from 1904-01-01 rather than the Unix epoch.
var macEpoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)

var compatibleBrands = map[string]bool{
	"M4A ": true,
	"mp41": true,
	"mp42": true,
	"isom": true,
}

// ReadM4A extracts creation time and duration from an M4A file. The
// container is a sequence of size-prefixed boxes; the ftyp box
// identifies the format and the moov/mvhd box carries the times.
func ReadM4A(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info := &Info{}
	var sawFtyp, sawMvhd bool

	for {
		size, typ, err := readBoxHeader(f)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch typ {
		case "ftyp":
			brand := make([]byte, 4)
			if _, err := io.ReadFull(f, brand); err != nil {
				return nil, err
			}
			if !compatibleBrands[string(brand)] {
				return nil, ErrInvalidFormat
			}
			if err := skip(f, size-12); err != nil {
				return nil, err
			}
			sawFtyp = true
		case "moov":
			ok, err := parseMoov(f, size-8, info)
			if err != nil {
				return nil, err
			}
			sawMvhd = sawMvhd || ok
		default:
			if err := skip(f, size-8); err != nil {
				return nil, err
			}
		}
	}

	if !sawFtyp || !sawMvhd {
		return nil, ErrInvalidFormat
	}
	return info, nil
}

func readBoxHeader(r io.Reader) (uint32, string, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return 0, "", io.EOF
		}
		return 0, "", err
	}
	size := binary.BigEndian.Uint32(hdr[0:4])
	if size < 8 {
		return 0, "", ErrInvalidFormat
	}
	return size, string(hdr[4:8]), nil
}

func skip(r io.Seeker, n uint32) error {
	if n == 0 {
		return nil
	}
	_, err := r.Seek(int64(n), io.SeekCurrent)
	return err
}

// parseMoov walks the movie box looking for mvhd. It reports whether an
// mvhd box was found.
func parseMoov(r io.ReadSeeker, remaining uint32, info *Info) (bool, error) {
	end, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return false, err
	}
	end += int64(remaining)

	found := false
	for {
		pos, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return false, err
		}
		if pos >= end {
			break
		}

		size, typ, err := readBoxHeader(r)
		if err != nil {
			return false, err
		}
		if typ == "mvhd" {
			if err := parseMvhd(r, size-8, info); err != nil {
				return false, err
			}
			found = true
			continue
		}
		if err := skip(r, size-8); err != nil {
			return false, err
		}
	}
	return found, nil
}

func parseMvhd(r io.ReadSeeker, remaining uint32, info *Info) error {
	body := make([]byte, remaining)
	if _, err := io.ReadFull(r, body); err != nil {
		return err
	}

	version := body[0]
	switch version {
	case 0:
		// version/flags(4) created(4) modified(4) timescale(4) duration(4)
		if len(body) < 20 {
			return ErrInvalidFormat
		}
		created := binary.BigEndian.Uint32(body[4:8])
		timescale := binary.BigEndian.Uint32(body[12:16])
		duration := binary.BigEndian.Uint32(body[16:20])
		info.CreatedAt = macEpoch.Add(time.Duration(created) * time.Second)
		if timescale > 0 {
			info.Duration = time.Duration(duration) * time.Second / time.Duration(timescale)
		}
	case 1:
		// version/flags(4) created(8) modified(8) timescale(4) duration(8)
		if len(body) < 32 {
			return ErrInvalidFormat
		}
		created := binary.BigEndian.Uint64(body[4:12])
		timescale := binary.BigEndian.Uint32(body[20:24])
		duration := binary.BigEndian.Uint64(body[24:32])
		info.CreatedAt = macEpoch.Add(time.Duration(created) * time.Second)
		if timescale > 0 {
			info.Duration = time.Duration(duration) * time.Second / time.Duration(timescale)
		}
	default:
		return ErrInvalidFormat
	}
	return nil
}
