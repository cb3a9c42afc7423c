package metadata

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// buildM4A assembles a minimal container with ftyp and moov/mvhd boxes.
func buildM4A(version byte, created time.Time, timescale uint32, duration uint64) []byte {
	var out []byte

	ftyp := []byte{
		0x00, 0x00, 0x00, 0x14,
		'f', 't', 'y', 'p',
		'M', '4', 'A', ' ',
		0x00, 0x00, 0x00, 0x00,
		'M', '4', 'A', ' ',
	}
	out = append(out, ftyp...)

	macSeconds := uint64(created.Sub(macEpoch).Seconds())

	var body []byte
	if version == 0 {
		body = make([]byte, 100)
		binary.BigEndian.PutUint32(body[4:8], uint32(macSeconds))
		binary.BigEndian.PutUint32(body[8:12], uint32(macSeconds))
		binary.BigEndian.PutUint32(body[12:16], timescale)
		binary.BigEndian.PutUint32(body[16:20], uint32(duration))
	} else {
		body = make([]byte, 112)
		body[0] = 1
		binary.BigEndian.PutUint64(body[4:12], macSeconds)
		binary.BigEndian.PutUint64(body[12:20], macSeconds)
		binary.BigEndian.PutUint32(body[20:24], timescale)
		binary.BigEndian.PutUint64(body[24:32], duration)
	}

	mvhd := make([]byte, 8+len(body))
	binary.BigEndian.PutUint32(mvhd[0:4], uint32(len(mvhd)))
	copy(mvhd[4:8], "mvhd")
	copy(mvhd[8:], body)

	moov := make([]byte, 8)
	binary.BigEndian.PutUint32(moov[0:4], uint32(8+len(mvhd)))
	copy(moov[4:8], "moov")

	out = append(out, moov...)
	out = append(out, mvhd...)
	return out
}

func writeM4A(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rec.m4a")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestReadM4AVersion0(t *testing.T) {
	created := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	path := writeM4A(t, buildM4A(0, created, 1000, 95000))

	info, err := ReadM4A(path)
	if err != nil {
		t.Fatalf("ReadM4A failed: %v", err)
	}
	if !info.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", info.CreatedAt, created)
	}
	if info.Duration != 95*time.Second {
		t.Errorf("Duration = %v, want 95s", info.Duration)
	}
}

func TestReadM4AVersion1(t *testing.T) {
	created := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	path := writeM4A(t, buildM4A(1, created, 600, 1800))

	info, err := ReadM4A(path)
	if err != nil {
		t.Fatalf("ReadM4A failed: %v", err)
	}
	if !info.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", info.CreatedAt, created)
	}
	if info.Duration != 3*time.Second {
		t.Errorf("Duration = %v, want 3s", info.Duration)
	}
}

func TestReadM4AInvalidBrand(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x14,
		'f', 't', 'y', 'p',
		'X', 'X', 'X', 'X',
		0x00, 0x00, 0x00, 0x00,
		'X', 'X', 'X', 'X',
	}
	path := writeM4A(t, data)

	if _, err := ReadM4A(path); err != ErrInvalidFormat {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestReadM4AMissingMoov(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x14,
		'f', 't', 'y', 'p',
		'M', '4', 'A', ' ',
		0x00, 0x00, 0x00, 0x00,
		'M', '4', 'A', ' ',
	}
	path := writeM4A(t, data)

	if _, err := ReadM4A(path); err != ErrInvalidFormat {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestReadM4ANotAFile(t *testing.T) {
	if _, err := ReadM4A(filepath.Join(t.TempDir(), "missing.m4a")); err == nil {
		t.Error("expected error for missing file")
	}
}
