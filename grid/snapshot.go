package grid

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

var snapshotMagic = [4]byte{'R', 'G', 'A', 'E'}

// WriteSnapshot writes the grid size and raw counters to w, zstd compressed.
func WriteSnapshot(w io.Writer, g *Grid) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("zstd encode: %w", err)
	}
	bw := bufio.NewWriter(enc)
	hdr := []uint32{uint32(g.Width), uint32(g.Height)}
	if _, err := bw.Write(snapshotMagic[:]); err != nil {
		enc.Close()
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, hdr); err != nil {
		enc.Close()
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, g.Cells); err != nil {
		enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ReadSnapshot reads a grid written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Grid, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	defer dec.Close()

	var magic [4]byte
	if _, err := io.ReadFull(dec, magic[:]); err != nil {
		return nil, fmt.Errorf("snapshot header: %w", err)
	}
	if magic != snapshotMagic {
		return nil, errors.New("not a grid snapshot")
	}
	var hdr [2]uint32
	if err := binary.Read(dec, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("snapshot header: %w", err)
	}
	w, h := int(hdr[0]), int(hdr[1])
	if w <= 0 || h <= 0 || w*h > 1<<28 {
		return nil, fmt.Errorf("snapshot size %dx%d", w, h)
	}
	g := New(w, h)
	if err := binary.Read(dec, binary.LittleEndian, g.Cells); err != nil {
		return nil, fmt.Errorf("snapshot cells: %w", err)
	}
	return g, nil
}

// SaveSnapshot writes g to path, replacing any previous snapshot only once the new one is complete.
func SaveSnapshot(path string, g *Grid) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteSnapshot(tmp, g); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadSnapshot reads a snapshot file.
func LoadSnapshot(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSnapshot(bufio.NewReader(f))
}
