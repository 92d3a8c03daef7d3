// Package trace provides helpers for the fixed-width binary trace files
// consumed by the benchmarked readers.
//
// Each event record is EventWidth bytes, little-endian:
//
//	u32 timestamp | u16 id | u8 arglen | arglen bytes of arguments
//
// where the arguments are a u16 followed by a NUL-padded string.
package trace

import (
	"encoding/binary"
	"fmt"
	"io"
	mrand "math/rand"
	"os"
)

const (
	// EventWidth is the size in bytes of one event record.
	EventWidth = 22

	// MaxIDs is the number of distinct values of the u16 event id.
	MaxIDs = 1 << 16

	headerWidth = 4 + 2 + 1
	argsWidth   = EventWidth - headerWidth
)

// Info describes a trace file on disk.
type Info struct {
	Path   string
	Size   int64
	Events int64
}

// Stat reports the size of the trace file at path and the number of
// events it holds. The file content is not read.
func Stat(path string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("stat trace file: %w", err)
	}

	if fi.IsDir() {
		return Info{}, fmt.Errorf("stat trace file: %s is a directory", path)
	}

	return Info{
		Path:   path,
		Size:   fi.Size(),
		Events: EventCount(fi.Size()),
	}, nil
}

// EventCount converts a byte size to a whole number of events.
func EventCount(size int64) int64 {
	if size <= 0 {
		return 0
	}

	return size / EventWidth
}

// Config controls trace generation.
type Config struct {
	NumEvents int
	NumIDs    int
	Seed      int64
}

// Generator writes deterministic synthetic traces from a Config.
type Generator struct {
	cfg Config
	rng *mrand.Rand
}

// NewGenerator creates a Generator from the given Config.
func NewGenerator(cfg Config) *Generator {
	if cfg.NumIDs <= 0 {
		cfg.NumIDs = 16
	}

	cfg.NumIDs = min(cfg.NumIDs, MaxIDs)

	return &Generator{
		cfg: cfg,
		rng: mrand.New(mrand.NewSource(cfg.Seed)),
	}
}

// Generate writes cfg.NumEvents records to w and returns the number of
// bytes written.
func (g *Generator) Generate(w io.Writer) (int64, error) {
	var (
		rec       [EventWidth]byte
		written   int64
		timestamp uint32
	)

	for i := 0; i < g.cfg.NumEvents; i++ {
		timestamp += uint32(1 + g.rng.Intn(1000))

		binary.LittleEndian.PutUint32(rec[0:4], timestamp)
		binary.LittleEndian.PutUint16(rec[4:6], uint16(g.rng.Intn(g.cfg.NumIDs)))
		rec[6] = argsWidth
		g.fillArgs(rec[headerWidth:])

		n, err := w.Write(rec[:])
		written += int64(n)

		if err != nil {
			return written, fmt.Errorf("write event %d: %w", i, err)
		}
	}

	return written, nil
}

const argAlphabet = "abcdefghijklmnopqrstuvwxyz"

func (g *Generator) fillArgs(args []byte) {
	binary.LittleEndian.PutUint16(args[0:2], uint16(g.rng.Intn(1<<16)))

	str := args[2:]
	n := g.rng.Intn(len(str))

	for i := range str {
		if i < n {
			str[i] = argAlphabet[g.rng.Intn(len(argAlphabet))]
		} else {
			str[i] = 0
		}
	}
}

// Event is a decoded trace record.
type Event struct {
	Timestamp uint32
	ID        uint16
	Arg1      uint16
	Arg2      string
}

// Decode parses a single EventWidth-byte record.
func Decode(rec []byte) (Event, error) {
	if len(rec) != EventWidth {
		return Event{}, fmt.Errorf("decode event: got %d bytes, want %d", len(rec), EventWidth)
	}

	str := rec[headerWidth+2:]
	end := 0

	for end < len(str) && str[end] != 0 {
		end++
	}

	return Event{
		Timestamp: binary.LittleEndian.Uint32(rec[0:4]),
		ID:        binary.LittleEndian.Uint16(rec[4:6]),
		Arg1:      binary.LittleEndian.Uint16(rec[headerWidth : headerWidth+2]),
		Arg2:      string(str[:end]),
	}, nil
}
