package state

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// A recorded session is one JSON snapshot per line, zstd-compressed when the
// path ends in .zst.

type SessionReader struct {
	f   *os.File
	dec *zstd.Decoder
	sc  *bufio.Scanner
}

func OpenSession(path string) (*SessionReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := &SessionReader{f: f}
	var src io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("session %s: %w", path, err)
		}
		r.dec = dec
		src = dec
	}
	r.sc = bufio.NewScanner(src)
	// Snapshots with full surface pools run long; default token size is too small.
	r.sc.Buffer(make([]byte, 0, 1<<20), 64<<20)
	return r, nil
}

// Next returns the next snapshot, or io.EOF after the last one.
func (r *SessionReader) Next() (*GameState, error) {
	for r.sc.Scan() {
		line := r.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var st GameState
		if err := json.Unmarshal(line, &st); err != nil {
			return nil, fmt.Errorf("session snapshot: %w", err)
		}
		return &st, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (r *SessionReader) Close() error {
	if r.dec != nil {
		r.dec.Close()
	}
	return r.f.Close()
}

type SessionWriter struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func CreateSession(path string) (*SessionWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := &SessionWriter{f: f}
	var dst io.Writer = f
	if strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("session %s: %w", path, err)
		}
		w.enc = enc
		dst = enc
	}
	w.w = bufio.NewWriter(dst)
	return w, nil
}

func (w *SessionWriter) Write(st *GameState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

func (w *SessionWriter) Close() error {
	if err := w.w.Flush(); err != nil {
		_ = w.f.Close()
		return err
	}
	if w.enc != nil {
		if err := w.enc.Close(); err != nil {
			_ = w.f.Close()
			return err
		}
	}
	return w.f.Close()
}
