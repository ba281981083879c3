package motor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pb33f/harscope/motor/model"
)

// CaptureSet is every capture decoded from one file, plus the fingerprint of
// the bytes they came from.
type CaptureSet struct {
	FilePath string           `json:"filePath"`
	FileSize int64            `json:"fileSize"`
	FileHash string           `json:"fileHash"`
	Captures []*model.Capture `json:"-"`
	LoadTime time.Duration    `json:"loadTime"`
}

// TotalEntries counts the entries of every capture in the set.
func (s *CaptureSet) TotalEntries() int {
	total := 0
	for _, c := range s.Captures {
		total += len(c.Log.Entries)
	}
	return total
}

// Capture returns the capture at index, or an error when there is none.
func (s *CaptureSet) Capture(index int) (*model.Capture, error) {
	if index < 0 || index >= len(s.Captures) {
		return nil, fmt.Errorf("capture %d out of range [0, %d)", index, len(s.Captures))
	}
	return s.Captures[index], nil
}

// LoadCaptures reads a HAR file holding either one capture or an array of them.
func LoadCaptures(ctx context.Context, filePath string) (*CaptureSet, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a har file", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	set, err := DecodeCaptures(file)
	if err != nil {
		return nil, err
	}
	set.FilePath = filePath
	return set, nil
}

// DecodeCaptures decodes captures from a reader, hashing the bytes as it goes.
func DecodeCaptures(reader io.Reader) (*CaptureSet, error) {
	startTime := time.Now()

	counting := &byteCountingReader{
		reader: reader,
		hash:   xxhash.New(),
	}

	content, err := io.ReadAll(counting)
	if err != nil {
		return nil, fmt.Errorf("failed to read har file: %w", err)
	}

	captures, err := parseCaptures(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse har file: %w", err)
	}

	return &CaptureSet{
		FileSize: counting.count,
		FileHash: fmt.Sprintf("%016x", counting.hash.Sum64()),
		Captures: captures,
		LoadTime: time.Since(startTime),
	}, nil
}

func parseCaptures(content []byte) ([]*model.Capture, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, errors.New("file is empty")
	}

	switch trimmed[0] {
	case '{':
		var capture model.Capture
		if err := json.Unmarshal(trimmed, &capture); err != nil {
			return nil, err
		}
		return []*model.Capture{&capture}, nil
	case '[':
		return parseCaptureArray(newHARDecoder(bytes.NewReader(trimmed)))
	default:
		return nil, fmt.Errorf("expected a json object or array, got %q", trimmed[0])
	}
}

func parseCaptureArray(decoder HARDecoder) ([]*model.Capture, error) {
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}

	captures := make([]*model.Capture, 0)
	for decoder.More() {
		offset := decoder.InputOffset()
		var capture model.Capture
		if err := decoder.Decode(&capture); err != nil {
			return nil, fmt.Errorf("capture %d at offset %d: %w", len(captures), offset, err)
		}
		captures = append(captures, &capture)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	return captures, nil
}

type byteCountingReader struct {
	reader io.Reader
	hash   *xxhash.Digest
	count  int64
}

func (r *byteCountingReader) Read(p []byte) (n int, err error) {
	n, err = r.reader.Read(p)
	if n > 0 {
		r.count += int64(n)
		if r.hash != nil {
			r.hash.Write(p[:n])
		}
	}
	return n, err
}
