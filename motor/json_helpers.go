package motor

import (
	"encoding/json"
	"io"
)

// HARDecoder is the subset of a streaming JSON decoder the loader needs.
// to swap to another decoder: implement HARDecoder, update newHARDecoder()
type HARDecoder interface {
	Token() (json.Token, error)
	Decode(v any) error
	More() bool
	InputOffset() int64
}

// StdlibDecoder wraps encoding/json.Decoder to implement HARDecoder
type StdlibDecoder struct {
	decoder *json.Decoder
}

func (s *StdlibDecoder) Token() (json.Token, error) {
	return s.decoder.Token()
}

func (s *StdlibDecoder) Decode(v any) error {
	return s.decoder.Decode(v)
}

func (s *StdlibDecoder) More() bool {
	return s.decoder.More()
}

func (s *StdlibDecoder) InputOffset() int64 {
	return s.decoder.InputOffset()
}

func newHARDecoder(r io.Reader) HARDecoder {
	return &StdlibDecoder{decoder: json.NewDecoder(r)}
}
