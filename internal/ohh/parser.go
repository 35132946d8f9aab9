package ohh

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ChunkDelimiter separates hands in an OHH export.
const ChunkDelimiter = "\n\n"

const previewRunes = 200

// ErrNoValidHands is returned when no chunk of the input decodes to a hand.
var ErrNoValidHands = errors.New("no valid hands could be parsed. please check your file format")

// ChunkError describes a chunk that decoded neither as a container nor as a
// single hand.
type ChunkError struct {
	Index        int
	Preview      string
	ContainerErr error
	HandErr      error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: failed to parse (container: %v, hand: %v)", e.Index, e.ContainerErr, e.HandErr)
}

func (e *ChunkError) Unwrap() []error {
	return []error{e.ContainerErr, e.HandErr}
}

// Result is the outcome of scanning an input: every decoded hand in input
// order plus one entry per rejected chunk.
type Result struct {
	Hands    []HandRecord
	Failures []*ChunkError
	Chunks   int
}

// Parser splits OHH text into chunks and decodes them.
type Parser struct {
	logger zerolog.Logger
}

// NewParser creates a parser that reports chunk-level diagnostics to logger.
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse decodes every hand in text using a parser with logging disabled.
func Parse(text string) ([]HandRecord, error) {
	return NewParser(zerolog.Nop()).Parse(text)
}

// Parse decodes every hand in text. Malformed chunks are skipped; the call
// only fails when nothing decodes.
func (p *Parser) Parse(text string) ([]HandRecord, error) {
	res := p.ParseDetailed(text)
	if len(res.Hands) == 0 {
		return nil, ErrNoValidHands
	}
	return res.Hands, nil
}

// ParseDetailed scans text and returns decoded hands along with the
// failures encountered. It never fails as a whole.
func (p *Parser) ParseDetailed(text string) Result {
	p.logger.Debug().Int("bytes", len(text)).Msg("parsing OHH input")

	text = strings.ReplaceAll(text, "\r\n", "\n")
	chunks := strings.Split(text, ChunkDelimiter)
	res := Result{Chunks: len(chunks)}

	for idx, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		hands, containerErr := decodeContainer([]byte(chunk))
		if containerErr == nil {
			p.logger.Debug().Int("chunk", idx).Int("hands", len(hands)).Msg("parsed container chunk")
			res.Hands = append(res.Hands, hands...)
			continue
		}

		hand, handErr := decodeHand([]byte(chunk))
		if handErr == nil {
			p.logger.Debug().Int("chunk", idx).Str("game_number", hand.GameNumber).Msg("parsed hand chunk")
			res.Hands = append(res.Hands, hand)
			continue
		}

		failure := &ChunkError{
			Index:        idx,
			Preview:      preview(chunk),
			ContainerErr: containerErr,
			HandErr:      handErr,
		}
		p.logger.Warn().
			Int("chunk", idx).
			AnErr("container_err", containerErr).
			AnErr("hand_err", handErr).
			Str("preview", failure.Preview).
			Msg("skipping unparsable chunk")
		res.Failures = append(res.Failures, failure)
	}

	p.logger.Debug().
		Int("chunks", res.Chunks).
		Int("hands", len(res.Hands)).
		Int("failures", len(res.Failures)).
		Msg("finished parsing OHH input")
	return res
}

// container is the wrapper shape: "ohh" holds one hand or a list of hands,
// "hands" holds a list.
type container struct {
	OHH   json.RawMessage   `json:"ohh"`
	Hands []json.RawMessage `json:"hands"`
}

func decodeContainer(data []byte) ([]HandRecord, error) {
	var c container
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}

	var raws []json.RawMessage
	switch body := bytes.TrimSpace(c.OHH); {
	case len(body) == 0 || bytes.Equal(body, []byte("null")):
	case body[0] == '[':
		if err := json.Unmarshal(body, &raws); err != nil {
			return nil, fmt.Errorf("ohh list: %w", err)
		}
	default:
		raws = append(raws, body)
	}
	raws = append(raws, c.Hands...)

	if len(raws) == 0 {
		return nil, errors.New("missing \"ohh\" or \"hands\" key")
	}

	hands := make([]HandRecord, 0, len(raws))
	for i, raw := range raws {
		hand, err := decodeHand(raw)
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i, err)
		}
		hands = append(hands, hand)
	}
	return hands, nil
}

func decodeHand(data []byte) (HandRecord, error) {
	if err := ValidateShape(data); err != nil {
		return HandRecord{}, err
	}
	var hand HandRecord
	if err := json.Unmarshal(data, &hand); err != nil {
		return HandRecord{}, err
	}
	return hand, nil
}

func preview(chunk string) string {
	runes := []rune(chunk)
	if len(runes) > previewRunes {
		runes = runes[:previewRunes]
	}
	return string(runes)
}
