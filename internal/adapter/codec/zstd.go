// Package codec compresses structured log bodies for storage and restores
// them on retrieval. The stored form is a one-byte format version followed by
// a zstd frame over the canonical JSON encoding of the body.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/loghog/loghog/internal/domain"
)

const formatVersion byte = 0x01

// BodyCodec is safe for concurrent use: the zstd encoder and decoder are both
// used exclusively through their stateless *All entry points.
type BodyCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// New builds a BodyCodec with default zstd settings.
func New() (*BodyCodec, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("new zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("new zstd decoder: %w", err)
	}
	return &BodyCodec{encoder: enc, decoder: dec}, nil
}

// Compress serializes and compresses a body. A nil body is treated as the
// empty mapping, so every stored record has a decompressible body.
func (c *BodyCodec) Compress(body map[string]any) ([]byte, error) {
	if body == nil {
		body = map[string]any{}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}
	out := make([]byte, 1, len(raw)/2+1)
	out[0] = formatVersion
	return c.encoder.EncodeAll(raw, out), nil
}

// Decompress restores the original body. It fails closed with
// domain.ErrCorruptBody whenever the stored bytes cannot be turned back into
// a structurally valid mapping; partial data is never returned.
func (c *BodyCodec) Decompress(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty stored body", domain.ErrCorruptBody)
	}
	if data[0] != formatVersion {
		return nil, fmt.Errorf("%w: unknown format version %#x", domain.ErrCorruptBody, data[0])
	}
	raw, err := c.decoder.DecodeAll(data[1:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", domain.ErrCorruptBody, err)
	}
	var body map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrCorruptBody, err)
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}
