// Package export writes observation records in the plain serializable shape
// consumed by the export/encryption collaborator: one JSON document per
// line, optionally zstd-compressed. Encryption of the bundle is explicitly
// the collaborator's job; nothing here is a confidentiality boundary.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"geoveil/internal/types"
)

// WriteBundle streams records to w as JSON lines. With compress set, the
// stream is zstd-framed.
func WriteBundle(w io.Writer, records []*types.ObservationRecord, compress bool) error {
	var (
		out    io.Writer = w
		finish func() error
	)
	if compress {
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("create zstd writer: %w", err)
		}
		out = zw
		finish = zw.Close
	}

	enc := json.NewEncoder(out)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record %s: %w", rec.ID, err)
		}
	}
	if finish != nil {
		return finish()
	}
	return nil
}

// ReadBundle parses a bundle previously written by WriteBundle. Records are
// validated on the way in; a bundle carrying a corrupted record fails as a
// whole rather than returning partial data.
func ReadBundle(r io.Reader, compressed bool) ([]*types.ObservationRecord, error) {
	if compressed {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("create zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	var out []*types.ObservationRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec types.ObservationRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	return out, nil
}
