// Package source discovers and parses claim and payment export files.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/claimtrack/internal/model"
)

// ParseResult holds the output of parsing a single file. Only the slice
// matching the file's Kind is populated.
type ParseResult struct {
	File        DiscoveredFile
	Claims      []model.ClaimEvent
	Payments    []model.PaymentEvent
	ParseErrors int // malformed JSONL lines skipped
	Err         error
}

// Events returns the number of decoded events.
func (r ParseResult) Events() int {
	return len(r.Claims) + len(r.Payments)
}

// ParseFile reads df and decodes its events. JSON arrays must decode as a
// whole; JSONL files skip malformed lines and count them in ParseErrors.
func ParseFile(df DiscoveredFile) ParseResult {
	result := ParseResult{File: df}

	f, err := os.Open(df.Path)
	if err != nil {
		result.Err = err
		return result
	}
	defer func() { _ = f.Close() }()

	br := bufio.NewReaderSize(f, 64*1024)
	format := df.Format
	if format == "" {
		format = sniffFormat(br)
	}

	switch format {
	case FormatJSON:
		result.Err = decodeArray(br, df.Kind, &result)
	case FormatJSONL:
		result.Err = decodeLines(br, df.Kind, &result)
	default:
		result.Err = fmt.Errorf("unsupported format %q", format)
	}
	if result.Err != nil {
		result.Err = fmt.Errorf("%s: %w", df.Path, result.Err)
	}
	return result
}

// sniffFormat peeks at the first non-space byte: '[' means a JSON array,
// anything else is treated as JSONL.
func sniffFormat(br *bufio.Reader) Format {
	for n := 1; ; n++ {
		buf, err := br.Peek(n)
		if len(buf) < n || err != nil {
			return FormatJSONL
		}
		switch buf[n-1] {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return FormatJSON
		default:
			return FormatJSONL
		}
	}
}

func decodeArray(r io.Reader, kind Kind, result *ParseResult) error {
	dec := json.NewDecoder(r)
	switch kind {
	case KindClaims:
		var claims []model.ClaimEvent
		if err := dec.Decode(&claims); err != nil {
			return err
		}
		result.Claims = claims
	case KindPayments:
		var payments []model.PaymentEvent
		if err := dec.Decode(&payments); err != nil {
			return err
		}
		result.Payments = payments
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
	return nil
}

func decodeLines(r io.Reader, kind Kind, result *ParseResult) error {
	if kind != KindClaims && kind != KindPayments {
		return fmt.Errorf("unknown kind %q", kind)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if kind == KindClaims {
			var c model.ClaimEvent
			if err := json.Unmarshal(line, &c); err != nil {
				result.ParseErrors++
				continue
			}
			result.Claims = append(result.Claims, c)
			continue
		}

		var p model.PaymentEvent
		if err := json.Unmarshal(line, &p); err != nil {
			result.ParseErrors++
			continue
		}
		result.Payments = append(result.Payments, p)
	}
	return scanner.Err()
}
