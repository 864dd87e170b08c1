package universe

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/guyc74/stocks/internal/domain"
	"github.com/rs/zerolog"
)

// BlockDelimiter introduces every record block of the data file
const BlockDelimiter = "stock data:"

const keyValueSeparator = " = "

// Codec reads and writes the line-oriented data file:
//
//	stock data:
//	  A dividend 2018 = 4.2
//	  id = 1082379
//	  price = 1520
//
// Keys are sorted lexicographically inside a block.
type Codec struct {
	log zerolog.Logger
}

// NewCodec creates a codec
func NewCodec(log zerolog.Logger) *Codec {
	return &Codec{log: log.With().Str("component", "codec").Logger()}
}

// EncodeRecord writes one record block
func (c *Codec) EncodeRecord(w io.Writer, r *Record) error {
	lines := make(map[string]string)
	for _, k := range r.Keys() {
		v, _ := r.Attribute(k)
		lines[k.String()] = v.String()
	}
	lines[KeyID.String()] = strconv.FormatInt(int64(r.ID()), 10)
	for k, raw := range r.Extra() {
		if _, taken := lines[k]; !taken {
			lines[k] = raw
		}
	}

	keys := make([]string, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, BlockDelimiter)
	for _, k := range keys {
		fmt.Fprintf(bw, "  %s%s%s\n", k, keyValueSeparator, lines[k])
	}
	return bw.Flush()
}

// Encode writes every record of the store in id order
func (c *Codec) Encode(w io.Writer, s *Store) error {
	for _, r := range s.All() {
		if err := c.EncodeRecord(w, r); err != nil {
			return fmt.Errorf("failed to encode security %d: %w", r.ID(), err)
		}
	}
	return nil
}

// Decode reads every record block. Malformed lines are skipped, and so are
// blocks without a usable id; neither aborts the load.
func (c *Codec) Decode(rd io.Reader) (*Store, error) {
	store := NewStore()

	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var block []string
	lineNo := 0
	flush := func() {
		if len(block) > 0 {
			if r := c.decodeBlock(block); r != nil {
				store.Put(r)
			}
		}
		block = block[:0]
	}

	for scanner.Scan() {
		lineNo++
		line, ok := blockLine(scanner.Text())
		if strings.TrimSpace(line) == BlockDelimiter {
			flush()
			continue
		}
		if !ok {
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read data file at line %d: %w", lineNo, err)
	}
	flush()

	return store, nil
}

// DecodeRecord parses the lines of a single block
func (c *Codec) DecodeRecord(block string) (*Record, error) {
	var lines []string
	for _, raw := range strings.Split(block, "\n") {
		if line, ok := blockLine(raw); ok && strings.TrimSpace(line) != BlockDelimiter {
			lines = append(lines, line)
		}
	}
	r := c.decodeBlock(lines)
	if r == nil {
		return nil, fmt.Errorf("block has no valid %q line", KeyID)
	}
	return r, nil
}

// blockLine strips the indent and line ending of a data file line. Trailing
// spaces belong to the value and are kept. The second result is false for
// blank lines.
func blockLine(raw string) (string, bool) {
	line := strings.TrimLeft(strings.TrimRight(raw, "\r\n"), " \t")
	if strings.TrimSpace(line) == "" {
		return "", false
	}
	return line, true
}

// splitLine splits "key = value" at the first separator. A line ending in
// " =" carries an empty value.
func splitLine(line string) (key, value string, ok bool) {
	if key, value, ok = strings.Cut(line, keyValueSeparator); ok {
		return key, value, true
	}
	if bare, found := strings.CutSuffix(line, strings.TrimRight(keyValueSeparator, " ")); found && bare != "" {
		return bare, "", true
	}
	return "", "", false
}

func (c *Codec) decodeBlock(lines []string) *Record {
	pairs := make([][2]string, 0, len(lines))
	var rawID string
	for _, line := range lines {
		key, value, ok := splitLine(line)
		if !ok {
			c.log.Warn().Str("line", line).Msg("Skipping malformed line")
			continue
		}
		if key == KeyID.String() {
			rawID = strings.TrimSpace(value)
			continue
		}
		pairs = append(pairs, [2]string{key, value})
	}

	id, err := parseID(rawID)
	if err != nil {
		c.log.Warn().Err(err).Int("lines", len(lines)).Msg("Skipping block without a valid id")
		return nil
	}

	r := NewRecord(id)
	for _, p := range pairs {
		k, known := ParseKey(p[0])
		if !known {
			r.SetExtra(p[0], p[1])
			continue
		}
		v, err := ParseValue(k, p[1])
		if err != nil {
			c.log.Warn().Err(err).Int64("id", int64(id)).Msg("Skipping malformed value")
			continue
		}
		if err := r.SetAttribute(k, v); err != nil {
			c.log.Warn().Err(err).Int64("id", int64(id)).Msg("Skipping attribute")
		}
	}
	return r
}

func parseID(raw string) (domain.SecurityID, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing id")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", raw, err)
	}
	return domain.SecurityID(id), nil
}

// ReadFile decodes the data file at path. A missing file is returned as an
// error wrapping os.ErrNotExist so callers can start from an empty store.
func (c *Codec) ReadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	store, err := c.Decode(f)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("path", path).Int("securities", store.Len()).Msg("Loaded data file")
	return store, nil
}

// WriteFile encodes the store to path, replacing the file atomically
func (c *Codec) WriteFile(path string, s *Store) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary data file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := c.Encode(tmp, s); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}

	c.log.Debug().Str("path", path).Int("securities", s.Len()).Msg("Wrote data file")
	return nil
}
