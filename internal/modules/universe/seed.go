package universe

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/guyc74/stocks/internal/domain"
)

// SeedEntry is one line of a universe seed list
type SeedEntry struct {
	Name string
	ID   domain.SecurityID
}

// ReadSeed parses "name,id" lines listing the securities of the universe
func ReadSeed(r io.Reader) ([]SeedEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var entries []SeedEntry
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read seed list: %w", err)
		}

		id, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
		if err != nil {
			line, _ := cr.FieldPos(1)
			return nil, fmt.Errorf("invalid security id %q on line %d: %w", fields[1], line, err)
		}
		entries = append(entries, SeedEntry{
			Name: strings.TrimSpace(fields[0]),
			ID:   domain.SecurityID(id),
		})
	}
	return entries, nil
}

// Seed creates a record per entry and sets its name.
// Records that already exist keep their history; only the name is updated.
func (s *Store) Seed(entries []SeedEntry) int {
	created := 0
	for _, e := range entries {
		if _, ok := s.records[e.ID]; !ok {
			created++
		}
		s.GetOrCreate(e.ID).SetName(e.Name)
	}
	return created
}
