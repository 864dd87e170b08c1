package universe

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/guyc74/stocks/internal/database"
	"github.com/guyc74/stocks/internal/domain"
	"github.com/rs/zerolog"
)

const (
	capitalizationExplicit = "explicit"
	capitalizationDerived  = "derived"
)

// SecurityRepository mirrors the record store into universe.db
type SecurityRepository struct {
	universeDB *sql.DB // universe.db - securities and facts tables
	log        zerolog.Logger
}

// NewSecurityRepository creates a new security repository
func NewSecurityRepository(universeDB *sql.DB, log zerolog.Logger) *SecurityRepository {
	return &SecurityRepository{
		universeDB: universeDB,
		log:        log.With().Str("repo", "security").Logger(),
	}
}

// Save writes one record, replacing everything stored for its id
func (r *SecurityRepository) Save(rec *Record) error {
	return database.WithTransaction(r.universeDB, func(tx *sql.Tx) error {
		return r.save(tx, rec)
	})
}

// SaveAll writes every record of the store in one transaction.
// Records stored earlier but absent from the store are left untouched.
func (r *SecurityRepository) SaveAll(store *Store) error {
	err := database.WithTransaction(r.universeDB, func(tx *sql.Tx) error {
		for _, rec := range store.All() {
			if err := r.save(tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info().Int("securities", store.Len()).Msg("Saved universe")
	return nil
}

func (r *SecurityRepository) save(tx *sql.Tx, rec *Record) error {
	var name, price, capKind, capValue, skip interface{}
	if v, ok := rec.Attribute(KeyName); ok {
		name = v.String()
	}
	if v, ok := rec.Attribute(KeyPrice); ok {
		price = float64(v.(Number))
	}
	switch c := rec.Capitalization().(type) {
	case ExplicitCapitalization:
		capKind, capValue = capitalizationExplicit, float64(c)
	case DerivedCapitalization:
		capKind, capValue = capitalizationDerived, c.Shares
	}
	if v, ok := rec.Attribute(KeySkip); ok {
		skip = bool(v.(Flag))
	}

	extra, err := json.Marshal(rec.Extra())
	if err != nil {
		return fmt.Errorf("failed to marshal extra attributes of %d: %w", rec.ID(), err)
	}

	_, err = tx.Exec(`
		INSERT INTO securities (id, name, price, capitalization_kind, capitalization_value, skip, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			price = excluded.price,
			capitalization_kind = excluded.capitalization_kind,
			capitalization_value = excluded.capitalization_value,
			skip = excluded.skip,
			extra = excluded.extra
	`, int64(rec.ID()), name, price, capKind, capValue, skip, string(extra))
	if err != nil {
		return fmt.Errorf("failed to upsert security %d: %w", rec.ID(), err)
	}

	if _, err := tx.Exec(`DELETE FROM facts WHERE security_id = ?`, int64(rec.ID())); err != nil {
		return fmt.Errorf("failed to clear facts of %d: %w", rec.ID(), err)
	}

	stmt, err := tx.Prepare(`INSERT INTO facts (security_id, period, metric, year, quarter, value)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare fact insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range rec.Facts() {
		if _, err := stmt.Exec(int64(rec.ID()), f.Period.String(), f.Metric, f.Year, f.Quarter, f.Value); err != nil {
			return fmt.Errorf("failed to insert fact %s of %d: %w", f, rec.ID(), err)
		}
	}
	return nil
}

// SetSkip updates the skip marker of a stored security
func (r *SecurityRepository) SetSkip(id domain.SecurityID, skip bool) error {
	res, err := r.universeDB.Exec(`UPDATE securities SET skip = ? WHERE id = ?`, skip, int64(id))
	if err != nil {
		return fmt.Errorf("failed to update skip marker: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

// LoadAll reads every stored security into a new store
func (r *SecurityRepository) LoadAll() (*Store, error) {
	store := NewStore()

	rows, err := r.universeDB.Query(`SELECT id, name, price, capitalization_kind,
		capitalization_value, skip, extra FROM securities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query securities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := r.scanSecurity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan security: %w", err)
		}
		store.Put(rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating securities: %w", err)
	}

	if err := r.loadFacts(store); err != nil {
		return nil, err
	}

	r.log.Debug().Int("securities", store.Len()).Msg("Loaded universe")
	return store, nil
}

func (r *SecurityRepository) scanSecurity(rows *sql.Rows) (*Record, error) {
	var (
		id       int64
		name     sql.NullString
		price    sql.NullFloat64
		capKind  sql.NullString
		capValue sql.NullFloat64
		skip     sql.NullBool
		extra    string
	)
	if err := rows.Scan(&id, &name, &price, &capKind, &capValue, &skip, &extra); err != nil {
		return nil, err
	}

	rec := NewRecord(domain.SecurityID(id))
	if name.Valid {
		rec.SetName(name.String)
	}
	if price.Valid {
		rec.SetPrice(price.Float64)
	}
	if capValue.Valid {
		switch capKind.String {
		case capitalizationExplicit:
			rec.SetMarketCapital(capValue.Float64)
		case capitalizationDerived:
			rec.SetShares(capValue.Float64)
		default:
			r.log.Warn().Int64("id", id).Str("kind", capKind.String).Msg("Unknown capitalization kind")
		}
	}
	if skip.Valid {
		rec.SetSkip(skip.Bool)
	}

	var extras map[string]string
	if err := json.Unmarshal([]byte(extra), &extras); err != nil {
		r.log.Warn().Err(err).Int64("id", id).Msg("Ignoring unreadable extra attributes")
	}
	for k, v := range extras {
		rec.SetExtra(k, v)
	}
	return rec, nil
}

func (r *SecurityRepository) loadFacts(store *Store) error {
	rows, err := r.universeDB.Query(`SELECT security_id, period, metric, year, quarter, value FROM facts`)
	if err != nil {
		return fmt.Errorf("failed to query facts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id            int64
			period        string
			metric        string
			year, quarter int
			value         float64
		)
		if err := rows.Scan(&id, &period, &metric, &year, &quarter, &value); err != nil {
			return fmt.Errorf("failed to scan fact: %w", err)
		}

		rec, err := store.Get(domain.SecurityID(id))
		if err != nil {
			r.log.Warn().Int64("id", id).Msg("Fact without security, skipping")
			continue
		}
		if period == domain.Quarterly.String() {
			rec.SetQuarterly(metric, year, quarter, value)
		} else {
			rec.SetAnnual(metric, year, value)
		}
	}
	return rows.Err()
}
