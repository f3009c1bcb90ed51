package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
)

// candidateStore implements driven.CandidateStore.
type candidateStore struct {
	store *Store
}

var _ driven.CandidateStore = (*candidateStore)(nil)

const candidateColumns = `name, district_id, party, party_confidence, party_source, sources,
	source_urls, filing_status, incumbent, locked, first_seen, last_seen`

// ReadCurrentState returns every stored candidate keyed by name and district.
func (s *candidateStore) ReadCurrentState(ctx context.Context) (map[domain.CandidateKey]*domain.StoredCandidate, error) {
	candidates, err := s.query(ctx, "SELECT "+candidateColumns+" FROM candidates")
	if err != nil {
		return nil, err
	}
	state := make(map[domain.CandidateKey]*domain.StoredCandidate, len(candidates))
	for _, c := range candidates {
		state[c.Key()] = c
	}
	return state, nil
}

// Upsert creates or replaces candidates by key in one transaction.
// The locked column is set on insert and left alone on update.
func (s *candidateStore) Upsert(ctx context.Context, candidates []*domain.StoredCandidate) error {
	if len(candidates) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candidates (name_key, district_id, name, party, party_confidence, party_source,
			sources, source_urls, filing_status, incumbent, locked, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name_key, district_id) DO UPDATE SET
			name = excluded.name,
			party = excluded.party,
			party_confidence = excluded.party_confidence,
			party_source = excluded.party_source,
			sources = excluded.sources,
			source_urls = excluded.source_urls,
			filing_status = excluded.filing_status,
			incumbent = excluded.incumbent,
			first_seen = excluded.first_seen,
			last_seen = excluded.last_seen
	`)
	if err != nil {
		return fmt.Errorf("preparing candidate upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range candidates {
		if c == nil {
			continue
		}
		sources, err := marshalJSON(c.Sources, "[]")
		if err != nil {
			return fmt.Errorf("marshaling sources: %w", err)
		}
		urls, err := marshalJSON(c.SourceURLs, "{}")
		if err != nil {
			return fmt.Errorf("marshaling source urls: %w", err)
		}
		key := c.Key()
		_, err = stmt.ExecContext(ctx,
			key.Name, key.DistrictID, c.Name,
			string(c.Party), string(c.PartyConfidence), c.PartySource,
			sources, urls, string(c.FilingStatus),
			boolToInt(c.Incumbent), boolToInt(c.Locked),
			formatNullableTime(c.FirstSeen), formatNullableTime(c.LastSeen))
		if err != nil {
			return fmt.Errorf("upserting candidate %s in %s: %w", c.Name, c.DistrictID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing candidates: %w", err)
	}
	return nil
}

// List returns stored candidates sorted by district then name.
func (s *candidateStore) List(ctx context.Context, districtID string) ([]*domain.StoredCandidate, error) {
	if districtID == "" {
		return s.query(ctx, "SELECT "+candidateColumns+" FROM candidates ORDER BY district_id, name_key")
	}
	return s.query(ctx, "SELECT "+candidateColumns+
		" FROM candidates WHERE district_id = ? ORDER BY district_id, name_key", districtID)
}

// SetLocked locks or unlocks a candidate.
func (s *candidateStore) SetLocked(ctx context.Context, key domain.CandidateKey, locked bool) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE candidates SET locked = ? WHERE name_key = ? AND district_id = ?",
		boolToInt(locked), key.Name, key.DistrictID)
	if err != nil {
		return fmt.Errorf("updating lock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *candidateStore) query(ctx context.Context, query string, args ...any) ([]*domain.StoredCandidate, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*domain.StoredCandidate //nolint:prealloc // size unknown from query
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}
	return candidates, nil
}

func scanCandidate(row rowScanner) (*domain.StoredCandidate, error) {
	var c domain.StoredCandidate
	var party, confidence, status, sources, urls string
	var incumbent, locked int
	var firstSeen, lastSeen sql.NullString

	if err := row.Scan(&c.Name, &c.DistrictID, &party, &confidence, &c.PartySource,
		&sources, &urls, &status, &incumbent, &locked, &firstSeen, &lastSeen); err != nil {
		return nil, fmt.Errorf("scanning candidate: %w", err)
	}

	if err := json.Unmarshal([]byte(sources), &c.Sources); err != nil {
		return nil, fmt.Errorf("unmarshaling sources: %w", err)
	}
	if err := json.Unmarshal([]byte(urls), &c.SourceURLs); err != nil {
		return nil, fmt.Errorf("unmarshaling source urls: %w", err)
	}
	c.Party = domain.Party(party)
	c.PartyConfidence = domain.PartyConfidence(confidence)
	c.FilingStatus = domain.FilingStatus(status)
	c.Incumbent = incumbent == 1
	c.Locked = locked == 1
	c.FirstSeen = parseNullableTime(firstSeen)
	c.LastSeen = parseNullableTime(lastSeen)

	return &c, nil
}
