package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pable/shotmetrics/internal/model"
)

// MatchExists returns true if a match with the given id is already stored.
func (db *DB) MatchExists(id string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ErrShotIDConflict is returned when a shot id is already stored under a
// different match.
var ErrShotIDConflict = errors.New("shot id belongs to another match")

// StoreMatch writes a match and its shots in one transaction. Every shot is
// stored under m.MatchID; input order is kept as the shot sequence. Storing
// the same match again updates it in place. Nothing is written on error.
func (db *DB) StoreMatch(m model.MatchSummary, shots []model.Shot) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO matches(id, name, match_date, source_file)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			match_date = excluded.match_date,
			source_file = excluded.source_file`,
		m.MatchID, m.Name, m.MatchDate, m.SourceFile,
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	owner, err := tx.Prepare("SELECT match_id FROM shots WHERE id = ?")
	if err != nil {
		return err
	}
	defer owner.Close()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO shots(
			id, match_id, seq, x, y, team, player_name, action,
			minute, pressure, foot, position, touched_in_flight
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, s := range shots {
		var current string
		switch err := owner.QueryRow(s.ID).Scan(&current); {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("check shot %s: %w", s.ID, err)
		case current != m.MatchID:
			return fmt.Errorf("%w: %s is stored under %s", ErrShotIDConflict, s.ID, current)
		}

		pressure := s.Pressure
		if pressure == "" {
			pressure = model.PressureNone
		}
		_, err = stmt.Exec(
			s.ID, m.MatchID, i, s.X, s.Y, s.Team, s.PlayerName, s.Action,
			s.Minute, string(pressure), s.Foot, s.Position, boolInt(s.TouchedInFlight),
		)
		if err != nil {
			return fmt.Errorf("insert shot %s: %w", s.ID, err)
		}
	}
	return tx.Commit()
}

// ListMatches returns all stored matches with their shot counts, newest first.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT m.id, m.name, m.match_date, m.source_file, COUNT(s.id)
		FROM matches m LEFT JOIN shots s ON s.match_id = m.id
		GROUP BY m.id
		ORDER BY m.match_date DESC, m.imported_at DESC, m.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var m model.MatchSummary
		if err := rows.Scan(&m.MatchID, &m.Name, &m.MatchDate, &m.SourceFile, &m.ShotCount); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first match whose id starts with the given prefix.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	var m model.MatchSummary
	err := db.conn.QueryRow(`
		SELECT m.id, m.name, m.match_date, m.source_file,
		       (SELECT COUNT(1) FROM shots s WHERE s.match_id = m.id)
		FROM matches m WHERE m.id LIKE ? ORDER BY m.id LIMIT 1`, prefix+"%").
		Scan(&m.MatchID, &m.Name, &m.MatchDate, &m.SourceFile, &m.ShotCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMatch removes a match and its shots. It reports whether a match was deleted.
func (db *DB) DeleteMatch(id string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM shots WHERE match_id = ?", id); err != nil {
		return false, fmt.Errorf("delete shots: %w", err)
	}
	res, err := tx.Exec("DELETE FROM matches WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete match: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

const shotColumns = `id, match_id, x, y, team, player_name, action,
	minute, pressure, foot, position, touched_in_flight`

// GetShots returns stored shots matching the filter, in import order.
// Empty filter fields do not restrict; comparisons are case-insensitive.
func (db *DB) GetShots(f model.Filter) ([]model.Shot, error) {
	var (
		where []string
		args  []any
	)
	addIn := func(col string, vals []string) {
		if len(vals) == 0 {
			return
		}
		where = append(where, fmt.Sprintf("lower(%s) IN (%s)", col, placeholders(len(vals))))
		for _, v := range vals {
			args = append(args, strings.ToLower(strings.TrimSpace(v)))
		}
	}
	addIn("match_id", f.MatchIDs)
	addIn("team", f.Teams)
	addIn("player_name", f.Players)
	addIn("action", f.Actions)

	q := "SELECT " + shotColumns + " FROM shots"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY match_id, seq"

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Shot
	for rows.Next() {
		s, err := scanShot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetShot returns a single shot by id, or nil if it does not exist.
func (db *DB) GetShot(id string) (*model.Shot, error) {
	row := db.conn.QueryRow("SELECT "+shotColumns+" FROM shots WHERE id = ?", id)
	s, err := scanShot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SetTouched persists the touched-in-flight flag of one shot.
func (db *DB) SetTouched(id string, touched bool) error {
	res, err := db.conn.Exec("UPDATE shots SET touched_in_flight = ? WHERE id = ?", boolInt(touched), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("shot %s not found", id)
	}
	return nil
}

// QueryRaw runs an arbitrary read query and returns column names and
// stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch t := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(t)
			default:
				row[i] = fmt.Sprint(t)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanShot(r scanner) (model.Shot, error) {
	var (
		s        model.Shot
		pressure string
		touched  int
	)
	err := r.Scan(&s.ID, &s.MatchID, &s.X, &s.Y, &s.Team, &s.PlayerName, &s.Action,
		&s.Minute, &pressure, &s.Foot, &s.Position, &touched)
	if err != nil {
		return s, err
	}
	s.Pressure = model.ParsePressure(pressure)
	s.TouchedInFlight = touched != 0
	return s, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// placeholders returns a comma-separated string of n "?" for SQL IN clauses,
// e.g. placeholders(3) → "?,?,?".
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
