// Package ingest decodes shot files (JSON or CSV) into raw shot records.
//
// Decoding is tolerant: numbers may arrive as strings, and action or
// position may be structured objects. Bad values fall back to defaults
// rather than failing the file.
package ingest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pable/shotmetrics/internal/model"
)

// Format is a supported input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ErrUnknownFormat is returned when a file's format cannot be determined.
var ErrUnknownFormat = errors.New("unknown shot file format")

// File is one decoded input file.
type File struct {
	Path      string
	Hash      string // sha256 of the file contents, hex
	MatchID   string
	Name      string
	MatchDate string
	Shots     []model.Shot
}

// MatchShots is one match's share of a file.
type MatchShots struct {
	MatchID string
	Shots   []model.Shot
}

// Matches groups the file's shots by their match id, in order of first
// appearance. A file whose shots carry no match id of their own yields a
// single group under f.MatchID, even when it holds no shots.
func (f File) Matches() []MatchShots {
	if len(f.Shots) == 0 {
		return []MatchShots{{MatchID: f.MatchID}}
	}
	var out []MatchShots
	index := make(map[string]int)
	for _, s := range f.Shots {
		i, ok := index[s.MatchID]
		if !ok {
			i = len(out)
			index[s.MatchID] = i
			out = append(out, MatchShots{MatchID: s.MatchID})
		}
		out[i].Shots = append(out[i].Shots, s)
	}
	return out
}

// Field aliases accepted for each shot attribute.
var aliases = map[string][]string{
	"id":       {"id", "shot_id", "shotId"},
	"match":    {"match_id", "matchId", "match", "game_id", "gameId"},
	"x":        {"x"},
	"y":        {"y"},
	"team":     {"team", "team_name", "teamName"},
	"player":   {"player", "player_name", "playerName"},
	"action":   {"action", "action_type", "actionType"},
	"minute":   {"minute", "min", "time"},
	"pressure": {"pressure"},
	"foot":     {"foot"},
	"position": {"position", "pos"},
	"touched":  {"touched_in_flight", "touchedInFlight", "touched"},
}

// LoadFiles decodes several files concurrently. Results are returned in
// argument order; the first error cancels the rest.
func LoadFiles(ctx context.Context, paths []string) ([]File, error) {
	files := make([]File, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := LoadFile(p)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// LoadFile reads and decodes one file. The format is taken from the
// extension, falling back to sniffing the first non-space byte.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read shot file: %w", err)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	format, err := detectFormat(path, data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}

	f := File{
		Path:    path,
		Hash:    hash,
		MatchID: hash,
		Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	switch format {
	case FormatJSON:
		doc, err := DecodeJSON(data)
		if err != nil {
			return File{}, fmt.Errorf("decode %s: %w", path, err)
		}
		if doc.MatchID != "" {
			f.MatchID = doc.MatchID
		}
		if doc.Name != "" {
			f.Name = doc.Name
		}
		f.MatchDate = doc.MatchDate
		f.Shots = doc.Shots
	case FormatCSV:
		shots, err := DecodeCSV(bytes.NewReader(data))
		if err != nil {
			return File{}, fmt.Errorf("decode %s: %w", path, err)
		}
		f.Shots = shots
	}

	assignIDs(f.MatchID, f.Shots)
	return f, nil
}

func detectFormat(path string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", ErrUnknownFormat
	}
	if trimmed[0] == '[' || trimmed[0] == '{' {
		return FormatJSON, nil
	}
	if bytes.ContainsRune(trimmed, ',') {
		return FormatCSV, nil
	}
	return "", ErrUnknownFormat
}

// assignIDs fills missing match and shot ids. Generated shot ids are derived
// from the match id and position so re-decoding a file yields the same ids.
func assignIDs(matchID string, shots []model.Shot) {
	ns := uuid.NewSHA1(uuid.NameSpaceOID, []byte(matchID))
	for i := range shots {
		if shots[i].MatchID == "" {
			shots[i].MatchID = matchID
		}
		if shots[i].ID == "" {
			shots[i].ID = uuid.NewSHA1(ns, []byte(fmt.Sprintf("%d", i))).String()
		}
	}
}

// Document is a decoded JSON shot file.
type Document struct {
	MatchID   string
	Name      string
	MatchDate string
	Shots     []model.Shot
}

// DecodeJSON accepts either a bare array of shot objects or an object with
// a "shots" array and optional match metadata.
func DecodeJSON(data []byte) (Document, error) {
	var doc Document

	trimmed := bytes.TrimSpace(data)
	var records []map[string]any
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper map[string]any
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return doc, fmt.Errorf("unmarshal shot document: %w", err)
		}
		doc.MatchID = model.CoerceLabel(lookup(wrapper, aliases["match"]))
		doc.Name = model.CoerceLabel(wrapper["name"])
		doc.MatchDate = model.CoerceLabel(lookup(wrapper, []string{"date", "match_date", "matchDate"}))
		list, _ := wrapper["shots"].([]any)
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				records = append(records, m)
			}
		}
	} else if err := json.Unmarshal(trimmed, &records); err != nil {
		return doc, fmt.Errorf("unmarshal shot array: %w", err)
	}

	doc.Shots = make([]model.Shot, 0, len(records))
	for _, r := range records {
		doc.Shots = append(doc.Shots, shotFromRecord(r))
	}
	return doc, nil
}

// DecodeCSV reads a header row followed by one shot per row. Columns are
// matched by the same names the JSON decoder accepts; unknown columns are
// ignored.
func DecodeCSV(r io.Reader) ([]model.Shot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var shots []model.Shot
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rec := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		shots = append(shots, shotFromRecord(rec))
	}
	return shots, nil
}

func shotFromRecord(r map[string]any) model.Shot {
	return model.Shot{
		ID:              model.CoerceLabel(lookup(r, aliases["id"])),
		MatchID:         model.CoerceLabel(lookup(r, aliases["match"])),
		X:               model.CoerceFloat(lookup(r, aliases["x"])),
		Y:               model.CoerceFloat(lookup(r, aliases["y"])),
		Team:            model.CoerceLabel(lookup(r, aliases["team"])),
		PlayerName:      model.CoerceLabel(lookup(r, aliases["player"])),
		Action:          model.CoerceLabel(lookup(r, aliases["action"])),
		Minute:          int(model.CoerceFloat(lookup(r, aliases["minute"]))),
		Pressure:        model.ParsePressure(model.CoerceLabel(lookup(r, aliases["pressure"]))),
		Foot:            model.CoerceLabel(lookup(r, aliases["foot"])),
		Position:        model.CoerceLabel(lookup(r, aliases["position"])),
		TouchedInFlight: model.CoerceBool(lookup(r, aliases["touched"])),
	}
}

// lookup returns the first present key, falling back to a case-insensitive
// match.
func lookup(r map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			return v
		}
	}
	for k, v := range r {
		for _, want := range keys {
			if strings.EqualFold(k, want) {
				return v
			}
		}
	}
	return nil
}
