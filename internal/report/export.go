package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pable/shotmetrics/internal/aggregator"
	"github.com/pable/shotmetrics/internal/insight"
	"github.com/pable/shotmetrics/internal/model"
	"github.com/pable/shotmetrics/internal/zones"
)

// CSVHeader is the column order written by WriteCSV.
var CSVHeader = []string{
	"match", "team", "player", "action", "outcome", "points",
	"x", "y", "distance", "minute", "xPoints", "xGoals", "pressure", "position",
}

// WriteCSV writes one row per export row, preceded by CSVHeader.
func WriteCSV(w io.Writer, rows []model.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Match,
			r.Team,
			r.Player,
			r.Action,
			r.Outcome,
			strconv.Itoa(r.Points),
			formatFloat(r.X, 2),
			formatFloat(r.Y, 2),
			formatFloat(r.Distance, 2),
			strconv.Itoa(r.Minute),
			formatFloat(r.XPoints, 4),
			formatFloat(r.XGoals, 4),
			r.Pressure,
			r.Position,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// ShotView is a scored shot as handed to a pitch renderer. X and Y are the
// normalized coordinates.
type ShotView struct {
	ID              string  `json:"id"`
	MatchID         string  `json:"matchId"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Side            string  `json:"side"`
	Team            string  `json:"team"`
	PlayerName      string  `json:"playerName"`
	Action          string  `json:"action"`
	Minute          int     `json:"minute"`
	Pressure        string  `json:"pressure"`
	Foot            string  `json:"foot,omitempty"`
	Position        string  `json:"position,omitempty"`
	TouchedInFlight bool    `json:"touchedInFlight"`
	DistMeters      float64 `json:"distMeters"`
	Outcome         string  `json:"outcomeCategory"`
	PointValue      int     `json:"pointValue"`
	XPoints         float64 `json:"xPoints"`
	XGoals          float64 `json:"xGoals"`
}

// ZoneView carries what a renderer needs to color and label one cell.
type ZoneView struct {
	Row          int      `json:"row"`
	Col          int      `json:"col"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Width        float64  `json:"width"`
	Height       float64  `json:"height"`
	Count        int      `json:"count"`
	Density      float64  `json:"density"`
	SuccessCount int      `json:"successCount"`
	SuccessRate  float64  `json:"successRate"`
	ShotIDs      []string `json:"shotIds"`
}

type GridView struct {
	GridSize   int        `json:"gridSize"`
	CellWidth  float64    `json:"cellWidth"`
	CellHeight float64    `json:"cellHeight"`
	TotalShots int        `json:"totalShots"`
	Zones      []ZoneView `json:"zones"`
}

type PlayerView struct {
	Goals       int     `json:"goals"`
	Points      int     `json:"points"`
	TwoPointers int     `json:"twoPointers"`
	XP          float64 `json:"xP"`
	XG          float64 `json:"xG"`
}

type TeamView struct {
	Team             string                `json:"team"`
	TotalShots       int                   `json:"totalShots"`
	SuccessfulShots  int                   `json:"successfulShots"`
	Goals            int                   `json:"goals"`
	Points           int                   `json:"points"`
	Misses           int                   `json:"misses"`
	TwoPointerCount  int                   `json:"twoPointerCount"`
	OnePointerCount  int                   `json:"onePointerCount"`
	SetPlayAttempts  int                   `json:"setPlayAttempts"`
	SetPlayScores    int                   `json:"setPlayScores"`
	TotalXP          float64               `json:"totalXP"`
	TotalXG          float64               `json:"totalXG"`
	AvgDistance      float64               `json:"avgDistance"`
	PlayerAggregates map[string]PlayerView `json:"playerAggregates"`
	Insights         []insight.Insight     `json:"insights"`
}

// RenderDocument is the full output of one analysis run.
type RenderDocument struct {
	Shots           []ShotView `json:"shots"`
	Grid            GridView   `json:"grid"`
	OptimalZones    []ZoneView `json:"optimalZones"`
	VulnerableZones []ZoneView `json:"vulnerableZones"`
	Teams           []TeamView `json:"teams"`
}

// NewRenderDocument projects a pipeline result without recomputing it.
// teamInsights is keyed by team name and may be nil.
func NewRenderDocument(res aggregator.Result, teamInsights map[string][]insight.Insight) RenderDocument {
	doc := RenderDocument{
		Shots: make([]ShotView, 0, len(res.Shots)),
		Grid: GridView{
			GridSize:   res.Grid.GridSize,
			CellWidth:  res.Grid.CellWidth,
			CellHeight: res.Grid.CellHeight,
			TotalShots: res.Grid.TotalShots,
			Zones:      zoneViews(res.Grid.Zones),
		},
		OptimalZones:    zoneViews(zones.OptimalZones(res.Grid)),
		VulnerableZones: zoneViews(zones.VulnerableZones(res.Grid)),
		Teams:           make([]TeamView, 0, len(res.Teams)),
	}

	for _, s := range res.Shots {
		doc.Shots = append(doc.Shots, ShotView{
			ID:              s.ID,
			MatchID:         s.MatchID,
			X:               s.X,
			Y:               s.Y,
			Side:            string(s.Side),
			Team:            s.Team,
			PlayerName:      s.PlayerName,
			Action:          s.Action,
			Minute:          s.Minute,
			Pressure:        string(s.Pressure),
			Foot:            s.Foot,
			Position:        s.Position,
			TouchedInFlight: s.TouchedInFlight,
			DistMeters:      s.DistMeters,
			Outcome:         string(s.Outcome),
			PointValue:      s.PointValue,
			XPoints:         s.XPoints,
			XGoals:          s.XGoals,
		})
	}

	for _, t := range res.Teams {
		players := make(map[string]PlayerView, len(t.PlayerAggregates))
		for name, p := range t.PlayerAggregates {
			players[name] = PlayerView{Goals: p.Goals, Points: p.Points, TwoPointers: p.TwoPointers, XP: p.XP, XG: p.XG}
		}
		doc.Teams = append(doc.Teams, TeamView{
			Team:             t.Team,
			TotalShots:       t.TotalShots,
			SuccessfulShots:  t.SuccessfulShots,
			Goals:            t.Goals,
			Points:           t.Points,
			Misses:           t.Misses,
			TwoPointerCount:  t.TwoPointerCount,
			OnePointerCount:  t.OnePointerCount,
			SetPlayAttempts:  t.SetPlayAttempts,
			SetPlayScores:    t.SetPlayScores,
			TotalXP:          t.TotalXP,
			TotalXG:          t.TotalXG,
			AvgDistance:      t.AvgDistance,
			PlayerAggregates: players,
			Insights:         teamInsights[t.Team],
		})
	}
	return doc
}

func zoneViews(zs []model.Zone) []ZoneView {
	out := make([]ZoneView, 0, len(zs))
	for _, z := range zs {
		ids := make([]string, 0, len(z.Shots))
		for _, s := range z.Shots {
			ids = append(ids, s.ID)
		}
		out = append(out, ZoneView{
			Row:          z.Row,
			Col:          z.Col,
			X:            z.Bounds.X,
			Y:            z.Bounds.Y,
			Width:        z.Bounds.Width,
			Height:       z.Bounds.Height,
			Count:        z.Count,
			Density:      z.Density,
			SuccessCount: z.SuccessCount,
			SuccessRate:  z.SuccessRate,
			ShotIDs:      ids,
		})
	}
	return out
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
