package engine

import "matchday/internal/wire"

// TeamSummary is what the simulation engine needs to know about one side:
// display name, the attribute map it scores tactics against, and the
// standing tactic/formation.
type TeamSummary struct {
	Name       string         `json:"name"`
	Attributes map[string]int `json:"attributes"`
	Tactic     string         `json:"tactic"`
	Formation  string         `json:"formation"`
}

// StartRequest is the body for the simulation-start endpoint.
type StartRequest struct {
	MatchID             string      `json:"match_id"`
	UserTeamSummary     TeamSummary `json:"user_team_summary"`
	OpponentTeamSummary TeamSummary `json:"opponent_team_summary"`
}

// ContinuationRequest is the body for the half-time resume endpoint. It
// carries the merged tactic/formation plus the accumulated score and stats
// so the engine picks up exactly where the first half left off.
type ContinuationRequest struct {
	MatchID      string         `json:"match_id"`
	HomeTeamName string         `json:"home_team_name"`
	AwayTeamName string         `json:"away_team_name"`
	HomeAttrs    map[string]int `json:"home_attrs"`
	AwayAttrs    map[string]int `json:"away_attrs"`
	HomeTactic   string         `json:"home_tactic"`
	AwayTactic   string         `json:"away_tactic"`
	Formation    string         `json:"formation"`
	CurrentScore wire.Score     `json:"current_score"`
	CurrentStats wire.Stats     `json:"current_stats"`
}
