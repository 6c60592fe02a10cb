package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"partyrecords/internal/store"
)

type ListMinigamesInput struct{}

type GetRecordsInput struct {
	Minigame string `json:"minigame,omitempty" jsonschema:"restrict to one minigame"`
	Player   string `json:"player,omitempty" jsonschema:"restrict to one player, case-insensitive"`
}

type GetLeaderboardInput struct {
	Minigame string `json:"minigame" jsonschema:"minigame name"`
	Map      string `json:"map,omitempty" jsonschema:"map column; empty ranks by best score, or fastest map for time minigames"`
	Limit    int    `json:"limit,omitempty" jsonschema:"number of entries, default 10"`
}

type GetCatalogInput struct{}

type MinigameOutput struct {
	Name     string `json:"name"`
	Mode     string `json:"mode"`
	Inactive bool   `json:"inactive,omitempty"`
	Players  int    `json:"players"`
}

type ListMinigamesOutput struct {
	Minigames []MinigameOutput `json:"minigames"`
}

type RecordOutput struct {
	Player    string             `json:"player"`
	Minigame  string             `json:"minigame"`
	Scores    map[string]float64 `json:"scores"`
	BestScore float64            `json:"best_score"`
}

type GetRecordsOutput struct {
	Records []RecordOutput `json:"records"`
}

type LeaderboardEntryOutput struct {
	Rank   int     `json:"rank"`
	Player string  `json:"player"`
	Value  float64 `json:"value"`
}

type GetLeaderboardOutput struct {
	Minigame      string                   `json:"minigame"`
	Map           string                   `json:"map,omitempty"`
	LowerIsBetter bool                     `json:"lower_is_better"`
	Entries       []LeaderboardEntryOutput `json:"entries"`
}

type CatalogOutput struct {
	Version   int              `json:"version"`
	Minigames []MinigameOutput `json:"minigames"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_minigames",
		Description: "List minigames with published records and their player counts",
	}, s.handleListMinigames)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_records",
		Description: "Return per-map records filtered by minigame and player",
	}, s.handleGetRecords)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_leaderboard",
		Description: "Rank players of a minigame on one map or on their best score",
	}, s.handleGetLeaderboard)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_catalog",
		Description: "Return the known minigames with their scoring mode",
	}, s.handleGetCatalog)
}

func (s *Server) handleListMinigames(ctx context.Context, req *sdk.CallToolRequest, input ListMinigamesInput) (*sdk.CallToolResult, ListMinigamesOutput, error) {
	summaries, err := s.db.ListMinigames(ctx)
	if err != nil {
		return nil, ListMinigamesOutput{}, err
	}

	output := make([]MinigameOutput, 0, len(summaries))
	for _, summary := range summaries {
		item := MinigameOutput{Name: summary.Name, Players: summary.Players}
		if game, err := s.catalog.Lookup(summary.Name); err == nil {
			item.Mode = string(game.Mode)
			item.Inactive = game.Inactive
		}
		output = append(output, item)
	}
	return nil, ListMinigamesOutput{Minigames: output}, nil
}

func (s *Server) handleGetRecords(ctx context.Context, req *sdk.CallToolRequest, input GetRecordsInput) (*sdk.CallToolResult, GetRecordsOutput, error) {
	minigame := input.Minigame
	if minigame != "" {
		game, err := s.catalog.Lookup(minigame)
		if err != nil {
			return nil, GetRecordsOutput{}, err
		}
		minigame = game.Name
	}

	records, err := s.db.ListRecords(ctx, minigame, input.Player)
	if err != nil {
		return nil, GetRecordsOutput{}, err
	}

	output := make([]RecordOutput, 0, len(records))
	for _, r := range records {
		output = append(output, recordOutputFromStore(r))
	}
	return nil, GetRecordsOutput{Records: output}, nil
}

func (s *Server) handleGetLeaderboard(ctx context.Context, req *sdk.CallToolRequest, input GetLeaderboardInput) (*sdk.CallToolResult, GetLeaderboardOutput, error) {
	if input.Minigame == "" {
		return nil, GetLeaderboardOutput{}, fmt.Errorf("minigame is required")
	}
	game, err := s.catalog.Lookup(input.Minigame)
	if err != nil {
		return nil, GetLeaderboardOutput{}, err
	}

	lowerIsBetter := game.Mode.LowerIsBetter()
	entries, err := s.db.Leaderboard(ctx, game.Name, input.Map, lowerIsBetter, input.Limit)
	if err != nil {
		return nil, GetLeaderboardOutput{}, err
	}

	output := GetLeaderboardOutput{
		Minigame:      game.Name,
		Map:           input.Map,
		LowerIsBetter: lowerIsBetter,
		Entries:       make([]LeaderboardEntryOutput, 0, len(entries)),
	}
	for _, e := range entries {
		output.Entries = append(output.Entries, LeaderboardEntryOutput{Rank: e.Rank, Player: e.Player, Value: e.Value})
	}
	return nil, output, nil
}

func (s *Server) handleGetCatalog(ctx context.Context, req *sdk.CallToolRequest, input GetCatalogInput) (*sdk.CallToolResult, CatalogOutput, error) {
	out := CatalogOutput{
		Version:   s.catalog.Version,
		Minigames: make([]MinigameOutput, 0, len(s.catalog.Minigames)),
	}
	for _, game := range s.catalog.Minigames {
		out.Minigames = append(out.Minigames, MinigameOutput{
			Name:     game.Name,
			Mode:     string(game.Mode),
			Inactive: game.Inactive,
		})
	}
	return nil, out, nil
}

func recordOutputFromStore(r store.Record) RecordOutput {
	scores := make(map[string]float64, len(r.Scores))
	for k, v := range r.Scores {
		scores[k] = v
	}
	return RecordOutput{
		Player:    r.Player,
		Minigame:  r.Minigame,
		Scores:    scores,
		BestScore: r.BestScore,
	}
}
