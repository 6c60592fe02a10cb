package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"partyrecords/internal/config"
	"partyrecords/internal/store"
)

// Querier is the read side of the record store.
type Querier interface {
	ListMinigames(ctx context.Context) ([]store.MinigameSummary, error)
	ListRecords(ctx context.Context, minigame, player string) ([]store.Record, error)
	Leaderboard(ctx context.Context, minigame, mapName string, lowerIsBetter bool, limit int) ([]store.LeaderboardEntry, error)
}

type Server struct {
	catalog *config.Catalog
	db      Querier
	mcp     *sdk.Server
}

func NewServer(catalog *config.Catalog, db Querier, version string) *Server {
	if catalog == nil {
		catalog = config.DefaultCatalog()
	}
	s := &Server{
		catalog: catalog,
		db:      db,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "partyrecords",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
