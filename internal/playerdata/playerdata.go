package playerdata

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"partyrecords/internal/logger"
)

const (
	RankNone  = "None"
	RankError = "Error"

	// activeMonthlyTime is the monthly party playtime in ms above which a
	// player counts as active.
	activeMonthlyTime = 100
)

var DefaultKeywords = []string{
	"Premium+", "Premium", "Bauteam", "Spieler", "Entwickler", "VIP",
	"Content", "Supporter", "Owner", "Moderator", "Translator",
}

var indented = jsoniter.Config{SortMapKeys: true, IndentionStep: 4}.Froze()

type Player struct {
	Name  string      `json:"name"`
	Rank  string      `json:"rank"`
	Party *PartyStats `json:"minecraft_party,omitempty"`
	// MonthlyTime is the party playtime of the current month in ms.
	MonthlyTime int64 `json:"-"`
}

// PartyStats keeps the labels of player_data.json that the records site
// reads.
type PartyStats struct {
	Wins            int64   `json:"Gewonnene Spiele"`
	MinigameWins    int64   `json:"Gewonnene Minispiele"`
	Games           int64   `json:"Gespielte Spiele"`
	Minigames       int64   `json:"Gespielte Minispiele"`
	Playtime        string  `json:"Spielzeit"`
	PlaytimeMillis  int64   `json:"-"`
	Points          int64   `json:"Punkte"`
	RankPoints      int64   `json:"Rang"`
	WinRate         float64 `json:"Winrate %"`
	MinigameWinRate float64 `json:"Minigame Winrate %"`
}

// Active reports whether the player spent enough time in the party game mode
// this month.
func (p Player) Active() bool {
	return p.MonthlyTime > activeMonthlyTime
}

type apiResponse struct {
	PlayerInfo *struct {
		Rank *struct {
			Name string `json:"name"`
		} `json:"rank"`
	} `json:"playerInfo"`
	Stats struct {
		MP struct {
			Global  *modeStats `json:"global"`
			Monthly *modeStats `json:"monthly"`
		} `json:"mp"`
	} `json:"stats"`
}

type modeStats struct {
	Wins         int64 `json:"wins"`
	Games        int64 `json:"games"`
	MinigameWins int64 `json:"minigame_wins"`
	Minigames    int64 `json:"minigames"`
	Time         int64 `json:"time"`
	Points       int64 `json:"points"`
	RankPoints   int64 `json:"rank_points"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Fetch(ctx context.Context, name string) (Player, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(name), nil)
	if err != nil {
		return Player{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Player{}, fmt.Errorf("fetching %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Player{}, fmt.Errorf("fetching %s: unexpected status %d", name, resp.StatusCode)
	}

	var data apiResponse
	if err := jsoniter.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Player{}, fmt.Errorf("decoding %s: %w", name, err)
	}

	player := Player{Name: name, Rank: RankNone}
	if data.PlayerInfo != nil && data.PlayerInfo.Rank != nil {
		player.Rank = data.PlayerInfo.Rank.Name
	}
	if g := data.Stats.MP.Global; g != nil {
		player.Party = &PartyStats{
			Wins:            g.Wins,
			MinigameWins:    g.MinigameWins,
			Games:           g.Games,
			Minigames:       g.Minigames,
			Playtime:        FormatPlaytime(g.Time),
			PlaytimeMillis:  g.Time,
			Points:          g.Points,
			RankPoints:      g.RankPoints,
			WinRate:         percent(g.Wins, g.Games),
			MinigameWinRate: percent(g.MinigameWins, g.Minigames),
		}
	}
	if m := data.Stats.MP.Monthly; m != nil {
		player.MonthlyTime = m.Time
	}
	return player, nil
}

func percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}

// FormatPlaytime renders milliseconds with the two largest units, down to
// seconds.
func FormatPlaytime(ms int64) string {
	if ms <= 0 {
		return "0"
	}
	seconds := ms / 1000
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours%24, minutes%60)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// Categorize groups player names by rank keyword. Every keyword gets an
// entry; ranks outside the keywords are not grouped.
func Categorize(players []Player, keywords []string) map[string][]string {
	groups := make(map[string][]string, len(keywords))
	for _, k := range keywords {
		groups[k] = []string{}
	}
	for _, p := range players {
		if _, ok := groups[p.Rank]; ok {
			groups[p.Rank] = append(groups[p.Rank], p.Name)
		}
	}
	return groups
}

type Fetcher interface {
	Fetch(ctx context.Context, name string) (Player, error)
}

// FetchAll fetches every player on a bounded pool, paced to one request per
// delay. A failed fetch yields a player with the Error rank. Results keep
// the order of names.
func FetchAll(ctx context.Context, f Fetcher, names []string, workers int, delay time.Duration, log *slog.Logger) ([]Player, error) {
	log = logger.OrDiscard(log)
	if workers <= 0 {
		workers = 1
	}
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	players := make([]Player, len(names))
	var mu sync.Mutex
	errorCount := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			player, err := f.Fetch(ctx, name)
			if err != nil {
				log.Error("fetching player data", "player", name, "error", err)
				player = Player{Name: name, Rank: RankError}
				mu.Lock()
				errorCount++
				mu.Unlock()
			}
			players[i] = player
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("fetched player data", "players", len(names), "errors", errorCount)
	return players, nil
}

// Write stores players keyed by name.
func Write(path string, players []Player) error {
	byName := make(map[string]Player, len(players))
	for _, p := range players {
		byName[p.Name] = p
	}
	data, err := indented.Marshal(byName)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
