package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/srb2live/infoboard/internal/highscores"
	"github.com/srb2live/infoboard/internal/srb2query"
)

// Prefix is the mount point of the highscores API.
const Prefix = "/highscores/api"

// ScoreStore is the subset of the highscores store the API consumes.
type ScoreStore interface {
	Maps(ctx context.Context, inRotation bool) ([]highscores.Map, error)
	MapByID(ctx context.Context, id int) (*highscores.Map, error)
	Users(ctx context.Context) ([]string, error)
	Skins(ctx context.Context) ([]string, error)
	Search(ctx context.Context, p highscores.SearchParams) ([]highscores.Highscore, error)
	MapHighscores(ctx context.Context) ([]highscores.MapRecords, error)
	Leaderboard(ctx context.Context, allSkins bool) (highscores.Ranking, error)
	BestSkins(ctx context.Context, allSkins bool) (highscores.Ranking, error)
}

// GameQuerier performs the live game-server query behind /server_info.
type GameQuerier interface {
	AskInfo(ctx context.Context, address string) (srb2query.ServerPacket, srb2query.PlayerPacket, error)
}

// Service holds the API handlers and their dependencies.
//
// scores may be nil when no highscores database is configured; the record
// endpoints then answer 503 while /server_info keeps working (without map
// metadata enrichment).
type Service struct {
	scores     ScoreStore
	querier    GameQuerier
	gameServer string
	logger     *slog.Logger
}

// NewService creates the API [Service]. gameServer is the default address
// queried by /server_info when the request names none.
func NewService(scores ScoreStore, querier GameQuerier, gameServer string, logger *slog.Logger) *Service {
	return &Service{
		scores:     scores,
		querier:    querier,
		gameServer: gameServer,
		logger:     logger,
	}
}

// Register mounts all API routes on the router.
func (s *Service) Register(r *httprouter.Router) {
	r.GET(Prefix, s.index)
	r.GET(Prefix+"/maps", s.maps)
	r.GET(Prefix+"/maps/:id", s.mapByID)
	r.GET(Prefix+"/users", s.users)
	r.GET(Prefix+"/skins", s.skins)
	r.GET(Prefix+"/search", s.search)
	r.GET(Prefix+"/leaderboard", s.leaderboard)
	r.GET(Prefix+"/bestskins", s.bestSkins)
	r.GET(Prefix+"/maphighscores", s.mapHighscores)
	r.GET(Prefix+"/server_info", s.serverInfo)
	r.GET(Prefix+"/server_info/:address", s.serverInfo)
}

// apiError is the uniform failure body.
type apiError struct {
	Error string `json:"error"`
}

func (s *Service) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Service) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(apiError{Error: msg}); err != nil {
		s.logger.Error("failed to encode error response", "error", err)
	}
}

// requireScores answers 503 and returns false when no highscores database
// is configured.
func (s *Service) requireScores(w http.ResponseWriter) bool {
	if s.scores == nil {
		s.writeError(w, http.StatusServiceUnavailable, "highscores database not configured")
		return false
	}
	return true
}
