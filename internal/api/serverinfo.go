package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/srb2live/infoboard/internal/highscores"
	"github.com/srb2live/infoboard/serverinfo"
)

// serverInfo queries the game server live and answers with the complete
// info-feed snapshot. The request may name an address; otherwise the
// configured default server is queried.
func (s *Service) serverInfo(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	address := ps.ByName("address")
	if address == "" {
		address = s.gameServer
	}
	if address == "" {
		s.writeError(w, http.StatusServiceUnavailable, "no game server configured")
		return
	}

	sp, pp, err := s.querier.AskInfo(r.Context(), address)
	if err != nil {
		s.logger.Error("game server query failed", "address", address, "error", err)
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	info := serverinfo.ServerInfo{
		ServerName:      sp.ServerName,
		Version:         sp.Version,
		NumberOfPlayers: sp.NumberOfPlayers,
		MaxPlayers:      sp.MaxPlayers,
		LevelTime:       sp.LevelTime,
		LevelTimeString: highscores.TicsToString(sp.LevelTime),
		Map: serverinfo.MapInfo{
			Name: sp.MapTitle,
		},
		Players: []serverinfo.Player{},
	}

	// enrich the map with highscores metadata when the database knows it;
	// map ids are the extended map numbers shifted down by one
	if s.scores != nil && sp.MapNumber > 0 {
		m, err := s.scores.MapByID(r.Context(), sp.MapNumber-1)
		if err != nil {
			s.logger.Warn("failed to look up current map", "map", sp.MapName, "error", err)
		} else if m != nil {
			info.Map.ID = m.ID
			info.Map.Image = m.Image
		}
	}

	for _, p := range pp.Players {
		info.Players = append(info.Players, serverinfo.Player{
			Name:  p.Name,
			Skin:  p.Skin,
			Score: p.Score,
			Time:  p.Time,
		})
	}

	s.writeJSON(w, info)
}
