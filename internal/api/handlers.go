package api

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/srb2live/infoboard/internal/highscores"
)

// GetParam documents one query parameter of an endpoint.
type GetParam struct {
	Param       string   `json:"param"`
	Description string   `json:"description"`
	Values      []string `json:"values,omitempty"`
}

// Endpoint documents one API route in the index listing.
type Endpoint struct {
	URL         string     `json:"url"`
	Description string     `json:"description"`
	GetParams   []GetParam `json:"get_params,omitempty"`
}

// index lists every endpoint of the API with its parameters.
func (s *Service) index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var skins []string
	if s.scores != nil {
		// best effort; the listing stays useful without the value hints
		skins, _ = s.scores.Skins(r.Context())
	}

	allSkinsParam := GetParam{
		Param:       "all_skins",
		Description: `Set to "on" to count scores with all the skins instead of just the vanilla ones`,
	}

	endpoints := []Endpoint{
		{URL: Prefix + "/maps", Description: "Return all maps"},
		{URL: Prefix + "/maps/<id>", Description: "Return the specified map"},
		{URL: Prefix + "/search", Description: "Return highscores ordered by time ascending", GetParams: []GetParam{
			{Param: "username", Description: "Search by username"},
			{Param: "mapname", Description: "Search by map name"},
			{Param: "map_id", Description: "Search by map id"},
			{Param: "skin", Description: "Search by skin", Values: skins},
			{Param: "limit", Description: "Set the maximal number of records to return"},
			{Param: "order", Description: "Order by any of the returned columns"},
			{Param: "descending", Description: "Set the order direction to descending"},
			{Param: "all_scores", Description: `Set to "on" to get all the scores instead of just the best ones`},
			{Param: "all_skins", Description: `Set to "on" to get all the skins instead of just the vanilla ones`},
		}},
		{URL: Prefix + "/skins", Description: "Get the different skins in the database"},
		{URL: Prefix + "/users", Description: "Get the different users in the database"},
		{URL: Prefix + "/leaderboard", Description: "Get the leaderboard of the best players", GetParams: []GetParam{allSkinsParam}},
		{URL: Prefix + "/bestskins", Description: "Get the best skins by number of best timed tracks", GetParams: []GetParam{allSkinsParam}},
		{URL: Prefix + "/maphighscores", Description: "Get the highscores divided by map"},
		{URL: Prefix + "/server_info/[<address>]", Description: "Get info from the game server, optionally with the given address instead of the default"},
	}

	s.writeJSON(w, map[string]interface{}{"endpoints": endpoints})
}

func (s *Service) maps(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.requireScores(w) {
		return
	}

	maps, err := s.scores.Maps(r.Context(), false)
	if err != nil {
		s.fail(w, "failed to list maps", err)
		return
	}
	if maps == nil {
		maps = []highscores.Map{}
	}
	s.writeJSON(w, maps)
}

func (s *Service) mapByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !s.requireScores(w) {
		return
	}

	id, err := strconv.Atoi(ps.ByName("id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid map id")
		return
	}

	m, err := s.scores.MapByID(r.Context(), id)
	if err != nil {
		s.fail(w, "failed to load map", err)
		return
	}
	if m == nil {
		s.writeError(w, http.StatusNotFound, "map not found")
		return
	}
	s.writeJSON(w, m)
}

func (s *Service) users(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.requireScores(w) {
		return
	}

	users, err := s.scores.Users(r.Context())
	if err != nil {
		s.fail(w, "failed to list users", err)
		return
	}
	if users == nil {
		users = []string{}
	}
	s.writeJSON(w, users)
}

func (s *Service) skins(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.requireScores(w) {
		return
	}

	skins, err := s.scores.Skins(r.Context())
	if err != nil {
		s.fail(w, "failed to list skins", err)
		return
	}
	if skins == nil {
		skins = []string{}
	}
	s.writeJSON(w, skins)
}

func (s *Service) search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.requireScores(w) {
		return
	}

	q := r.URL.Query()
	params := highscores.SearchParams{
		Username:   q.Get("username"),
		MapName:    q.Get("mapname"),
		Skin:       q.Get("skin"),
		AllScores:  q.Get("all_scores") == "on",
		AllSkins:   q.Get("all_skins") == "on",
		Descending: q.Has("descending"),
	}

	if order := q.Get("order"); highscores.OrderableColumn(order) {
		params.OrderBy = order
	}

	if raw := q.Get("map_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid map_id")
			return
		}
		params.MapID = id
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		params.Limit = limit
	}

	scores, err := s.scores.Search(r.Context(), params)
	if err != nil {
		s.fail(w, "failed to search highscores", err)
		return
	}
	if scores == nil {
		scores = []highscores.Highscore{}
	}
	s.writeJSON(w, scores)
}

func (s *Service) leaderboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.requireScores(w) {
		return
	}

	ranking, err := s.scores.Leaderboard(r.Context(), r.URL.Query().Get("all_skins") == "on")
	if err != nil {
		s.fail(w, "failed to build leaderboard", err)
		return
	}
	s.writeJSON(w, ranking)
}

func (s *Service) bestSkins(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.requireScores(w) {
		return
	}

	ranking, err := s.scores.BestSkins(r.Context(), r.URL.Query().Get("all_skins") == "on")
	if err != nil {
		s.fail(w, "failed to tally best skins", err)
		return
	}
	s.writeJSON(w, ranking)
}

func (s *Service) mapHighscores(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.requireScores(w) {
		return
	}

	records, err := s.scores.MapHighscores(r.Context())
	if err != nil {
		s.fail(w, "failed to load map highscores", err)
		return
	}
	if records == nil {
		records = []highscores.MapRecords{}
	}
	s.writeJSON(w, records)
}

// fail logs an internal failure and reports it with a 500 status.
func (s *Service) fail(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "error", err)
	s.writeError(w, http.StatusInternalServerError, err.Error())
}
