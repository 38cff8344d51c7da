package highscores

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"
)

// defaultSearchLimit caps a search that did not specify its own limit.
const defaultSearchLimit = 1000

// leaderboardWeights are the points awarded per placement on each map's
// record list (kart-style scoring, top eleven score).
var leaderboardWeights = []int{15, 12, 10, 8, 7, 6, 5, 4, 3, 2, 1}

// searchColumns whitelists the orderable and filterable columns, keyed by
// their wire names.
var searchColumns = map[string]string{
	"username":    "h.username",
	"mapname":     "m.name",
	"map_id":      "h.map_id",
	"skin":        "h.skin",
	"time":        "h.time",
	"time_string": "h.time_string",
	"datetime":    "h.recorded_at",
}

// OrderableColumn reports whether key is a valid order/filter column name.
func OrderableColumn(key string) bool {
	_, ok := searchColumns[key]
	return ok
}

// Store provides access to the maps and highscores tables.
type Store struct {
	db *sql.DB
}

// NewStore creates a [Store] on an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to Postgres with the given DSN and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open highscores database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach highscores database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Maps returns all maps, or only those in rotation.
func (s *Store) Maps(ctx context.Context, inRotation bool) ([]Map, error) {
	query := "SELECT id, name, image, in_rotation FROM maps"
	if inRotation {
		query += " WHERE in_rotation"
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query maps: %w", err)
	}
	defer rows.Close()

	var maps []Map
	for rows.Next() {
		var m Map
		if err := rows.Scan(&m.ID, &m.Name, &m.Image, &m.InRotation); err != nil {
			return nil, fmt.Errorf("failed to scan map: %w", err)
		}
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

// MapByID returns the map with the given id, or nil when it is unknown.
func (s *Store) MapByID(ctx context.Context, id int) (*Map, error) {
	var m Map
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, image, in_rotation FROM maps WHERE id = $1", id,
	).Scan(&m.ID, &m.Name, &m.Image, &m.InRotation)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query map %d: %w", id, err)
	}
	return &m, nil
}

// Users returns the distinct usernames present in the highscores table.
func (s *Store) Users(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "username")
}

// Skins returns the distinct skins present in the highscores table.
func (s *Store) Skins(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "skin")
}

func (s *Store) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT DISTINCT %s FROM highscores ORDER BY %s", column, column))
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// SearchParams narrows and orders a highscore search. Zero values mean
// "no filter"; Limit 0 selects the default cap.
type SearchParams struct {
	Username string
	MapName  string
	Skin     string
	MapID    int

	// OrderBy is a wire column name from searchColumns; results are always
	// additionally ordered by time ascending.
	OrderBy    string
	Descending bool

	Limit int

	// AllScores includes every recorded run instead of only each player's
	// personal best per skin and map.
	AllScores bool

	// AllSkins includes records set with modded skins.
	AllSkins bool
}

// Search returns highscores matching the params, ordered by time ascending
// (optionally preceded by a caller-chosen column).
func (s *Store) Search(ctx context.Context, p SearchParams) ([]Highscore, error) {
	var b strings.Builder
	b.WriteString(`SELECT h.username, m.name, h.map_id, h.skin, h.time, h.time_string, h.recorded_at
FROM highscores h
JOIN maps m ON m.id = h.map_id`)

	if !p.AllScores {
		b.WriteString(`
JOIN (
	SELECT MIN(time) AS time, username, skin, map_id
	FROM highscores
	GROUP BY username, skin, map_id
) best ON best.username = h.username AND best.skin = h.skin AND best.map_id = h.map_id AND best.time = h.time`)
	}

	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !p.AllSkins {
		conds = append(conds, "h.skin = ANY("+arg(pq.Array(BaseSkins))+")")
	}
	if p.Username != "" {
		conds = append(conds, "h.username ILIKE "+arg(p.Username))
	}
	if p.MapName != "" {
		conds = append(conds, "m.name ILIKE "+arg(p.MapName))
	}
	if p.Skin != "" {
		conds = append(conds, "h.skin ILIKE "+arg(p.Skin))
	}
	if p.MapID != 0 {
		conds = append(conds, "h.map_id = "+arg(p.MapID))
	}
	if len(conds) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}

	b.WriteString("\nORDER BY ")
	if col, ok := searchColumns[p.OrderBy]; ok {
		b.WriteString(col)
		if p.Descending {
			b.WriteString(" DESC")
		}
		b.WriteString(", ")
	}
	b.WriteString("h.time ASC")

	limit := p.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	b.WriteString("\nLIMIT " + arg(limit))

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search highscores: %w", err)
	}
	defer rows.Close()

	var scores []Highscore
	for rows.Next() {
		var h Highscore
		if err := rows.Scan(&h.Username, &h.MapName, &h.MapID, &h.Skin, &h.Time, &h.TimeString, &h.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan highscore: %w", err)
		}
		scores = append(scores, h)
	}
	return scores, rows.Err()
}

// MapHighscores returns, for every map, the best time per skin, ordered by
// map id and time.
func (s *Store) MapHighscores(ctx context.Context) ([]MapRecords, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT m.id, m.name, h.skin, h.username, h.time, h.time_string, h.recorded_at
FROM highscores h
JOIN maps m ON m.id = h.map_id
JOIN (
	SELECT MIN(time) AS time, skin, map_id
	FROM highscores
	GROUP BY skin, map_id
) best ON best.skin = h.skin AND best.map_id = h.map_id AND best.time = h.time
ORDER BY m.id, h.time ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query map highscores: %w", err)
	}
	defer rows.Close()

	var (
		records []MapRecords
		current *MapRecords
	)
	for rows.Next() {
		var (
			id   int
			name string
			rec  SkinRecord
		)
		if err := rows.Scan(&id, &name, &rec.Name, &rec.Username, &rec.Time, &rec.TimeString, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan map highscore: %w", err)
		}
		if current == nil || current.ID != id {
			records = append(records, MapRecords{ID: id, Name: name})
			current = &records[len(records)-1]
		}
		current.Skins = append(current.Skins, rec)
	}
	return records, rows.Err()
}

// Leaderboard awards placement points over every in-rotation map's top
// eleven best times and returns users ranked by total points.
func (s *Store) Leaderboard(ctx context.Context, allSkins bool) (Ranking, error) {
	return s.rank(ctx, allSkins, func(scores []Highscore, points map[string]int) {
		for place, score := range scores {
			if place < len(leaderboardWeights) {
				points[score.Username] += leaderboardWeights[place]
			}
		}
	})
}

// BestSkins counts, per skin, how many in-rotation maps that skin holds the
// record on.
func (s *Store) BestSkins(ctx context.Context, allSkins bool) (Ranking, error) {
	return s.rank(ctx, allSkins, func(scores []Highscore, points map[string]int) {
		if len(scores) > 0 {
			points[scores[0].Skin]++
		}
	})
}

// rank runs the per-map scoring loop shared by Leaderboard and BestSkins.
func (s *Store) rank(ctx context.Context, allSkins bool, score func([]Highscore, map[string]int)) (Ranking, error) {
	maps, err := s.Maps(ctx, true)
	if err != nil {
		return nil, err
	}

	points := make(map[string]int)
	for _, m := range maps {
		scores, err := s.Search(ctx, SearchParams{
			MapID:    m.ID,
			Limit:    len(leaderboardWeights),
			AllSkins: allSkins,
		})
		if err != nil {
			return nil, err
		}
		score(scores, points)
	}

	ranking := make(Ranking, 0, len(points))
	for name, pts := range points {
		ranking = append(ranking, RankEntry{Name: name, Points: pts})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Points != ranking[j].Points {
			return ranking[i].Points > ranking[j].Points
		}
		return ranking[i].Name < ranking[j].Name
	})
	return ranking, nil
}
