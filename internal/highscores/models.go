package highscores

import (
	"bytes"
	"encoding/json"
	"time"
)

// BaseSkins are the vanilla characters. Records set with other skins are
// excluded from searches and tallies unless the caller asks for all skins.
var BaseSkins = []string{"sonic", "tails", "knuckles", "amy", "fang", "metalsonic"}

// Map is one row of the maps table.
type Map struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	InRotation bool   `json:"in_rotation"`
}

// Highscore is one search result row: a record time with its map context.
type Highscore struct {
	Username   string    `json:"username"`
	MapName    string    `json:"mapname"`
	MapID      int       `json:"map_id"`
	Skin       string    `json:"skin"`
	Time       int       `json:"time"`
	TimeString string    `json:"time_string"`
	RecordedAt time.Time `json:"datetime"`
}

// SkinRecord is the best time held by one skin on one map.
type SkinRecord struct {
	Name       string    `json:"name"`
	Username   string    `json:"username"`
	Time       int       `json:"time"`
	TimeString string    `json:"time_string"`
	RecordedAt time.Time `json:"datetime"`
}

// MapRecords groups the per-skin records of a single map.
type MapRecords struct {
	ID    int          `json:"id"`
	Name  string       `json:"name"`
	Skins []SkinRecord `json:"skins"`
}

// RankEntry is one row of a ranking: a name with its accumulated points.
type RankEntry struct {
	Name   string
	Points int
}

// Ranking is an ordered sequence of rank entries. It marshals to a JSON
// object whose keys appear in ranking order, matching the feed's historical
// wire format.
type Ranking []RankEntry

// MarshalJSON implements json.Marshaler, preserving entry order.
func (r Ranking) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		points, err := json.Marshal(e.Points)
		if err != nil {
			return nil, err
		}
		buf.Write(points)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
