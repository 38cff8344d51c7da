package highscores

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var recordedAt = time.Date(2024, 5, 17, 20, 15, 0, 0, time.UTC)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db), mock
}

func mapColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "image", "in_rotation"})
}

func scoreColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"username", "name", "map_id", "skin", "time", "time_string", "recorded_at"})
}

func TestMaps_RotationFilter(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, name, image, in_rotation FROM maps WHERE in_rotation ORDER BY id").
		WillReturnRows(mapColumns().
			AddRow(1, "Greenflower Zone Act 1", "gfz1.jpg", true).
			AddRow(2, "Techno Hill Zone Act 1", "None", true))

	maps, err := store.Maps(context.Background(), true)
	assert.NoError(t, err)
	if assert.Len(t, maps, 2) {
		assert.Equal(t, "Greenflower Zone Act 1", maps[0].Name)
		assert.Equal(t, "None", maps[1].Image)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaps_All(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, name, image, in_rotation FROM maps ORDER BY id").
		WillReturnRows(mapColumns().AddRow(9, "Retired Zone", "None", false))

	maps, err := store.Maps(context.Background(), false)
	assert.NoError(t, err)
	if assert.Len(t, maps, 1) {
		assert.False(t, maps[0].InRotation)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapByID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, name, image, in_rotation FROM maps WHERE id = \\$1").
		WithArgs(3).
		WillReturnRows(mapColumns().AddRow(3, "Deep Sea Zone Act 1", "dsz1.jpg", true))

	m, err := store.MapByID(context.Background(), 3)
	assert.NoError(t, err)
	if assert.NotNil(t, m) {
		assert.Equal(t, "Deep Sea Zone Act 1", m.Name)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapByID_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, name, image, in_rotation FROM maps WHERE id = \\$1").
		WithArgs(99).
		WillReturnRows(mapColumns())

	m, err := store.MapByID(context.Background(), 99)
	assert.NoError(t, err)
	assert.Nil(t, m)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT DISTINCT username FROM highscores ORDER BY username").
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice").AddRow("bob"))

	users, err := store.Users(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSearch_Defaults verifies that a bare search restricts to personal
// bests and vanilla skins, with the default limit.
func TestSearch_Defaults(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)SELECT h\.username.*JOIN \(.*MIN\(time\).*GROUP BY username, skin, map_id.*h\.skin = ANY.*ORDER BY h\.time ASC.*LIMIT \$2`).
		WillReturnRows(scoreColumns().
			AddRow("alice", "Greenflower Zone Act 1", 1, "sonic", 2150, "1:01.30", recordedAt))

	scores, err := store.Search(context.Background(), SearchParams{})
	assert.NoError(t, err)
	if assert.Len(t, scores, 1) {
		assert.Equal(t, "alice", scores[0].Username)
		assert.Equal(t, 2150, scores[0].Time)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSearch_AllScoresSkipsBestJoin verifies that all_scores drops the
// personal-best subquery.
func TestSearch_AllScoresSkipsBestJoin(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)SELECT h\.username, m\.name, h\.map_id, h\.skin, h\.time, h\.time_string, h\.recorded_at\s+FROM highscores h\s+JOIN maps m ON m\.id = h\.map_id\s+WHERE h\.skin = ANY\(\$1\)\s+ORDER BY h\.time ASC\s+LIMIT \$2`).
		WillReturnRows(scoreColumns())

	_, err := store.Search(context.Background(), SearchParams{AllScores: true})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSearch_FiltersAndOrdering verifies filter placeholders and the custom
// ordering column with descending direction.
func TestSearch_FiltersAndOrdering(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)h\.username ILIKE \$2 AND h\.map_id = \$3\s+ORDER BY h\.recorded_at DESC, h\.time ASC\s+LIMIT \$4`).
		WithArgs(sqlmock.AnyArg(), "alice", 4, 25).
		WillReturnRows(scoreColumns())

	_, err := store.Search(context.Background(), SearchParams{
		Username:   "alice",
		MapID:      4,
		OrderBy:    "datetime",
		Descending: true,
		Limit:      25,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSearch_AllSkinsDropsVanillaFilter verifies the skin filter disappears
// with all_skins, shifting the placeholder numbering.
func TestSearch_AllSkinsDropsVanillaFilter(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)WHERE h\.skin ILIKE \$1\s+ORDER BY h\.time ASC\s+LIMIT \$2`).
		WithArgs("metalsonic", 1000).
		WillReturnRows(scoreColumns())

	_, err := store.Search(context.Background(), SearchParams{Skin: "metalsonic", AllSkins: true})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapHighscores_GroupsByMap(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)SELECT m\.id, m\.name, h\.skin, h\.username.*GROUP BY skin, map_id.*ORDER BY m\.id, h\.time ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "skin", "username", "time", "time_string", "recorded_at"}).
			AddRow(1, "Greenflower Zone Act 1", "sonic", "alice", 2100, "1:00.00", recordedAt).
			AddRow(1, "Greenflower Zone Act 1", "tails", "bob", 2400, "1:08.16", recordedAt).
			AddRow(2, "Techno Hill Zone Act 1", "sonic", "bob", 3000, "1:25.50", recordedAt))

	records, err := store.MapHighscores(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, records, 2) {
		assert.Equal(t, 1, records[0].ID)
		assert.Len(t, records[0].Skins, 2)
		assert.Equal(t, "alice", records[0].Skins[0].Username)
		assert.Equal(t, 2, records[1].ID)
		assert.Len(t, records[1].Skins, 1)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestLeaderboard_Weights verifies placement points over one map's records.
func TestLeaderboard_Weights(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, name, image, in_rotation FROM maps WHERE in_rotation ORDER BY id").
		WillReturnRows(mapColumns().AddRow(1, "Greenflower Zone Act 1", "gfz1.jpg", true))

	mock.ExpectQuery(`(?s)FROM highscores h.*LIMIT`).
		WillReturnRows(scoreColumns().
			AddRow("alice", "Greenflower Zone Act 1", 1, "sonic", 2100, "1:00.00", recordedAt).
			AddRow("bob", "Greenflower Zone Act 1", 1, "tails", 2200, "1:02.85", recordedAt).
			AddRow("carol", "Greenflower Zone Act 1", 1, "amy", 2300, "1:05.71", recordedAt))

	ranking, err := store.Leaderboard(context.Background(), false)
	assert.NoError(t, err)
	assert.Equal(t, Ranking{
		{Name: "alice", Points: 15},
		{Name: "bob", Points: 12},
		{Name: "carol", Points: 10},
	}, ranking)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestBestSkins_CountsRecordHolders verifies one point per map for the
// record-holding skin.
func TestBestSkins_CountsRecordHolders(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, name, image, in_rotation FROM maps WHERE in_rotation ORDER BY id").
		WillReturnRows(mapColumns().
			AddRow(1, "Greenflower Zone Act 1", "gfz1.jpg", true).
			AddRow(2, "Techno Hill Zone Act 1", "thz1.jpg", true))

	mock.ExpectQuery(`(?s)FROM highscores h.*LIMIT`).
		WillReturnRows(scoreColumns().
			AddRow("alice", "Greenflower Zone Act 1", 1, "sonic", 2100, "1:00.00", recordedAt))
	mock.ExpectQuery(`(?s)FROM highscores h.*LIMIT`).
		WillReturnRows(scoreColumns().
			AddRow("bob", "Techno Hill Zone Act 1", 2, "sonic", 3000, "1:25.50", recordedAt))

	ranking, err := store.BestSkins(context.Background(), false)
	assert.NoError(t, err)
	assert.Equal(t, Ranking{{Name: "sonic", Points: 2}}, ranking)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRanking_MarshalPreservesOrder verifies the ordered-object wire format.
func TestRanking_MarshalPreservesOrder(t *testing.T) {
	r := Ranking{{Name: "alice", Points: 27}, {Name: "bob", Points: 12}}
	data, err := r.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `{"alice":27,"bob":12}`, string(data))
}

func TestTicsToString(t *testing.T) {
	cases := map[int]string{
		0:    "0:00.00",
		2:    "0:00.04",
		34:   "0:00.68",
		75:   "0:02.10",
		4200: "2:00.00",
		2135: "1:01.00",
	}
	for tics, want := range cases {
		assert.Equal(t, want, TicsToString(tics), "tics=%d", tics)
	}
}
