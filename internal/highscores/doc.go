// Package highscores provides the Postgres-backed store for maps and
// highscore records, plus the derived views the API serves: best-time
// search, per-map records, the player leaderboard and the best-skins tally.
package highscores
