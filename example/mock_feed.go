package main

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// mockMap is one entry of the demo map rotation.
type mockMap struct {
	name  string
	image string
}

// StartMockFeed runs a mock /server_info feed that rotates through maps and
// shuffles the player list every 20-40 seconds.
// Call this in a goroutine before starting the board.
func StartMockFeed(addr string) {
	maps := []mockMap{
		{name: "Greenflower Zone Act 1", image: "gfz1.jpg"},
		{name: "Techno Hill Zone Act 1", image: "thz1.jpg"},
		{name: "Deep Sea Zone Act 1", image: "None"},
		{name: "St Mere Eglise", image: "stmereeglise.jpg"},
	}
	names := []string{"alice", "bob", "carol", "dave", "<Sonic&Co>"}
	skins := []string{"sonic", "tails", "knuckles", "amy", "fang", "metalsonic"}

	var (
		mu           sync.Mutex
		mapIdx       int
		nextChangeAt = time.Now().Add(time.Duration(20+rand.Intn(21)) * time.Second)
	)

	http.HandleFunc("/server_info", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		if time.Now().After(nextChangeAt) {
			mapIdx = (mapIdx + 1) % len(maps)
			nextChangeAt = time.Now().Add(time.Duration(20+rand.Intn(21)) * time.Second)
			slog.Info("map change", "map", maps[mapIdx].name)
		}
		current := maps[mapIdx]
		mu.Unlock()

		players := make([]map[string]interface{}, 0)
		for i := 0; i < 2+rand.Intn(len(names)-1); i++ {
			players = append(players, map[string]interface{}{
				"name": names[i],
				"skin": skins[rand.Intn(len(skins))],
			})
		}

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"servername":        "Mock SRB2 Server",
			"number_of_players": len(players),
			"max_players":       16,
			"map": map[string]interface{}{
				"name":  current.name,
				"image": current.image,
			},
			"players": players,
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	if err := http.ListenAndServe(addr, nil); err != nil {
		slog.Error("mock feed error", "error", err)
	}
}
