package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/udisondev/navspread/internal/geom"
	"github.com/udisondev/navspread/internal/spread"
)

// spawnsFile mirrors the on-disk spawn JSON: positions keyed by side.
type spawnsFile struct {
	CT []spawnEntry `json:"CT"`
	T  []spawnEntry `json:"T"`
}

type spawnEntry struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LoadSpawns reads a spawns JSON file into the two opposing spawn sets.
func LoadSpawns(path string) (ct, t spread.SpawnSet, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ct, t, fmt.Errorf("reading spawns file %s: %w", path, err)
	}
	var sf spawnsFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return ct, t, fmt.Errorf("parsing spawns file %s: %w", path, err)
	}

	ct = spread.SpawnSet{Team: "CT"}
	for _, e := range sf.CT {
		ct.Points = append(ct.Points, geomPos(e))
	}
	t = spread.SpawnSet{Team: "T"}
	for _, e := range sf.T {
		t.Points = append(t.Points, geomPos(e))
	}
	return ct, t, nil
}

func geomPos(e spawnEntry) geom.Position {
	return geom.Position{X: e.X, Y: e.Y, Z: e.Z}
}
