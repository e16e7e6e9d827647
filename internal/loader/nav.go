package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/udisondev/navspread/internal/geom"
	"github.com/udisondev/navspread/internal/nav"
)

// navFile mirrors the on-disk nav JSON layout: areas keyed by their
// original (sparse) ids.
type navFile struct {
	Version    uint32                  `json:"version"`
	SubVersion uint32                  `json:"sub_version"`
	Areas      map[string]navAreaEntry `json:"areas"`
}

type navAreaEntry struct {
	AreaID      uint32          `json:"area_id"`
	Corners     []geom.Position `json:"corners"`
	Connections []uint32        `json:"connections"`
}

// LoadNavAreas reads a nav JSON file and renumbers its areas into the dense
// 0..N-1 id space the graph wants. Original ids are mapped in ascending
// order so the renumbering is stable across runs. Connections referencing
// unknown original ids are carried through as invalid so nav.Build reports
// them instead of silently dropping them.
func LoadNavAreas(path string) ([]nav.Area, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading nav file %s: %w", path, err)
	}
	var nf navFile
	if err := json.Unmarshal(data, &nf); err != nil {
		return nil, fmt.Errorf("parsing nav file %s: %w", path, err)
	}

	origIDs := make([]uint32, 0, len(nf.Areas))
	for key := range nf.Areas {
		id, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing nav file %s: bad area key %q", path, key)
		}
		origIDs = append(origIDs, uint32(id))
	}
	sort.Slice(origIDs, func(i, j int) bool { return origIDs[i] < origIDs[j] })

	dense := make(map[uint32]nav.AreaID, len(origIDs))
	for i, orig := range origIDs {
		dense[orig] = nav.AreaID(i)
	}

	areas := make([]nav.Area, 0, len(origIDs))
	for i, orig := range origIDs {
		entry := nf.Areas[strconv.FormatUint(uint64(orig), 10)]
		neighbors := make([]nav.AreaID, 0, len(entry.Connections))
		for _, conn := range entry.Connections {
			id, ok := dense[conn]
			if !ok {
				id = -1 // dangling, reported by nav.Build
			}
			neighbors = append(neighbors, id)
		}
		areas = append(areas, nav.NewArea(nav.AreaID(i), entry.Corners, neighbors))
	}
	return areas, nil
}
