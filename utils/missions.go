package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Mission is a recurring or one-time objective with a chip reward.
type Mission struct {
	ID          string
	Name        string
	Description string
	Requirement string
	Target      int
	Reward      int64
}

// Mission catalogs by reset class. One-time missions never reset.
var MissionCatalog = map[string][]Mission{
	"daily": {
		{"play_slots", "Slot Enthusiast", "Play 5 slot games", "slots_plays", 5, 100},
		{"win_games", "Winner", "Win 3 games", "wins", 3, 150},
	},
	"weekly": {
		{"slot_master", "Slot Master", "Win 10 slot games", "slots_wins", 10, 500},
	},
	"one_time": {
		{"level_5", "Level Up", "Reach rank 5", "rank", 5, 1000},
		{"jackpot", "Jackpot Hunter", "Win the jackpot", "jackpot_wins", 1, 2000},
	},
}

// InitializeMissions builds a fresh progress map covering the whole catalog.
func InitializeMissions() JSONB {
	missions := make(JSONB, len(MissionCatalog))
	for missionType, catalog := range MissionCatalog {
		group := make(map[string]interface{}, len(catalog))
		for _, m := range catalog {
			group[m.ID] = map[string]interface{}{"progress": float64(0), "completed": false}
		}
		missions[missionType] = group
	}
	return missions
}

// missionState digs the {progress, completed} pair for one mission out of the
// JSONB blob, tolerating missing or malformed entries.
func missionState(missions JSONB, missionType, id string) (int, bool) {
	group, ok := missions[missionType].(map[string]interface{})
	if !ok {
		return 0, false
	}
	state, ok := group[id].(map[string]interface{})
	if !ok {
		return 0, false
	}

	progress := 0
	if p, ok := state["progress"].(float64); ok {
		progress = int(p)
	}
	completed, _ := state["completed"].(bool)
	return progress, completed
}

// setMissionState writes one mission's state into a fresh copy of its group
// map. The incoming blob shares nested maps with cached users, so the group is
// never mutated in place.
func setMissionState(missions JSONB, missionType, id string, progress int, completed bool) {
	group := make(map[string]interface{})
	if old, ok := missions[missionType].(map[string]interface{}); ok {
		for k, v := range old {
			group[k] = v
		}
	}
	group[id] = map[string]interface{}{"progress": float64(progress), "completed": completed}
	missions[missionType] = group
}

// ApplyMissionEvents advances mission progress by the given event counts and
// returns the new blob, the total chip reward, and the missions completed by
// this call. Counter events accumulate; the "rank" event is a high-water mark.
func ApplyMissionEvents(missions JSONB, events map[string]int) (JSONB, int64, []Mission) {
	if len(missions) == 0 {
		missions = InitializeMissions()
	}

	updated := make(JSONB, len(missions))
	for k, v := range missions {
		updated[k] = v
	}

	var reward int64
	var completed []Mission

	for missionType, catalog := range MissionCatalog {
		for _, m := range catalog {
			delta, hit := events[m.Requirement]
			if !hit {
				continue
			}

			progress, done := missionState(updated, missionType, m.ID)
			if done {
				continue
			}

			if m.Requirement == "rank" {
				if delta > progress {
					progress = delta
				}
			} else {
				progress += delta
			}

			nowDone := progress >= m.Target
			setMissionState(updated, missionType, m.ID, progress, nowDone)
			if nowDone {
				reward += m.Reward
				completed = append(completed, m)
			}
		}
	}

	return updated, reward, completed
}

// ResetMissions zeroes all missions of one reset class.
func ResetMissions(missions JSONB, missionType string) JSONB {
	catalog, ok := MissionCatalog[missionType]
	if !ok {
		return missions
	}

	updated := make(JSONB, len(missions)+1)
	for k, v := range missions {
		updated[k] = v
	}

	group := make(map[string]interface{}, len(catalog))
	for _, m := range catalog {
		group[m.ID] = map[string]interface{}{"progress": float64(0), "completed": false}
	}
	updated[missionType] = group
	return updated
}

// ResetAllMissions zeroes one reset class for every stored profile and
// flushes the cache so stale blobs are not served.
func ResetAllMissions(missionType string) error {
	catalog, ok := MissionCatalog[missionType]
	if !ok {
		return fmt.Errorf("unknown mission type: %s", missionType)
	}

	if Cache != nil {
		Cache.Flush()
	}
	if DB == nil {
		return nil
	}

	group := make(map[string]interface{}, len(catalog))
	for _, m := range catalog {
		group[m.ID] = map[string]interface{}{"progress": 0, "completed": false}
	}
	payload, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("failed to encode mission reset: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = DB.Exec(ctx,
		`UPDATE users SET missions = jsonb_set(COALESCE(missions, '{}'::jsonb), $1, $2::jsonb)`,
		[]string{missionType}, string(payload))
	if err != nil {
		return fmt.Errorf("failed to reset %s missions: %w", missionType, err)
	}
	return nil
}

// MissionProgress reports progress toward one mission for display.
func MissionProgress(missions JSONB, missionType, id string) (int, bool) {
	return missionState(missions, missionType, id)
}
