package store

import "math"

// Seen returns the full seen history.
func (s *Store) Seen() SeenData {
	data := SeenData{Seen: map[string]SeenEntry{}}
	loadJSON("seen", s.seenPath, &data)
	if data.Seen == nil {
		data.Seen = map[string]SeenEntry{}
	}
	return data
}

// MarkSeenBatch records a batch of paths as seen. Paths seen for the first
// time get a fresh entry and increment the total scroll counter; repeat
// sightings bump seen_count and last_seen only.
func (s *Store) MarkSeenBatch(paths []string) (SeenData, error) {
	var data SeenData
	err := withFileLock(s.seenPath, func() error {
		data = SeenData{Seen: map[string]SeenEntry{}}
		loadJSON("seen", s.seenPath, &data)
		if data.Seen == nil {
			data.Seen = map[string]SeenEntry{}
		}

		now := s.now().Unix()
		for _, path := range paths {
			if entry, ok := data.Seen[path]; ok {
				entry.SeenCount++
				entry.LastSeen = now
				data.Seen[path] = entry
				continue
			}
			data.Seen[path] = SeenEntry{
				FirstSeen: now,
				LastSeen:  now,
				SeenCount: 1,
			}
			data.TotalScrolls++
		}

		return saveJSON("seen", s.seenPath, &data)
	})
	return data, err
}

// SeenStats summarizes the seen history against totalCount library items.
func (s *Store) SeenStats(totalCount int) SeenStats {
	data := s.Seen()
	stats := SeenStats{
		SeenCount:    len(data.Seen),
		TotalCount:   totalCount,
		TotalScrolls: data.TotalScrolls,
	}
	if totalCount > 0 {
		stats.PercentSeen = math.Round(float64(stats.SeenCount)/float64(totalCount)*1000) / 10
	}
	return stats
}

// ResetSeen clears the entire seen history.
func (s *Store) ResetSeen() error {
	return withFileLock(s.seenPath, func() error {
		return saveJSON("seen", s.seenPath, &SeenData{Seen: map[string]SeenEntry{}})
	})
}
