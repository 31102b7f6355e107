package smartcare

// Stats summarizes one lookup window.
type Stats struct {
	TotalTraffic    float64
	AvgScore        float64
	AvgLatency      float64
	PeakTraffic     float64
	PeakTrafficTime string
	DataPoints      int
	ActiveHours     int
}

// CalculateStats aggregates the hourly entries. Zero scores and latencies
// are treated as "no measurement" and excluded from the averages.
func CalculateStats(history []HistoryEntry) Stats {
	stats := Stats{PeakTrafficTime: "N/A", DataPoints: len(history)}
	if len(history) == 0 {
		return stats
	}

	var scoreSum, latencySum float64
	var scoreCount, latencyCount int

	for _, entry := range history {
		traffic := float64(entry.TotalTraffic)
		stats.TotalTraffic += traffic
		if traffic > 0 {
			stats.ActiveHours++
		}
		if traffic > stats.PeakTraffic {
			stats.PeakTraffic = traffic
			stats.PeakTrafficTime = entry.Text
		}

		if score := float64(entry.TotalScore); score > 0 {
			scoreSum += score
			scoreCount++
		}
		if latency := float64(entry.TotalLatency); latency > 0 {
			latencySum += latency
			latencyCount++
		}
	}

	if scoreCount > 0 {
		stats.AvgScore = scoreSum / float64(scoreCount)
	}
	if latencyCount > 0 {
		stats.AvgLatency = latencySum / float64(latencyCount)
	}
	return stats
}
