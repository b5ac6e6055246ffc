package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run    RunMetadata  `json:"run"`
	Frames []FrameStats `json:"frames"`
}

// Export writes a run's metadata and per-frame statistics as one JSON
// document.
func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	stats, err := s.LoadStats(runID)
	if err != nil {
		return err
	}

	for i := range stats {
		stats[i].Metrics = finiteMetrics(stats[i].Metrics)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Frames: stats})
}
