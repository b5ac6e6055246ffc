package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fieldtex/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statsFile    = "stats.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Timestamp     time.Time          `json:"timestamp"`
	Config        sim.Config         `json:"config"`
	Files         []string           `json:"files"`
	SkippedFrames []int              `json:"skipped_frames,omitempty"`
	FinalClock    float64            `json:"final_clock"`
	Elapsed       float64            `json:"elapsed_seconds"`
	Metrics       map[string]float64 `json:"metrics"`
	Complete      bool               `json:"complete"`
	Error         string             `json:"error,omitempty"`
}

// FrameStats is one row of stats.csv.
type FrameStats struct {
	Frame   int
	Clock   float64
	Angle   float64
	Elapsed float64
	Metrics map[string]float64
}

// Begin creates a run directory for a render starting now.
func (s *Store) Begin(name string, cfg sim.Config) (*Run, error) {
	return s.BeginAt(name, cfg, time.Now())
}

func (s *Store) BeginAt(name string, cfg sim.Config, start time.Time) (*Run, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	base := fmt.Sprintf("%s_%s", name, start.Format("20060102-150405"))
	runID := base
	for i := 1; ; i++ {
		err := os.Mkdir(s.Dir(runID), 0755)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}
		runID = fmt.Sprintf("%s-%d", base, i)
	}

	return &Run{
		dir:   s.Dir(runID),
		start: start,
		meta: RunMetadata{
			ID:        runID,
			Name:      name,
			Timestamp: start,
			Config:    cfg,
			Files:     []string{},
		},
	}, nil
}

// List returns every run with readable metadata, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadStats(runID string) ([]FrameStats, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), statsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []FrameStats{}, nil
	}

	header := records[0]
	if len(header) < 4 {
		return nil, fmt.Errorf("%s: malformed header %v", statsFile, header)
	}

	stats := make([]FrameStats, 0, len(records)-1)
	for _, record := range records[1:] {
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s: bad frame %q: %w", statsFile, record[0], err)
		}

		vals := make([]float64, len(record)-1)
		for j := 1; j < len(record); j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: bad value %q in column %s: %w", statsFile, record[j], header[j], err)
			}
			vals[j-1] = v
		}

		fs := FrameStats{
			Frame:   frame,
			Clock:   vals[0],
			Angle:   vals[1],
			Elapsed: vals[2],
			Metrics: make(map[string]float64, len(header)-4),
		}
		for j := 4; j < len(header); j++ {
			fs.Metrics[header[j]] = vals[j-1]
		}
		stats = append(stats, fs)
	}

	return stats, nil
}

func writeStats(path string, frames []sim.FrameReport) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeStats(file, frames); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func encodeStats(out io.Writer, frames []sim.FrameReport) error {
	w := csv.NewWriter(out)

	var names []string
	if len(frames) > 0 {
		for name := range frames[0].Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	header := append([]string{"frame", "clock", "angle", "elapsed"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, fr := range frames {
		row := []string{
			strconv.Itoa(fr.Frame),
			strconv.FormatFloat(fr.Clock, 'g', -1, 64),
			strconv.FormatFloat(fr.Angle, 'g', -1, 64),
			strconv.FormatFloat(fr.Elapsed.Seconds(), 'f', 6, 64),
		}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(fr.Metrics[name], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// writeMetadata encodes before touching path, so a failed encode leaves any
// existing file intact.
func writeMetadata(path string, meta RunMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// finiteMetrics drops values JSON cannot represent.
func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for name, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[name] = v
	}
	return out
}
