package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/chainsim/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Times  []float64      `json:"times"`
	States []dynamo.State `json:"states"`
}

// WriteJSON encodes a run's metadata and samples to w.
func WriteJSON(w io.Writer, meta *RunMetadata, states []dynamo.State, times []float64) error {
	data := ExportData{
		RunMetadata: *meta,
		Times:       times,
		States:      states,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes a stored run to path, or to stdout when path is empty
// or "-".
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	if path == "" || path == "-" {
		return WriteJSON(os.Stdout, meta, states, times)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, states, times)
}
