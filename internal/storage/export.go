package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/mmwave/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Steps    int         `json:"steps"`
	Times    []float64   `json:"times"`
	States   [][]float64 `json:"states"`
	Controls [][]float64 `json:"controls"`
	// Populations holds the level populations per record when known.
	Populations [][]float64 `json:"populations,omitempty"`
}

// NewExport collects a run for JSON export.
func NewExport(meta RunMetadata, result *dynamo.Result, populations [][]float64) ExportData {
	meta.Metrics = result.Metrics
	data := ExportData{
		RunMetadata: meta,
		Steps:       len(result.Times),
		Times:       result.Times,
		States:      make([][]float64, len(result.States)),
		Controls:    make([][]float64, len(result.Controls)),
		Populations: populations,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	for i, c := range result.Controls {
		data.Controls[i] = c
	}
	return data
}

func (d ExportData) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return data.Write(file)
}

func ExportJSONStdout(data ExportData) error {
	return data.Write(os.Stdout)
}
