package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/diffsim/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Trajectory dynamo.Trajectory `json:"trajectory"`
}

func ExportJSON(w io.Writer, meta RunMetadata, traj dynamo.Trajectory) error {
	meta.Steps = len(traj)
	data := ExportData{
		RunMetadata: meta,
		Trajectory:  traj,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteCSV writes one header row then one row per sample. Values use the
// shortest representation that parses back to the same float.
func WriteCSV(w io.Writer, traj dynamo.Trajectory) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(dynamo.Columns); err != nil {
		return err
	}
	row := make([]string, len(dynamo.Columns))
	for _, s := range traj {
		for i, v := range s.Values() {
			row[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
