// Package export writes stored trajectories to CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/symgrad/internal/store"
)

// CSV writes one row per (step, body) sample with a header line.
func CSV(w io.Writer, samples []store.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "t", "body", "x", "y", "z", "vx", "vy", "vz"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Step),
			f(s.T), strconv.Itoa(s.Body),
			f(s.X), f(s.Y), f(s.Z),
			f(s.VX), f(s.VY), f(s.VZ),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(v float64) string { return strconv.FormatFloat(v, 'g', 17, 64) }

// RunJSON is the JSON export shape: run metadata plus its samples.
type RunJSON struct {
	Run     *store.Run     `json:"run"`
	Samples []store.Sample `json:"samples"`
}

// JSON writes the run and its samples as indented JSON.
func JSON(w io.Writer, run *store.Run, samples []store.Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(RunJSON{Run: run, Samples: samples})
}
