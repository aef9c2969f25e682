package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/san-kum/circuitsim/internal/dynamo"
)

const (
	colTime     = "time"
	colInput    = "input"
	colAnalytic = "analytic"
)

// WriteCSV writes one row per sample: time, input, the state components named
// by labels, analytic (when present) and the derived series in name order.
func WriteCSV(w io.Writer, tr *dynamo.Trajectory, labels []string) error {
	if tr.Len() > 0 && len(labels) != len(tr.States[0]) {
		return fmt.Errorf("%w: %d labels for %d state components", dynamo.ErrDomainMismatch, len(labels), len(tr.States[0]))
	}
	derived := derivedNames(tr)
	hasAnalytic := len(tr.Analytic) == tr.Len() && tr.Len() > 0

	header := append([]string{colTime, colInput}, labels...)
	if hasAnalytic {
		header = append(header, colAnalytic)
	}
	header = append(header, derived...)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for k := 0; k < tr.Len(); k++ {
		row = row[:0]
		row = append(row, formatFloat(tr.Time[k]), formatFloat(tr.Input[k]))
		for _, v := range tr.States[k] {
			row = append(row, formatFloat(v))
		}
		if hasAnalytic {
			row = append(row, formatFloat(tr.Analytic[k]))
		}
		for _, name := range derived {
			row = append(row, formatFloat(tr.Derived[name][k]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV is the inverse of WriteCSV.
func ReadCSV(r io.Reader, labels []string) (*dynamo.Trajectory, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty trajectory file")
	}

	stateIdx := make(map[string]int, len(labels))
	for i, l := range labels {
		stateIdx[l] = i
	}

	header := records[0]
	rows := records[1:]
	tr := &dynamo.Trajectory{
		Time:   make([]float64, len(rows)),
		Input:  make([]float64, len(rows)),
		States: make([]dynamo.State, len(rows)),
	}
	for k := range tr.States {
		tr.States[k] = make(dynamo.State, len(labels))
	}

	for col, name := range header {
		series := make([]float64, len(rows))
		for k, rec := range rows {
			v, err := strconv.ParseFloat(rec[col], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", k+1, name, err)
			}
			series[k] = v
		}

		switch name {
		case colTime:
			tr.Time = series
		case colInput:
			tr.Input = series
		case colAnalytic:
			tr.Analytic = series
		default:
			if i, ok := stateIdx[name]; ok {
				for k, v := range series {
					tr.States[k][i] = v
				}
			} else {
				tr.SetDerived(name, series)
			}
		}
	}
	return tr, nil
}

// ExportData is the JSON form of a run.
type ExportData struct {
	Metadata RunMetadata          `json:"metadata"`
	Times    []float64            `json:"times"`
	Input    []float64            `json:"input"`
	States   map[string][]float64 `json:"states"`
	Analytic []float64            `json:"analytic,omitempty"`
	Derived  map[string][]float64 `json:"derived,omitempty"`
}

// WriteJSON encodes meta and tr as indented JSON. Non-finite samples are
// written as null.
func WriteJSON(w io.Writer, meta RunMetadata, tr *dynamo.Trajectory) error {
	data := ExportData{
		Metadata: meta.finite(),
		Times:    tr.Time,
		Input:    tr.Input,
		States:   make(map[string][]float64, len(meta.Labels)),
		Analytic: tr.Analytic,
		Derived:  tr.Derived,
	}
	for i, l := range meta.Labels {
		data.States[l] = tr.Component(i)
	}
	if tr.Diverged() {
		return encodeNullable(w, data)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// encodeNullable replaces NaN and Inf, which encoding/json rejects, with null.
func encodeNullable(w io.Writer, data ExportData) error {
	nullable := func(xs []float64) []*float64 {
		if xs == nil {
			return nil
		}
		out := make([]*float64, len(xs))
		for i := range xs {
			if v := xs[i]; !isNonFinite(v) {
				out[i] = &xs[i]
			}
		}
		return out
	}
	nullableMap := func(m map[string][]float64) map[string][]*float64 {
		out := make(map[string][]*float64, len(m))
		for k, v := range m {
			out[k] = nullable(v)
		}
		return out
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Metadata RunMetadata           `json:"metadata"`
		Times    []float64             `json:"times"`
		Input    []*float64            `json:"input"`
		States   map[string][]*float64 `json:"states"`
		Analytic []*float64            `json:"analytic,omitempty"`
		Derived  map[string][]*float64 `json:"derived,omitempty"`
	}{
		Metadata: data.Metadata,
		Times:    data.Times,
		Input:    nullable(data.Input),
		States:   nullableMap(data.States),
		Analytic: nullable(data.Analytic),
		Derived:  nullableMap(data.Derived),
	})
}

func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func derivedNames(tr *dynamo.Trajectory) []string {
	names := make([]string, 0, len(tr.Derived))
	for name, series := range tr.Derived {
		if len(series) == tr.Len() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
