package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/san-kum/pacer/internal/pacer"
	"github.com/san-kum/pacer/internal/sim"
)

var (
	sampleHeader = []string{"step", "time", "track", "n", "direction", "key_index"}
	eventHeader  = []string{"time", "track", "kind", "key", "label"}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteSamplesCSV writes one row per sample. Value columns are the union of
// all sampled value names in sorted order; a value a sample lacks is left
// empty.
func WriteSamplesCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	seen := make(map[string]bool)
	var names []string
	for _, s := range result.Samples {
		for name := range s.Values {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)

	header := append(append([]string{}, sampleHeader...), names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range result.Samples {
		row := []string{
			strconv.Itoa(s.Step),
			formatFloat(s.Time),
			s.Track,
			formatFloat(s.N),
			strconv.Itoa(s.Direction),
			strconv.Itoa(s.KeyIndex),
		}
		for _, name := range names {
			if v, ok := s.Values[name]; ok {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func ReadSamplesCSV(in io.Reader) ([]sim.Sample, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	header := records[0]
	if len(header) < len(sampleHeader) {
		return nil, fmt.Errorf("storage: samples header has %d columns, want at least %d", len(header), len(sampleHeader))
	}
	names := header[len(sampleHeader):]

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < len(sampleHeader) {
			continue
		}

		var s sim.Sample
		var perr error
		parseInt := func(v string) int {
			n, err := strconv.Atoi(v)
			if err != nil && perr == nil {
				perr = err
			}
			return n
		}
		parseFloat := func(v string) float64 {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil && perr == nil {
				perr = err
			}
			return f
		}

		s.Step = parseInt(record[0])
		s.Time = parseFloat(record[1])
		s.Track = record[2]
		s.N = parseFloat(record[3])
		s.Direction = parseInt(record[4])
		s.KeyIndex = parseInt(record[5])
		if perr != nil {
			return nil, fmt.Errorf("storage: samples row %d: %w", i+1, perr)
		}

		s.Values = make(pacer.Values, len(names))
		for j, name := range names {
			col := len(sampleHeader) + j
			if col >= len(record) || record[col] == "" {
				continue
			}
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				v = math.NaN()
			}
			s.Values[name] = v
		}
		samples = append(samples, s)
	}

	return samples, nil
}

func WriteEventsCSV(out io.Writer, events []sim.EventRecord) error {
	w := csv.NewWriter(out)
	if err := w.Write(eventHeader); err != nil {
		return err
	}
	for _, e := range events {
		row := []string{
			formatFloat(e.Time),
			e.Track,
			e.Kind.String(),
			strconv.Itoa(e.Key),
			e.Label,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ReadEventsCSV(in io.Reader) ([]sim.EventRecord, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(eventHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	events := make([]sim.EventRecord, 0, len(records))
	for i, record := range records {
		if i == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: events row %d: %w", i, err)
		}
		kind, ok := pacer.ParseEventKind(record[2])
		if !ok {
			return nil, fmt.Errorf("storage: events row %d: unknown kind %q", i, record[2])
		}
		key, err := strconv.Atoi(record[3])
		if err != nil {
			return nil, fmt.Errorf("storage: events row %d: %w", i, err)
		}
		events = append(events, sim.EventRecord{
			Time:  t,
			Track: record[1],
			Kind:  kind,
			Key:   key,
			Label: record[4],
		})
	}
	return events, nil
}
