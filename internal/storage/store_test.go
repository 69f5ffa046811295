package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/pacer/internal/pacer"
	"github.com/san-kum/pacer/internal/sim"
)

func sampleRun(t *testing.T) *sim.Result {
	t.Helper()
	reg := pacer.NewRegistry()
	a := reg.NewTrack("a").Clamp()
	a.InsertAbsolute(0, pacer.Values{"x": 0}).Label("start")
	a.InsertAbsolute(10, pacer.Values{"x": 100}).Label("end")
	b := reg.NewTrack("b")
	b.InsertAbsolute(0, pacer.Values{"y": 1})
	b.InsertAbsolute(10, pacer.Values{"y": 2})

	result, err := sim.New(reg).Run(context.Background(), sim.Config{From: -2, To: 10, Step: 2})
	require.NoError(t, err)
	result.Metrics["overshoot"] = 0.5
	return result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	result := sampleRun(t)
	info := RunInfo{Name: "ui/fade", Timeline: "ui/fade", Units: "ms", From: -2, To: 10, Step: 2}

	runID, err := st.Save(info, result)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "ui-fade_"), runID)
	assert.Len(t, strings.Split(runID, "_"), 3)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, info, meta.Info)
	assert.Equal(t, []string{"a", "b"}, meta.Tracks)
	assert.Equal(t, []string{"x"}, meta.Keys["a"])
	assert.Equal(t, 7, meta.Steps)
	assert.Equal(t, 14, meta.Samples)
	assert.Equal(t, 0.5, meta.Metrics["overshoot"])

	samples, err := st.LoadSamples(runID)
	require.NoError(t, err)
	require.Len(t, samples, len(result.Samples))
	for i := range samples {
		assert.Equal(t, result.Samples[i].Step, samples[i].Step)
		assert.Equal(t, result.Samples[i].Track, samples[i].Track)
		assert.Equal(t, result.Samples[i].Values, samples[i].Values)
		assert.Equal(t, result.Samples[i].Direction, samples[i].Direction)
	}

	events, err := st.LoadEvents(runID)
	require.NoError(t, err)
	assert.Equal(t, result.Events, events)

	_, loaded, err := st.LoadResult(runID)
	require.NoError(t, err)
	assert.Equal(t, result.Times, loaded.Times)
	_, xs := loaded.Series("a", "x")
	assert.Equal(t, []float64{0, 0, 20, 40, 60, 80, 100}, xs)
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("nope")
	require.ErrorIs(t, err, ErrRunNotFound)

	_, err = st.LoadSamples("nope")
	require.ErrorIs(t, err, ErrRunNotFound)

	_, err = st.Latest()
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	result := sampleRun(t)
	id1, err := st.Save(RunInfo{Name: "one"}, result)
	require.NoError(t, err)
	id2, err := st.Save(RunInfo{Name: "two"}, result)
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	latest, err := st.Latest()
	require.NoError(t, err)
	assert.Contains(t, []string{id1, id2}, latest.ID)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSamplesCSVMissingValues(t *testing.T) {
	result := &sim.Result{Samples: []sim.Sample{
		{Step: 0, Time: 1, Track: "a", Values: pacer.Values{"x": 1}},
		{Step: 0, Time: 1, Track: "b", Values: pacer.Values{"y": 2}},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteSamplesCSV(&buf, result))
	assert.Equal(t, "step,time,track,n,direction,key_index,x,y", strings.SplitN(buf.String(), "\n", 2)[0])

	samples, err := ReadSamplesCSV(&buf)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, pacer.Values{"x": 1}, samples[0].Values)
	assert.Equal(t, pacer.Values{"y": 2}, samples[1].Values)
}

func TestEventsCSVUnknownKind(t *testing.T) {
	in := strings.NewReader("time,track,kind,key,label\n1,a,explode,0,\n")
	_, err := ReadEventsCSV(in)
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	result := sampleRun(t)
	result.Samples[0].Values["bad"] = math.NaN()

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, "id", RunInfo{Name: "x"}, result))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "id", data.ID)
	assert.Len(t, data.Samples, len(result.Samples))
	assert.Len(t, data.Events, len(result.Events))
	assert.NotContains(t, data.Samples[0].Values, "bad")
	assert.Equal(t, "before", data.Events[0].Kind)
}
