package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/physics"
)

func sampleTrajectory() dynamo.Trajectory {
	return dynamo.Trajectory{
		{Time: 0, LeftCmd: 0.2, RightCmd: 0.2},
		{Time: 0.01, X: 1.0 / 3, LeftSpeed: 12345.678, RightSpeed: 12961.9, LeftCmd: 0.2, RightCmd: 1.5, Heading: -0.001, CurvDistance: 1e-7, HeadingRate: -0.1, CurvSpeed: 0.044},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	meta := RunMetadata{
		Name:       "normal",
		Controller: "constant",
		Params:     map[string]float64{"left": 0.2, "right": 0.2},
		Seed:       42,
		Dt:         0.01,
		TotalTime:  0.02,
		LeftMotor:  physics.Motor{Gain: 100000, TimeConstant: 0.155},
		RightMotor: physics.Motor{Gain: 105000, TimeConstant: 0.157},
		Metrics:    map[string]float64{"control_effort": 0.2},
	}
	traj := sampleTrajectory()

	runID, err := st.Save(meta, traj)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "normal_"))

	loaded, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, loaded.ID)
	assert.Equal(t, int64(42), loaded.Seed)
	assert.Equal(t, 2, loaded.Steps)
	assert.Equal(t, meta.RightMotor, loaded.RightMotor)
	assert.Equal(t, meta.Params, loaded.Params)
	assert.Equal(t, 0.2, loaded.Metrics["control_effort"])

	got, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	assert.Equal(t, traj, got)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := st.Save(RunMetadata{Name: "a"}, nil)
	require.NoError(t, err)
	second, err := st.Save(RunMetadata{Name: "b"}, sampleTrajectory())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].ID)
	assert.Equal(t, second, runs[1].ID)
}

func TestStoreDefaultName(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{}, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "run_"))

	traj, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	assert.Empty(t, traj)
}

func TestLoadTrajectoryRejectsShortRows(t *testing.T) {
	dir := t.TempDir()
	runDir := filepath.Join(dir, "broken")
	require.NoError(t, os.MkdirAll(runDir, 0755))
	doc := strings.Join(dynamo.Columns[:3], ",") + "\n0,1,2\n"
	require.NoError(t, os.WriteFile(filepath.Join(runDir, trajectoryFile), []byte(doc), 0644))

	_, err := New(dir).LoadTrajectory("broken")
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)
}

func TestLoadMissingRun(t *testing.T) {
	_, err := New(t.TempDir()).Load("nope")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTrajectory()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(dynamo.Columns, ","), lines[0])
	assert.Equal(t, "0,0,0,0,0,0.2,0.2,0,0,0,0", lines[1])
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := RunMetadata{ID: "x", Controller: "constant", Dt: 0.01}
	require.NoError(t, ExportJSON(&buf, meta, sampleTrajectory()))

	var decoded ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "x", decoded.ID)
	assert.Equal(t, 2, decoded.Steps)
	assert.Equal(t, sampleTrajectory(), decoded.Trajectory)
}
