package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/symgrad/internal/nbody"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveLoadRun(t *testing.T) {
	db := openTestDB(t)

	run := &Run{
		Scheme:      "ah18",
		Bodies:      2,
		H:           0.05,
		Tmax:        10,
		Steps:       200,
		WallMS:      12,
		EnergyDrift: 1e-12,
		JacDet:      1.0,
		Finite:      true,
	}
	require.NoError(t, db.SaveRun(run))
	require.NotEmpty(t, run.ID)

	loaded, err := db.LoadRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Scheme, loaded.Scheme)
	assert.Equal(t, run.Steps, loaded.Steps)
	assert.Equal(t, run.EnergyDrift, loaded.EnergyDrift)
	assert.True(t, loaded.Finite)

	runs, err := db.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestSaveLoadSamples(t *testing.T) {
	db := openTestDB(t)

	run := &Run{Scheme: "ah18", Bodies: 2, H: 0.1, Tmax: 1, Steps: 10, Finite: true}
	require.NoError(t, db.SaveRun(run))

	s := nbody.NewState(2, 1.0)
	s.SetBody(0, 1.0, [3]float64{0, 0, 0}, [3]float64{0, 0, 0})
	s.SetBody(1, 1e-3, [3]float64{1, 0, 0}, [3]float64{0, 1, 0})
	s.T[0] = 0.5
	require.NoError(t, db.SaveSample(run.ID, 5, s))

	samples, err := db.LoadSamples(run.ID)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 1.0, samples[1].X)
	assert.Equal(t, 1.0, samples[1].VY)
	assert.Equal(t, 0.5, samples[0].T)
}

func TestLoadMissingRun(t *testing.T) {
	db := openTestDB(t)
	_, err := db.LoadRun("nope")
	assert.Error(t, err)
}
