package learn

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vancomm/minesweeper-rl/internal/mines"
)

func TestWriteCSV(t *testing.T) {
	table := NewValueTable(1)
	table.Update(mines.Hash{20, 1}, open(2, 3), 0.5)
	table.Update(mines.Hash{3, 9}, open(0, 1), -1)
	table.Update(mines.Hash{3, 9}, open(1, 0), 1)

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))

	want := "3,9,0,1,-1\n" +
		"3,9,1,0,1\n" +
		"20,1,2,3,0.5\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVRoundTrip(t *testing.T) {
	g, err := mines.NewGame(mines.Config{Width: 5, Height: 5, BombCount: 5})
	require.NoError(t, err)
	learner := NewLearner(g, NewAgent(NewValueTable(0.1), 0.2, 1), DefaultRewards, nil)
	for range 50 {
		_, err := learner.Episode()
		require.NoError(t, err)
	}
	table := learner.agent.Table()

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))

	loaded, err := ReadCSV(&buf, 0.1)
	require.NoError(t, err)
	assert.Equal(t, table.Len(), loaded.Len())
	assert.Equal(t, table.Entries(), loaded.Entries())

	for _, s := range table.states {
		for _, a := range s.actions {
			v, ok := loaded.Value(s.hash, a.cmd)
			require.True(t, ok)
			assert.Equal(t, a.value, v)
		}
		want, wantOK := table.Best(s.hash)
		got, gotOK := loaded.Best(s.hash)
		assert.Equal(t, wantOK, gotOK)
		assert.Equal(t, want, got)
	}
}

func TestReadCSVMalformed(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"too few fields", "1,2,3\n"},
		{"bad hash word", "x,0,0,1\n"},
		{"negative hash word", "-1,0,0,1\n"},
		{"bad row", "1,a,0,1\n"},
		{"bad col", "1,0,b,1\n"},
		{"bad value", "1,0,0,high\n"},
		{"ragged records", "1,0,0,1\n1,2,0,0,1\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tc.input), 1)
			assert.ErrorIs(t, err, ErrMalformedValueFile)
		})
	}
}

func TestReadCSVLineNumber(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("1,0,0,1\n2,0,0,oops\n"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadCSVEmpty(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(""), 0.3)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 0.3, table.StepSize())
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.csv")

	table := NewValueTable(1)
	table.Update(mines.Hash{0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFF}, open(4, 4), 1)
	require.NoError(t, table.SaveFile(path))

	loaded, err := LoadFile(path, 1)
	require.NoError(t, err)
	v, ok := loaded.Value(mines.Hash{0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFF}, open(4, 4))
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"), 1)
	assert.Error(t, err)
}
