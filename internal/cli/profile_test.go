package cli

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProfileJSON(t *testing.T) {
	path := writeFile(t, "sales.csv", "units,price,region\n1,2,north\n2,4,south\n3,,east\n")

	out, err := execute(t, "profile", path, "--format", "json")
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))

	assert.Equal(t, "sales.csv", rep.File)
	assert.Equal(t, 3, rep.Rows)
	assert.Equal(t, []columnReport{
		{Name: "units", DType: "int64", Missing: 0},
		{Name: "price", DType: "float64", Missing: 1},
		{Name: "region", DType: "object", Missing: 0},
	}, rep.Columns)

	require.Len(t, rep.Describe, 2)
	assert.Equal(t, "units", rep.Describe[0].Column)
	require.NotNil(t, rep.Describe[0].Mean)
	assert.InDelta(t, 2.0, *rep.Describe[0].Mean, 1e-9)
	assert.Equal(t, 2, rep.Describe[1].Count)

	require.NotNil(t, rep.Correlation)
	assert.Equal(t, []string{"units", "price"}, rep.Correlation.Columns)
	require.NotNil(t, rep.Correlation.Values[0][1])
	assert.InDelta(t, 1.0, *rep.Correlation.Values[0][1], 1e-9)
}

func TestProfileYAMLPrintsUndefinedAsNull(t *testing.T) {
	path := writeFile(t, "one.tsv", "score\tname\n7\tann\n")

	out, err := execute(t, "profile", path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))

	describe, ok := doc["describe"].([]any)
	require.True(t, ok)
	require.Len(t, describe, 1)
	stats, ok := describe[0].(map[string]any)
	require.True(t, ok)
	assert.Nil(t, stats["std"])
	assert.Equal(t, 7, stats["mean"])
	assert.NotContains(t, doc, "correlation")
}

func TestProfileWritesHeatmap(t *testing.T) {
	path := writeFile(t, "xy.csv", "x,y\n1,2\n2,1\n3,5\n")
	target := filepath.Join(t.TempDir(), "heat.png")

	_, err := execute(t, "profile", path, "--heatmap", target)
	require.NoError(t, err)

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	require.NoError(t, err)
}

func TestProfileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "profile", filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		path := writeFile(t, "a.csv", "a\n1\n")
		_, err := execute(t, "profile", path, "--format", "xml")
		require.ErrorContains(t, err, "unknown format")
	})

	t.Run("heatmap needs two numeric columns", func(t *testing.T) {
		path := writeFile(t, "a.csv", "a,b\n1,x\n")
		_, err := execute(t, "profile", path, "--heatmap", filepath.Join(t.TempDir(), "h.png"))
		require.ErrorContains(t, err, "two numeric columns")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "empty.csv", "")
		_, err := execute(t, "profile", path)
		require.Error(t, err)
	})

	t.Run("no args", func(t *testing.T) {
		_, err := execute(t, "profile")
		require.Error(t, err)
	})
}
