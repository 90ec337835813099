package clean

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
	"github.com/shandysiswandi/goeda/internal/eda/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *entity.Table {
	t.Helper()
	tbl, err := tabular.Parse(strings.NewReader(src), ',')
	require.NoError(t, err)
	return tbl
}

func csv(t *testing.T, tbl *entity.Table) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tabular.Write(&buf, tbl, ','))
	return buf.String()
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		token string
		want  entity.Strategy
	}{
		{"mean", entity.StrategyMean},
		{"first", entity.StrategyForwardFill},
		{"ffill", entity.StrategyForwardFill},
		{"forward-fill", entity.StrategyForwardFill},
		{"last", entity.StrategyBackwardFill},
		{"bfill", entity.StrategyBackwardFill},
		{"backward-fill", entity.StrategyBackwardFill},
		{"delete", entity.StrategyDrop},
		{" DROP ", entity.StrategyDrop},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseStrategy(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseStrategy("median")
	assert.ErrorIs(t, err, entity.ErrUnknownStrategy)
}

func TestCleanRejectsUnknownStrategy(t *testing.T) {
	_, err := Clean(parse(t, "a\n1\n"), entity.Strategy("median"), Options{})
	assert.ErrorIs(t, err, entity.ErrUnknownStrategy)
}

func TestCleanMean(t *testing.T) {
	tbl := parse(t, "a,b,name\n1,10,x\n,20,\n3,,z\n")

	out, err := Clean(tbl, entity.StrategyMean, Options{})
	require.NoError(t, err)

	assert.Equal(t, "a,b,name\n1,10,x\n2,20,\n3,15,z\n", csv(t, out))
	assert.True(t, out.Rows[1][2].Missing, "text gaps stay")
	assert.InDelta(t, 2, out.Rows[1][0].Num, 1e-12)
}

func TestCleanMeanAllMissingColumnStays(t *testing.T) {
	tbl := parse(t, "a,b\n1,\n2,\n")

	out, err := Clean(tbl, entity.StrategyMean, Options{})
	require.NoError(t, err)
	assert.True(t, out.Rows[0][1].Missing)
	assert.True(t, out.Rows[1][1].Missing)
}

func TestCleanForwardFill(t *testing.T) {
	tbl := parse(t, "a,b\n,x\n1,\n,\n3,y\n")

	out, err := Clean(tbl, entity.StrategyForwardFill, Options{KeepDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n,x\n1,x\n1,x\n3,y\n", csv(t, out))
}

func TestCleanBackwardFill(t *testing.T) {
	tbl := parse(t, "a,b\n1,\n,x\n3,\n4,\n")

	out, err := Clean(tbl, entity.StrategyBackwardFill, Options{KeepDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,x\n3,x\n3,\n4,\n", csv(t, out))
}

func TestCleanDrop(t *testing.T) {
	tbl := parse(t, "a,b\n1,x\n,y\n3,\n4,z\n")

	out, err := Clean(tbl, entity.StrategyDrop, Options{})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,x\n4,z\n", csv(t, out))
}

func TestCleanRemovesDuplicates(t *testing.T) {
	tbl := parse(t, "a,b\n1,x\n1.0,x\n2,y\n1,x\n,\n,\n")

	out, err := Clean(tbl, entity.StrategyForwardFill, Options{})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,x\n2,y\n", csv(t, out))

	kept, err := Clean(tbl, entity.StrategyDrop, Options{KeepDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 4, kept.NumRows())
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	tbl := parse(t, "a\n1\nNA\n3\n")
	before := csv(t, tbl)

	_, err := Clean(tbl, entity.StrategyMean, Options{})
	require.NoError(t, err)
	_, err = Clean(tbl, entity.StrategyDrop, Options{})
	require.NoError(t, err)

	assert.Equal(t, before, csv(t, tbl))
}

func TestRowKeyDistinguishesMissingFromText(t *testing.T) {
	cols := []entity.Column{{Name: "a", Kind: entity.KindText}, {Name: "b", Kind: entity.KindText}}

	missing := rowKey(cols, []entity.Cell{{Missing: true}, {Text: "x"}})
	literal := rowKey(cols, []entity.Cell{{Text: "N"}, {Text: "x"}})
	shifted := rowKey(cols, []entity.Cell{{Text: "ab"}, {Text: "c"}})
	other := rowKey(cols, []entity.Cell{{Text: "a"}, {Text: "bc"}})

	assert.NotEqual(t, missing, literal)
	assert.NotEqual(t, shifted, other)
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := map[string]string{
		"mixed":          "a,b,name\n1,10,x\nNA,20,\n3,,z\n1,10,x\n",
		"fill makes dup": "k,v\n1,2\n1,\n1,2\n,4\n",
		"text only":      "name,city\nann,\nann,\n,Rome\n",
		"all missing":    "a,b\n,1\nNA,2\n,1\n",
		"float text":     "p,q,tag\n0.1,1e3,a\n0.2,NaN,b\n,2e3,a\n0.1,1e3,a\n",
	}
	strategies := []entity.Strategy{entity.StrategyMean, entity.StrategyDrop, entity.StrategyForwardFill}

	for name, src := range inputs {
		for _, s := range strategies {
			t.Run(name+"/"+string(s), func(t *testing.T) {
				once, err := Clean(parse(t, src), s, Options{})
				require.NoError(t, err)

				twice, err := Clean(once, s, Options{})
				require.NoError(t, err)
				assert.Equal(t, csv(t, once), csv(t, twice))

				reloaded, err := Clean(parse(t, csv(t, once)), s, Options{})
				require.NoError(t, err)
				assert.Equal(t, csv(t, once), csv(t, reloaded), "cleaning the saved file again changes it")
			})
		}
	}
}
