package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
	"github.com/shandysiswandi/goeda/internal/eda/profile"
	"github.com/shandysiswandi/goeda/internal/eda/tabular"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

type columnReport struct {
	Name    string `json:"name" yaml:"name"`
	DType   string `json:"dtype" yaml:"dtype"`
	Missing int    `json:"missing" yaml:"missing"`
}

type statsReport struct {
	Column string   `json:"column" yaml:"column"`
	Count  int      `json:"count" yaml:"count"`
	Mean   *float64 `json:"mean" yaml:"mean"`
	Std    *float64 `json:"std" yaml:"std"`
	Min    *float64 `json:"min" yaml:"min"`
	P25    *float64 `json:"25%" yaml:"25%"`
	P50    *float64 `json:"50%" yaml:"50%"`
	P75    *float64 `json:"75%" yaml:"75%"`
	Max    *float64 `json:"max" yaml:"max"`
}

type correlationReport struct {
	Columns []string     `json:"columns" yaml:"columns"`
	Values  [][]*float64 `json:"values" yaml:"values"`
}

type report struct {
	File        string             `json:"file" yaml:"file"`
	Rows        int                `json:"rows" yaml:"rows"`
	Columns     []columnReport     `json:"columns" yaml:"columns"`
	Describe    []statsReport      `json:"describe" yaml:"describe"`
	Correlation *correlationReport `json:"correlation,omitempty" yaml:"correlation,omitempty"`
}

func newProfileCmd() *cobra.Command {
	var (
		format  string
		heatmap string
	)

	cmd := &cobra.Command{
		Use:   "profile <file>",
		Short: "Print the profile of a local CSV or TSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatYAML && format != formatJSON {
				return fmt.Errorf("unknown format %q, want %s or %s", format, formatYAML, formatJSON)
			}
			return runProfile(cmd.OutOrStdout(), args[0], format, heatmap)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatYAML, "output format: yaml or json")
	cmd.Flags().StringVar(&heatmap, "heatmap", "", "write the correlation heatmap PNG to this path")

	return cmd
}

func runProfile(out io.Writer, path, format, heatmapPath string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	table, err := tabular.Parse(f, tabular.DelimiterFor(path))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	summary := profile.Profile(table)
	rep := toReport(filepath.Base(path), summary)

	if m, ok := profile.Correlate(table); ok {
		rep.Correlation = toCorrelation(m)
		if heatmapPath != "" {
			img, err := profile.Heatmap(m)
			if err != nil {
				return err
			}
			if err := os.WriteFile(heatmapPath, img, 0o644); err != nil {
				return err
			}
		}
	} else if heatmapPath != "" {
		return fmt.Errorf("%s: a heatmap needs at least two numeric columns", path)
	}

	if format == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}

func toReport(name string, s entity.ProfileSummary) report {
	rep := report{
		File:     name,
		Rows:     s.RowCount,
		Columns:  make([]columnReport, 0, len(s.Columns)),
		Describe: make([]statsReport, 0, len(s.Stats)),
	}

	for _, col := range s.Columns {
		rep.Columns = append(rep.Columns, columnReport{Name: col, DType: s.DTypes[col], Missing: s.Missing[col]})
	}

	for _, st := range s.Stats {
		rep.Describe = append(rep.Describe, statsReport{
			Column: st.Column,
			Count:  st.Count,
			Mean:   finite(st.Mean),
			Std:    finite(st.Std),
			Min:    finite(st.Min),
			P25:    finite(st.P25),
			P50:    finite(st.P50),
			P75:    finite(st.P75),
			Max:    finite(st.Max),
		})
	}

	return rep
}

func toCorrelation(m entity.Matrix) *correlationReport {
	c := &correlationReport{Columns: m.Columns, Values: make([][]*float64, len(m.Values))}
	for i, row := range m.Values {
		c.Values[i] = make([]*float64, len(row))
		for j, v := range row {
			c.Values[i][j] = finite(v)
		}
	}
	return c
}

// finite maps NaN and infinities to nil so they print as null.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
