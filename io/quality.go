package io

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/phil-mansfield/table"

	"github.com/brakepad/microgen/geom"
)

// QualityRow is the quality of a single element.
type QualityRow struct {
	ID int
	geom.Quality
	Volume float64
}

func boolCol(b bool) int {
	if b {
		return 1
	}
	return 0
}

// WriteQualityTable writes one whitespace-separated row per element:
// id, radius ratio, edge ratio, volume, bad (0 or 1), and degenerate (0 or 1).
func WriteQualityTable(w io.Writer, rows []QualityRow) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# id radius_ratio edge_ratio volume bad degenerate")
	for i := range rows {
		r := &rows[i]
		fmt.Fprintf(bw, "%d %s %s %s %d %d\n", r.ID,
			formatFloat(r.RadiusRatio), formatFloat(r.EdgeRatio),
			formatFloat(r.Volume), boolCol(r.Bad), boolCol(r.Degenerate))
	}
	return bw.Flush()
}

func WriteQualityTableFile(fname string, rows []QualityRow) error {
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("could not create quality table: %w", err)
	}
	if err = WriteQualityTable(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadQualityTable reads a table written by WriteQualityTable.
func ReadQualityTable(fname string) ([]QualityRow, error) {
	cols, err := table.ReadTable(fname, []int{0, 1, 2, 3, 4, 5}, nil)
	if err != nil {
		return nil, err
	}

	ids, rr, er, vol, bad, degen := cols[0], cols[1], cols[2], cols[3], cols[4], cols[5]
	rows := make([]QualityRow, len(ids))
	for i := range rows {
		rows[i] = QualityRow{
			ID: int(ids[i]),
			Quality: geom.Quality{
				RadiusRatio: rr[i], EdgeRatio: er[i],
				Bad: bad[i] != 0, Degenerate: degen[i] != 0,
			},
			Volume: vol[i],
		}
	}
	return rows, nil
}
