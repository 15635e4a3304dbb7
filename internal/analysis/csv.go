// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/evolution-gaming/vqcompare/internal/vqm"
	"github.com/jszwec/csvutil"
)

// WriteFrameMetricsCSV writes per-frame metrics as CSV with a header row.
func WriteFrameMetricsCSV(w io.Writer, fm vqm.FrameMetrics) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	// Header has to be there even with no frames.
	if err := enc.EncodeHeader(vqm.FrameMetric{}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i := range fm {
		if err := enc.Encode(fm[i]); err != nil {
			return fmt.Errorf("writing CSV record: %w", err)
		}
	}
	cw.Flush()

	return cw.Error()
}

// SaveFrameMetricsCSV writes per-frame metrics CSV into file.
func SaveFrameMetricsCSV(outFile string, fm vqm.FrameMetrics) error {
	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer f.Close()

	if err := WriteFrameMetricsCSV(f, fm); err != nil {
		return err
	}
	return f.Close()
}
