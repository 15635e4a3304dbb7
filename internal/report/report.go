// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package report renders metrics engine results as human readable text.
package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/evolution-gaming/vqcompare/internal/logging"
	"github.com/evolution-gaming/vqcompare/internal/vqm"
)

// Key of per-frame records in metric result documents.
const framesKey = "frames"

// Reporter writes quality assessment report.
type Reporter struct {
	w io.Writer
}

// New creates Reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Write renders report for the whole result, metrics in the order engine
// emitted them.
func (r *Reporter) Write(res vqm.Result) error {
	bw := bufio.NewWriter(r.w)

	fmt.Fprint(bw, "\n=== VIDEO QUALITY ASSESSMENT RESULTS ===\n\n")
	for _, name := range res.Metrics() {
		raw, _ := res.Get(name)
		fmt.Fprintf(bw, "=== %s Results ===\n", strings.ToUpper(name))

		switch vqm.MetricName(name) {
		case vqm.VMAF:
			writeVMAF(bw, raw)
		case vqm.PSNR, vqm.SSIM:
			writeComponents(bw, name, raw)
		default:
			writeRaw(bw, raw)
		}

		fmt.Fprintln(bw)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func writeVMAF(w io.Writer, raw json.RawMessage) {
	res, err := vqm.DecodeVMAF(raw)
	if err != nil {
		logging.Debugf("Unexpected VMAF result shape: %s", err)
		writeRaw(w, raw)
		return
	}

	if res.Mean != nil {
		score := *res.Mean
		fmt.Fprintf(w, "VMAF Score: %s / 100.0\n", formatFixed(score, 2))
		fmt.Fprint(w, "\n=== VMAF SCORE INTERPRETATION ===\n")
		for _, b := range vqm.Bands {
			label := fmt.Sprintf("%.0f-%.0f:", b.Low, b.High)
			fmt.Fprintf(w, "%-7s %s quality\n", label, b.Tier)
		}
		fmt.Fprintf(w, "\nThis video's quality is rated as: %s\n", vqm.ClassifyVMAF(score))
	}

	if len(res.Frames) == 0 {
		return
	}

	s := vqm.SummarizeFrames(res.Frames, vqm.VMAF)
	if s.Missing > 0 {
		logging.Warnf("%d of %d frames have no VMAF value, counted as 0 for min/max", s.Missing, s.Count)
	}
	logging.Debugf("Per-frame VMAF mean=%.4f stdev=%.4f", s.Mean, s.StDev)

	fmt.Fprint(w, "\n=== Frame-by-Frame Details ===\n")
	fmt.Fprintf(w, "Analyzed %d frames\n", s.Count)
	fmt.Fprintf(w, "Min VMAF: %s\n", formatFixed(s.Min, 2))
	fmt.Fprintf(w, "Max VMAF: %s\n", formatFixed(s.Max, 2))
}

func writeComponents(w io.Writer, name string, raw json.RawMessage) {
	o, err := vqm.ParseObject(raw)
	if err != nil {
		logging.Debugf("Unexpected %s result shape: %s", name, err)
		writeRaw(w, raw)
		return
	}

	upper := strings.ToUpper(name)
	for _, k := range o.Keys() {
		if k == framesKey {
			continue
		}
		if v, ok := o.Number(k); ok {
			fmt.Fprintf(w, "%s %s: %s\n", upper, k, formatFixed(v, 4))
			continue
		}
		// Not a number, show it as is.
		v, _ := o.Get(k)
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			buf.Reset()
			buf.Write(v)
		}
		fmt.Fprintf(w, "%s %s: %s\n", upper, k, buf.Bytes())
	}
}

// writeRaw pretty prints a JSON document with 2-space indent.
func writeRaw(w io.Writer, raw json.RawMessage) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	fmt.Fprintln(w, buf.String())
}
