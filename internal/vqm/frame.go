// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Video frame related abstractions.

package vqm

import (
	"encoding/json"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Per-frame value field names and their aliases, engine versions are not
// consistent in naming.
var frameValueAliases = map[MetricName][]string{
	VMAF: {"vmaf"},
	PSNR: {"psnr_avg", "psnr", "psnr_y"},
	SSIM: {"ssim_avg", "ssim", "ssim_y", "float_ssim"},
}

// Frame is a single per-frame record of a metric result.
type Frame struct {
	// Values found in frame's "metrics" object, or in the record itself when
	// engine emits flat records.
	values Object
}

// DecodeFrames decodes raw "frames" list. A frame that is not a JSON object
// is kept as an empty Frame so that frame count stays intact.
func DecodeFrames(raw json.RawMessage) []Frame {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	frames := make([]Frame, len(items))
	for i, item := range items {
		rec, err := ParseObject(item)
		if err != nil {
			continue
		}
		if m, ok := rec.Get("metrics"); ok {
			if mo, err := ParseObject(m); err == nil {
				frames[i].values = mo
			}
			continue
		}
		frames[i].values = rec
	}
	return frames
}

// Value returns frame's value for metric, trying known field aliases.
func (f Frame) Value(m MetricName) (float64, bool) {
	aliases, ok := frameValueAliases[m]
	if !ok {
		aliases = []string{string(m)}
	}
	for _, a := range aliases {
		if v, ok := f.values.Number(a); ok {
			return v, true
		}
	}
	return 0, false
}

// FrameSummary aggregates per-frame values of a single metric.
type FrameSummary struct {
	Count int
	// Number of frames without a value for metric. Those frames count as 0.
	Missing int
	Min     float64
	Max     float64
	Mean    float64
	StDev   float64
}

// FrameValues returns per-frame values of metric, substituting 0 for frames
// lacking a value, and a count of such frames.
func FrameValues(frames []Frame, m MetricName) (values []float64, missing int) {
	values = make([]float64, len(frames))
	for i, f := range frames {
		v, ok := f.Value(m)
		if !ok {
			missing++
		}
		values[i] = v
	}
	return values, missing
}

// SummarizeFrames calculates FrameSummary. For empty frames a zero summary is
// returned.
func SummarizeFrames(frames []Frame, m MetricName) FrameSummary {
	var s FrameSummary
	if len(frames) == 0 {
		return s
	}

	values, missing := FrameValues(frames, m)
	s.Count = len(values)
	s.Missing = missing
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	s.Mean, s.StDev = stat.MeanStdDev(values, nil)

	return s
}

// FrameMetric contains VQMs for a single frame.
type FrameMetric struct {
	FrameNum int      `csv:"frame"`
	VMAF     *float64 `csv:"vmaf"`
	PSNR     *float64 `csv:"psnr"`
	SSIM     *float64 `csv:"ssim"`
}

type FrameMetrics []FrameMetric

// FrameMetricsFromResult joins per-frame records of all known metrics by
// frame index. Metrics without frames leave their column empty.
func FrameMetricsFromResult(r Result) FrameMetrics {
	perMetric := make(map[MetricName][]Frame)
	n := 0
	for _, m := range KnownMetrics {
		raw, ok := r.Get(string(m))
		if !ok {
			continue
		}
		o, err := ParseObject(raw)
		if err != nil {
			continue
		}
		f, ok := o.Get("frames")
		if !ok {
			continue
		}
		frames := DecodeFrames(f)
		perMetric[m] = frames
		if len(frames) > n {
			n = len(frames)
		}
	}

	fm := make(FrameMetrics, n)
	for i := range fm {
		fm[i].FrameNum = i
		fm[i].VMAF = frameValueAt(perMetric[VMAF], i, VMAF)
		fm[i].PSNR = frameValueAt(perMetric[PSNR], i, PSNR)
		fm[i].SSIM = frameValueAt(perMetric[SSIM], i, SSIM)
	}
	return fm
}

func frameValueAt(frames []Frame, i int, m MetricName) *float64 {
	if i >= len(frames) {
		return nil
	}
	if v, ok := frames[i].Value(m); ok {
		return &v
	}
	return nil
}
