// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/evolution-gaming/vqcompare/internal/vqm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "\n=== VIDEO QUALITY ASSESSMENT RESULTS ===\n\n"

const vmafLegend = `
=== VMAF SCORE INTERPRETATION ===
0-20:   Bad quality
20-40:  Poor quality
40-60:  Fair quality
60-80:  Good quality
80-100: Excellent quality
`

// render is a helper that parses given engine output and renders report.
func render(t *testing.T, engineOutput string) string {
	t.Helper()
	res, err := vqm.ParseResult([]byte(engineOutput))
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, New(&out).Write(res))
	return out.String()
}

func TestReporter_VMAF(t *testing.T) {
	got := render(t, `{"vmaf": {"mean": 92.5, "frames": [{"metrics":{"vmaf":90.0}}, {"metrics":{"vmaf":95.0}}]}}`)

	want := header +
		"=== VMAF Results ===\n" +
		"VMAF Score: 92.50 / 100.0\n" +
		vmafLegend +
		"\nThis video's quality is rated as: Excellent\n" +
		"\n=== Frame-by-Frame Details ===\n" +
		"Analyzed 2 frames\n" +
		"Min VMAF: 90.00\n" +
		"Max VMAF: 95.00\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestReporter_VMAF_Tiers(t *testing.T) {
	tests := map[string]string{
		`{"vmaf": {"mean": 0}}`:      "rated as: Bad\n",
		`{"vmaf": {"mean": 19.99}}`:  "rated as: Bad\n",
		`{"vmaf": {"mean": 20}}`:     "rated as: Poor\n",
		`{"vmaf": {"mean": 40}}`:     "rated as: Fair\n",
		`{"vmaf": {"mean": 60.0}}`:   "rated as: Good\n",
		`{"vmaf": {"mean": 79.999}}`: "rated as: Good\n",
		`{"vmaf": {"mean": 80}}`:     "rated as: Excellent\n",
	}

	for given, want := range tests {
		t.Run(given, func(t *testing.T) {
			assert.Contains(t, render(t, given), want)
		})
	}
}

func TestReporter_VMAF_WithoutMean(t *testing.T) {
	got := render(t, `{"vmaf": {"frames": [{"metrics":{"vmaf":42.424}}, {"metrics":{}}]}}`)

	assert.NotContains(t, got, "VMAF Score")
	assert.NotContains(t, got, "INTERPRETATION")
	assert.Contains(t, got, "Analyzed 2 frames\nMin VMAF: 0.00\nMax VMAF: 42.42\n")
}

func TestReporter_VMAF_FlatFrames(t *testing.T) {
	// Records without "metrics" object are read as they are.
	got := render(t, `{"vmaf": {"mean": 50, "frames": [{"vmaf": 10}, {"metrics": {"vmaf": 90}}]}}`)
	assert.Contains(t, got, "Analyzed 2 frames\nMin VMAF: 10.00\nMax VMAF: 90.00\n")
}

func TestReporter_VMAF_EmptyFrames(t *testing.T) {
	got := render(t, `{"vmaf": {"mean": 55.555, "frames": []}}`)

	assert.Contains(t, got, "VMAF Score: 55.56 / 100.0\n")
	assert.Contains(t, got, "rated as: Fair\n")
	assert.NotContains(t, got, "Frame-by-Frame")
}

func TestReporter_VMAF_NotAnObject(t *testing.T) {
	got := render(t, `{"vmaf": [{"frame": 1}]}`)

	assert.Equal(t, header+"=== VMAF Results ===\n[\n  {\n    \"frame\": 1\n  }\n]\n\n", got)
}

func TestReporter_PSNR(t *testing.T) {
	got := render(t, `{"psnr": {"psnr_avg": 45.12345}}`)

	assert.Equal(t, header+"=== PSNR Results ===\nPSNR psnr_avg: 45.1235\n\n", got)
	assert.NotContains(t, got, "rated as")
}

func TestReporter_Components(t *testing.T) {
	got := render(t, `{"ssim": {"ssim_y": 0.98765, "ssim_u": 0.99, "frames": [{"n": 1}], "ssim_v": 1, "note": "approx"}}`)

	want := header +
		"=== SSIM Results ===\n" +
		"SSIM ssim_y: 0.9877\n" +
		"SSIM ssim_u: 0.9900\n" +
		"SSIM ssim_v: 1.0000\n" +
		"SSIM note: \"approx\"\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestReporter_UnknownMetric(t *testing.T) {
	got := render(t, `{"foo": {"bar": 1}}`)

	assert.Equal(t, header+"=== FOO Results ===\n{\n  \"bar\": 1\n}\n\n", got)
}

func TestReporter_KeepsEngineOrder(t *testing.T) {
	got := render(t, `{"ssim": {"ssim_avg": 0.9}, "global": {}, "vmaf": {"mean": 70}, "psnr": {"psnr_avg": 40}}`)

	iSSIM := strings.Index(got, "=== SSIM Results ===")
	iGlobal := strings.Index(got, "=== GLOBAL Results ===")
	iVMAF := strings.Index(got, "=== VMAF Results ===")
	iPSNR := strings.Index(got, "=== PSNR Results ===")
	assert.True(t, iSSIM < iGlobal && iGlobal < iVMAF && iVMAF < iPSNR, "Unexpected order:\n%s", got)
	// Every metric block is followed by a blank line.
	assert.Contains(t, got, "SSIM ssim_avg: 0.9000\n\n=== GLOBAL Results ===\n{}\n\n=== VMAF Results ===")
	assert.True(t, strings.HasSuffix(got, "rated as: Good\n\n=== PSNR Results ===\nPSNR psnr_avg: 40.0000\n\n"), got)
}

func TestReporter_EmptyResult(t *testing.T) {
	assert.Equal(t, header, render(t, `{}`))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestReporter_WriteError(t *testing.T) {
	res, err := vqm.ParseResult([]byte(`{"foo": 1}`))
	require.NoError(t, err)

	err = New(failingWriter{}).Write(res)
	assert.ErrorContains(t, err, "disk full")
}
