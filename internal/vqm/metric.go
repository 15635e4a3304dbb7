// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vqm

import (
	"errors"
	"fmt"
	"strings"
)

// MetricName is a video quality metric the engine is able to calculate.
type MetricName string

const (
	VMAF MetricName = "vmaf"
	PSNR MetricName = "psnr"
	SSIM MetricName = "ssim"
)

var ErrUnknownMetric = errors.New("unknown metric")

// KnownMetrics lists selectable metrics in their canonical order.
var KnownMetrics = []MetricName{VMAF, PSNR, SSIM}

// DefaultMetrics is used when caller did not select any metrics.
var DefaultMetrics = []MetricName{VMAF}

// ParseMetric validates a single metric name.
func ParseMetric(s string) (MetricName, error) {
	m := MetricName(strings.TrimSpace(s))
	for _, k := range KnownMetrics {
		if m == k {
			return m, nil
		}
	}
	return "", fmt.Errorf("%q (choose from %s): %w", s, joinMetrics(KnownMetrics, ", "), ErrUnknownMetric)
}

// ParseMetrics validates metric names keeping order and duplicates as given.
//
// An empty selection results in DefaultMetrics.
func ParseMetrics(names []string) ([]MetricName, error) {
	if len(names) == 0 {
		return append([]MetricName(nil), DefaultMetrics...), nil
	}

	metrics := make([]MetricName, 0, len(names))
	for _, n := range names {
		m, err := ParseMetric(n)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

func joinMetrics(metrics []MetricName, sep string) string {
	s := make([]string, len(metrics))
	for i, m := range metrics {
		s[i] = string(m)
	}
	return strings.Join(s, sep)
}
