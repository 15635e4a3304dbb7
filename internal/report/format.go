// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package report

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// formatFixed formats v with prec decimal places.
//
// Rounding is done on the shortest decimal representation of v, half away from
// zero. So 45.12345 becomes "45.1235" even though the nearest binary float is
// slightly below the half, which is what a reader of the engine's JSON expects.
// Values rounding to zero are printed without sign.
func formatFixed(v float64, prec int) string {
	// decimal has no representation for these.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', prec, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(int32(prec))
}
