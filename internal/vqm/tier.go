// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vqm

// Tier is a human friendly classification of VMAF score.
type Tier int

const (
	TierBad Tier = iota
	TierPoor
	TierFair
	TierGood
	TierExcellent
)

func (t Tier) String() string {
	switch t {
	case TierBad:
		return "Bad"
	case TierPoor:
		return "Poor"
	case TierFair:
		return "Fair"
	case TierGood:
		return "Good"
	case TierExcellent:
		return "Excellent"
	default:
		return "Unknown"
	}
}

// Band is a VMAF score range belonging to a Tier.
//
// Bands are half-open [Low, High), except the top one which includes 100.
type Band struct {
	Tier Tier
	Low  float64
	High float64
}

// Bands partition VMAF score range [0, 100] in ascending order.
var Bands = []Band{
	{Tier: TierBad, Low: 0, High: 20},
	{Tier: TierPoor, Low: 20, High: 40},
	{Tier: TierFair, Low: 40, High: 60},
	{Tier: TierGood, Low: 60, High: 80},
	{Tier: TierExcellent, Low: 80, High: 100},
}

// ClassifyVMAF returns Tier for given VMAF score.
//
// Scores outside of [0, 100] are clamped into the closest band.
func ClassifyVMAF(score float64) Tier {
	for _, b := range Bands[:len(Bands)-1] {
		if score < b.High {
			return b.Tier
		}
	}
	return Bands[len(Bands)-1].Tier
}
