package insight

// Thresholds bound the per-row risk rules and the set-wide recommendation
// rules. Shares are fractions of total revenue; growth is in percent and
// revenue in £M.
type Thresholds struct {
	BroadcastingReliance float64
	LowCommercialShare   float64
	HighRevenue          float64
	LowEfficiency        float64
	LargeRevenueBase     float64
	LowGrowth            float64

	TargetFEI             float64
	TargetCommercialShare float64
	TargetGrowth          float64
	TargetMatchdayShare   float64
}

// DefaultThresholds returns the published dashboard thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BroadcastingReliance: 0.6,
		LowCommercialShare:   0.25,
		HighRevenue:          600,
		LowEfficiency:        0.5,
		LargeRevenueBase:     500,
		LowGrowth:            2,

		TargetFEI:             0.6,
		TargetCommercialShare: 0.35,
		TargetGrowth:          5,
		TargetMatchdayShare:   0.15,
	}
}
