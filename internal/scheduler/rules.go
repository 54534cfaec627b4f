package scheduler

// Rules are the hard scheduling constraints. Defaults match the operating
// rules of the site; cmd and handler code builds them from config so they can
// be tuned per deployment.
type Rules struct {
	MinBufferMinutes      int // minimum gap between two tours held by the same guide
	LongBreakGapMinutes   int // one gap at least this long is required for a 3rd+ tour
	MaxToursPerDay        int
	MaxConsecutiveTours   int // longest run of tours separated by only the minimum buffer
	MinKitchenStaff       int
	MinServingStaff       int
	CoverageSampleMinutes int
}

func DefaultRules() Rules {
	return Rules{
		MinBufferMinutes:      30,
		LongBreakGapMinutes:   90,
		MaxToursPerDay:        4,
		MaxConsecutiveTours:   2,
		MinKitchenStaff:       2,
		MinServingStaff:       2,
		CoverageSampleMinutes: 30,
	}
}
