package drip

import (
	"fmt"
	"strings"
)

// Frequency is a dividend payment cadence, expressed in months between
// payments.
type Frequency int

const (
	MonthlyPayments    Frequency = 1
	QuarterlyPayments  Frequency = 3
	SemiAnnualPayments Frequency = 6
	AnnualPayments     Frequency = 12
)

func (f Frequency) String() string {
	switch f {
	case MonthlyPayments:
		return "monthly"
	case QuarterlyPayments:
		return "quarterly"
	case SemiAnnualPayments:
		return "semi-annual"
	case AnnualPayments:
		return "annual"
	default:
		return fmt.Sprintf("every %d months", int(f))
	}
}

// ParseFrequency parses a cadence name as accepted on the command line.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "month":
		return MonthlyPayments, nil
	case "quarterly", "quarter":
		return QuarterlyPayments, nil
	case "semi-annual", "semiannual", "half-yearly":
		return SemiAnnualPayments, nil
	case "annual", "yearly", "year":
		return AnnualPayments, nil
	default:
		return 0, fmt.Errorf("unknown frequency %q", s)
	}
}

// DetectFrequency guesses the payment cadence from the mean interval between
// the observed dividend dates. With fewer than two dividends there is no
// interval to measure and the fallback is monthly, with ok=false.
//
// The thresholds bucket real-world schedules: payers drift by a few days
// around their nominal dates, so exact 30/91/182-day intervals never happen.
func DetectFrequency(dividends *History) (f Frequency, avgDays float64, ok bool) {
	n := dividends.Len()
	if n < 2 {
		return MonthlyPayments, 0, false
	}

	var prev Date
	var total, count int
	for on := range dividends.Values() {
		if !prev.IsZero() {
			total += on.Sub(prev)
			count++
		}
		prev = on
	}
	avgDays = float64(total) / float64(count)

	switch {
	case avgDays <= 45:
		f = MonthlyPayments
	case avgDays <= 135:
		f = QuarterlyPayments
	case avgDays <= 270:
		f = SemiAnnualPayments
	default:
		f = AnnualPayments
	}
	return f, avgDays, true
}
