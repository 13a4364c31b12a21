package crew

import (
	"fmt"

	"github.com/talgya/seaworthy/internal/entropy"
	"github.com/talgya/seaworthy/internal/logbook"
)

const (
	paidMoraleGain    = 1.0
	paidLoyaltyGain   = 0.2
	unpaidMoraleLoss  = 10.0
	unpaidLoyaltyLoss = 2.0
	unpaidUnrest      = 10.0

	moraleBaseline = 50.0
	driftDown      = 0.5 // above baseline
	driftUp        = 1.0 // below baseline

	mutinyThreshold     = 80.0
	discontentThreshold = 50.0
)

// DailyResult is the outcome of one day's payroll and morale pass.
// Funds is what remains of the caller's treasury; the caller owns it.
type DailyResult struct {
	Crew   Crew
	Funds  float64
	Paid   bool
	Mutiny bool
	Log    []logbook.Entry // Day is left for the caller to stamp
}

// ProcessDaily pays wages out of funds, drifts morale toward the baseline,
// recomputes unrest and rolls for mutiny.
func ProcessDaily(c Crew, funds float64, src entropy.Source) DailyResult {
	out := c.Clone()
	res := DailyResult{Funds: funds}

	wages := TotalWages(out)
	res.Paid = funds >= wages
	if res.Paid {
		res.Funds = funds - wages
	} else {
		res.Log = append(res.Log, logbook.Entry{
			Type:    logbook.Warning,
			Message: fmt.Sprintf("Wages of %.1f gold could not be paid (%.1f on hand)", wages, funds),
		})
	}

	for i := range out.Members {
		m := &out.Members[i]
		if res.Paid {
			m.Morale += paidMoraleGain
			m.Loyalty += paidLoyaltyGain
			m.Unpaid = false
		} else {
			m.Morale -= unpaidMoraleLoss
			m.Loyalty -= unpaidLoyaltyLoss
			m.Unpaid = true
		}
		m.Morale = drift(clamp(m.Morale, 0, 100))
		m.Loyalty = clamp(m.Loyalty, 0, 100)
	}

	out = out.withStats()
	if !res.Paid && out.Count() > 0 {
		out.Unrest = clamp(out.Unrest+unpaidUnrest, 0, 100)
	}

	switch {
	case out.Unrest > mutinyThreshold:
		// Loyal crews resist even at the brink.
		loyaltyBuffer := out.AverageLoyalty / 4
		chance := out.Unrest - 50 - loyaltyBuffer
		if float64(entropy.Percentile(src)) <= chance {
			out.MutinyTriggered = true
			res.Mutiny = true
			res.Log = append(res.Log, logbook.Entry{
				Type:    logbook.Warning,
				Message: fmt.Sprintf("MUTINY! The crew rises up (unrest %.0f)", out.Unrest),
			})
		} else {
			res.Log = append(res.Log, logbook.Entry{
				Type:    logbook.Warning,
				Message: fmt.Sprintf("The crew is on the edge of mutiny (unrest %.0f)", out.Unrest),
			})
		}
	case out.Unrest > discontentThreshold:
		res.Log = append(res.Log, logbook.Entry{
			Type:    logbook.Warning,
			Message: fmt.Sprintf("Grumbling below decks (unrest %.0f)", out.Unrest),
		})
	}

	res.Crew = out
	return res
}

// drift nudges morale toward the baseline without crossing it.
func drift(morale float64) float64 {
	switch {
	case morale > moraleBaseline:
		morale -= driftDown
		if morale < moraleBaseline {
			morale = moraleBaseline
		}
	case morale < moraleBaseline:
		morale += driftUp
		if morale > moraleBaseline {
			morale = moraleBaseline
		}
	}
	return morale
}
