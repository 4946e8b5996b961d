package guard

import (
	"fmt"
	"strings"
)

const (
	highComputeUnits     = 200_000
	moderateComputeUnits = 100_000
	highFeeLamports      = 10_000
)

// Validate applies the safety rule table to a simulation outcome. Only
// blocking issues gate sending; warnings are advisory and logged upstream.
func Validate(sim *SimulationOutcome) *Verdict {
	issues := []string{}
	warnings := []string{}

	if !sim.Success {
		msg := sim.ErrMessage
		if msg == "" {
			msg = "unknown error"
		}
		issues = append(issues, "transaction would fail: "+msg)
	}

	if sim.UnitsConsumed > highComputeUnits {
		warnings = append(warnings, fmt.Sprintf(
			"high compute usage: %d units", sim.UnitsConsumed))
	} else if sim.UnitsConsumed > moderateComputeUnits {
		warnings = append(warnings, fmt.Sprintf(
			"moderate compute usage: %d units", sim.UnitsConsumed))
	}

	if sim.FeeEstimate > highFeeLamports {
		warnings = append(warnings, fmt.Sprintf(
			"high transaction fee: %d lamports", sim.FeeEstimate))
	}

	for _, log := range sim.Logs {
		lower := strings.ToLower(log)
		// One line can trip several patterns; each is reported separately.
		if strings.Contains(lower, "insufficient funds") {
			issues = append(issues, "Insufficient funds detected in logs")
		}
		if strings.Contains(lower, "already in use") {
			issues = append(issues, "Account already in use")
		}
		if strings.Contains(lower, "unauthorized") {
			issues = append(issues, "Unauthorized access detected in logs")
		}
		if strings.Contains(lower, "custom program error") {
			warnings = append(warnings, "Custom program error in logs: "+log)
		}
	}

	return &Verdict{
		SafeToSend: len(issues) == 0,
		Issues:     issues,
		Warnings:   warnings,
		Simulation: sim,
	}
}
