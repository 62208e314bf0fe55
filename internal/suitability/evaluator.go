// Package suitability decides whether a weather snapshot falls inside an
// asset's operating envelope. Evaluation is pure: no I/O, no clock, same
// inputs always produce the same verdict.
package suitability

import (
	"fmt"

	"hangar/pkg/metadata"
	"hangar/pkg/models"
)

type Result struct {
	Verdict metadata.Verdict `json:"verdict"`
	Reason  string           `json:"reason"`
}

const reasonUnevaluable = "Suitability could not be determined: the asset does not declare a complete operating envelope."

// Evaluate runs the checks in a fixed order: completeness, temperature
// bounds, wind limit. Temperature violations win over wind violations when
// both occur.
func Evaluate(envelope *models.OperatingEnvelope, snapshot *models.WeatherSnapshot) Result {
	if snapshot == nil || !envelope.Complete() {
		return Result{
			Verdict: metadata.VerdictUnevaluable,
			Reason:  reasonUnevaluable,
		}
	}

	if snapshot.TemperatureC > *envelope.MaxTemp || snapshot.TemperatureC < *envelope.MinTemp {
		return Result{
			Verdict: metadata.VerdictTemperatureOutOfRange,
			Reason: fmt.Sprintf(
				"Temperature %.1f°C is outside the asset's operating range of %.1f°C to %.1f°C.",
				snapshot.TemperatureC, *envelope.MinTemp, *envelope.MaxTemp,
			),
		}
	}

	if snapshot.WindSpeedKPH > *envelope.MaxWindResistance {
		return Result{
			Verdict: metadata.VerdictWindExceeded,
			Reason: fmt.Sprintf(
				"Wind speed %.1f km/h exceeds the asset's rated wind resistance of %.1f km/h.",
				snapshot.WindSpeedKPH, *envelope.MaxWindResistance,
			),
		}
	}

	return Result{
		Verdict: metadata.VerdictSuitable,
		Reason:  "Weather conditions are within the asset's operating envelope.",
	}
}
