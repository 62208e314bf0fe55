package metadata

import "fmt"

// Verdict classifies whether recorded weather falls inside an asset's
// operating envelope.
type Verdict string

const (
	VerdictSuitable              Verdict = "suitable"
	VerdictTemperatureOutOfRange Verdict = "temperature_out_of_range"
	VerdictWindExceeded          Verdict = "wind_exceeded"
	VerdictUnevaluable           Verdict = "unevaluable"
)

func NewVerdict(value string) (Verdict, error) {
	verdict := Verdict(value)
	if !verdict.isValid() {
		return "", fmt.Errorf("invalid verdict: %s", value)
	}
	return verdict, nil
}

func (v Verdict) isValid() bool {
	switch v {
	case VerdictSuitable, VerdictTemperatureOutOfRange, VerdictWindExceeded, VerdictUnevaluable:
		return true
	default:
		return false
	}
}

func (v Verdict) String() string {
	return string(v)
}
