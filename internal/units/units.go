// Package units provides shared constants and conversion for the speed unit
// of the assumed radial-velocity noise level.
package units

import (
	"fmt"
	"strings"
)

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// mpsPer holds how many target units one m/s is worth.
var mpsPer = map[string]float64{
	MPS:  1,
	MPH:  2.2369362920544,
	KMPH: 3.6,
	KPH:  3.6,
}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	_, ok := mpsPer[unit]
	return ok
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// Validate returns an error naming the valid units when unit is unknown.
func Validate(unit string) error {
	if !IsValid(unit) {
		return fmt.Errorf("invalid units %q, must be one of: %s", unit, GetValidUnitsString())
	}
	return nil
}

// ConvertSpeed converts a speed from meters per second to the target units.
// Unknown units leave the value in m/s.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	f, ok := mpsPer[targetUnits]
	if !ok {
		return speedMPS
	}
	return speedMPS * f
}

// ToMPS converts a speed in the given units to meters per second.
// Unknown units are treated as m/s.
func ToMPS(speed float64, fromUnits string) float64 {
	f, ok := mpsPer[fromUnits]
	if !ok {
		return speed
	}
	return speed / f
}

// Label returns a short display label such as "m/s".
func Label(unit string) string {
	switch unit {
	case MPH:
		return "mph"
	case KMPH, KPH:
		return "km/h"
	default:
		return "m/s"
	}
}
