package agbin

// Unit is the measurement unit of one channel, as stored in its y_units
// field.
type Unit uint32

const (
	UnitUnknown Unit = iota
	UnitVolts
	UnitSeconds
	UnitConstant
	UnitAmps
	UnitDecibel
	UnitHertz

	unitCount = 7
)

var unitLabels = [unitCount]string{
	"Unknown",
	"Volts",
	"Seconds",
	"Constant",
	"Amps",
	"Decibel",
	"Hertz",
}

func (u Unit) String() string {
	if u < unitCount {
		return unitLabels[u]
	}
	return "INVALID"
}

// mapUnit turns a raw unit code into a Unit. Codes outside the
// enumeration fail loudly instead of defaulting to Unknown.
func mapUnit(code uint32) (Unit, bool) {
	if code >= unitCount {
		return UnitUnknown, false
	}
	return Unit(code), true
}

// unmapUnit resolves a unit label back to its code, for TOML capture
// descriptions.
func unmapUnit(label string) (Unit, bool) {
	for code, l := range unitLabels {
		if l == label {
			return Unit(code), true
		}
	}
	return UnitUnknown, false
}
