package sampler

import (
	"errors"

	"github.com/distatus/battery"

	"github.com/Dicklesworthstone/prochunter/internal/model"
)

var errBatteryUnreadable = errors.New("battery unreadable")

// BatteryCell is one enumerated battery, energies in Wh. Err is set when the
// battery's energy could not be read.
type BatteryCell struct {
	Energy     float64
	EnergyFull float64
	Err        error
}

// BatterySource enumerates batteries. A returned error means the battery
// subsystem could not be opened or enumerated.
type BatterySource interface {
	Batteries() ([]BatteryCell, error)
}

// SystemBatteries reads the host's batteries through the OS power-supply
// interface.
type SystemBatteries struct {
	getAll func() ([]*battery.Battery, error) // battery.GetAll when nil
}

var _ BatterySource = SystemBatteries{}

func (b SystemBatteries) Batteries() ([]BatteryCell, error) {
	getAll := b.getAll
	if getAll == nil {
		getAll = battery.GetAll
	}
	bats, err := getAll()
	var perBattery battery.Errors
	if err != nil && !errors.As(err, &perBattery) {
		return nil, err
	}
	cells := make([]BatteryCell, len(bats))
	for i, b := range bats {
		var cellErr error
		if i < len(perBattery) {
			cellErr = energyErr(perBattery[i])
		}
		if cellErr == nil && b == nil {
			cellErr = errBatteryUnreadable
		}
		if cellErr != nil {
			cells[i].Err = cellErr
			continue
		}
		// the library reports mWh
		cells[i] = BatteryCell{Energy: b.Current / 1000, EnergyFull: b.Full / 1000}
	}
	return cells, nil
}

// energyErr narrows a per-battery error to the fields the summary reads. A
// missing voltage or charge rate does not make the energy unreadable.
func energyErr(err error) error {
	if err == nil {
		return nil
	}
	var partial battery.ErrPartial
	if errors.As(err, &partial) {
		if partial.Current != nil {
			return partial.Current
		}
		return partial.Full
	}
	return err
}

// Battery sums current and full-charge energy over every battery. It returns
// nil when the subsystem is unavailable, enumeration fails, or any battery is
// unreadable; a partial sum would understate capacity. A host with no
// batteries yields a zero summary, not nil.
func (s *Sampler) Battery() *model.Battery {
	cells, err := s.batteries.Batteries()
	if err != nil {
		return nil
	}
	var sum model.Battery
	for _, c := range cells {
		if c.Err != nil {
			return nil
		}
		sum.Energy += c.Energy
		sum.EnergyFull += c.EnergyFull
	}
	return &sum
}
