// Package hostbattery reads the internal batteries of the host itself.
package hostbattery

import (
	"errors"
	"fmt"
	"math"

	"github.com/distatus/battery"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/peribatt/pkg/powerinfo"
)

// Reading is the state of one internal battery.
type Reading struct {
	Name   string
	Level  uint8
	Status powerinfo.BatteryStatus
}

// Source lists the batteries of the host.
type Source interface {
	GetAll() ([]*battery.Battery, error)
}

type systemSource struct{}

// SystemSource reads batteries from the OS power API.
func SystemSource() Source {
	return systemSource{}
}

func (systemSource) GetAll() ([]*battery.Battery, error) {
	return battery.GetAll()
}

// Read returns one Reading per battery. Batteries the OS failed to report
// are skipped when the others could be read.
func Read(src Source) ([]Reading, error) {
	batteries, err := src.GetAll()
	if err != nil {
		var partial battery.Errors
		if !errors.As(err, &partial) {
			return nil, pkgerrors.Wrap(err, "failed to get host batteries")
		}
		for i, e := range partial {
			if e != nil {
				logrus.WithError(e).Warnf("failed to read host battery %d", i)
			}
		}
	}

	var usable []*battery.Battery
	for _, b := range batteries {
		if b != nil {
			usable = append(usable, b)
		}
	}
	if len(usable) == 0 {
		logrus.Info("no host batteries found")
		return nil, nil
	}

	readings := make([]Reading, 0, len(usable))
	for i, b := range usable {
		name := "Internal battery"
		if len(usable) > 1 {
			name = fmt.Sprintf("Internal battery %d", i+1)
		}
		readings = append(readings, Reading{
			Name:   name,
			Level:  levelPercent(b),
			Status: StatusFromState(b.State),
		})
	}
	return readings, nil
}

// StatusFromState maps the OS battery state to a BatteryStatus.
func StatusFromState(s battery.State) powerinfo.BatteryStatus {
	switch s {
	case battery.Charging:
		return powerinfo.Charging
	case battery.Full:
		return powerinfo.Charged
	case battery.Discharging:
		return powerinfo.Discharging
	default:
		return powerinfo.Unknown
	}
}

func levelPercent(b *battery.Battery) uint8 {
	if b.Full <= 0 {
		return 0
	}
	p := math.Round(b.Current / b.Full * 100)
	if math.IsNaN(p) {
		return 0
	}
	return uint8(math.Max(0, math.Min(100, p)))
}
