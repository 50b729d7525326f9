// Package runner drives one scan-and-report cycle.
package runner

import (
	"context"
	"io"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/peribatt/pkg/ble"
	"github.com/charlie0129/peribatt/pkg/dygma"
	"github.com/charlie0129/peribatt/pkg/hostbattery"
	"github.com/charlie0129/peribatt/pkg/permissions"
	"github.com/charlie0129/peribatt/pkg/report"
)

// Options selects the pipelines of a run.
type Options struct {
	Bluetooth bool
	Dygma     bool
	Host      bool
	JSON      bool
}

// Any reports whether at least one pipeline is selected.
func (o Options) Any() bool {
	return o.Bluetooth || o.Dygma || o.Host
}

// Runner holds the collaborators of a run.
type Runner struct {
	Permissions permissions.Checker
	BLE         ble.Transport
	Scanner     *ble.Scanner
	Serial      *dygma.Client
	Host        hostbattery.Source
	Out         io.Writer
}

// New returns a Runner wired to the system Bluetooth stack, serial ports
// and batteries, printing to out.
func New(out io.Writer) *Runner {
	return &Runner{
		Permissions: permissions.System(),
		BLE:         systemTransport(),
		Scanner:     ble.NewScanner(),
		Serial:      dygma.NewClient(dygma.NewSerialTransport()),
		Host:        hostbattery.SystemSource(),
		Out:         out,
	}
}

// Run collects the selected reports and prints them. Nothing is printed
// if any step fails.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	reports, err := r.Collect(ctx, opts)
	if err != nil {
		return err
	}
	return report.Write(r.Out, reports, opts.JSON)
}

// Collect runs the selected pipelines in order: Bluetooth, Dygma, host.
func (r *Runner) Collect(ctx context.Context, opts Options) ([]report.Report, error) {
	logrus.Debug("checking permissions")
	if err := permissions.Check(r.Permissions); err != nil {
		return nil, err
	}

	var reports []report.Report

	if opts.Bluetooth {
		logrus.Info("bluetooth devices are enabled")
		bt, err := r.collectBluetooth(ctx)
		if err != nil {
			return nil, err
		}
		reports = append(reports, bt...)
	}

	if opts.Dygma {
		logrus.Info("dygma devices are enabled")
		dy, err := r.collectDygma(ctx)
		if err != nil {
			return nil, err
		}
		reports = append(reports, dy...)
	}

	if opts.Host {
		logrus.Info("host batteries are enabled")
		readings, err := hostbattery.Read(r.Host)
		if err != nil {
			return nil, err
		}
		for _, h := range readings {
			reports = append(reports, report.FromHost(h))
		}
	}

	return reports, nil
}

func (r *Runner) collectBluetooth(ctx context.Context) ([]report.Report, error) {
	adapter, err := ble.GetAdapter(ctx, r.BLE)
	if err != nil {
		return nil, err
	}

	readings, err := r.Scanner.ProcessAdapter(ctx, adapter)
	if err != nil {
		return nil, err
	}

	reports := make([]report.Report, 0, len(readings))
	for _, reading := range readings {
		reports = append(reports, report.FromBLE(reading))
	}
	return reports, nil
}

type dygmaResult struct {
	reports []report.Report
	err     error
}

// collectDygma does all serial I/O on its own goroutine. A failure on any
// port aborts the remaining ones.
func (r *Runner) collectDygma(ctx context.Context) ([]report.Report, error) {
	done := make(chan dygmaResult, 1)
	go func() {
		reports, err := r.queryDygma()
		done <- dygmaResult{reports: reports, err: err}
	}()

	select {
	case res := <-done:
		return res.reports, res.err
	case <-ctx.Done():
		return nil, pkgerrors.Wrap(ctx.Err(), "interrupted while querying dygma devices")
	}
}

func (r *Runner) queryDygma() ([]report.Report, error) {
	devices, err := r.Serial.ListDevices()
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		logrus.Info("no dygma devices found")
		return nil, nil
	}

	reports := make([]report.Report, 0, len(devices))
	for _, dev := range devices {
		info, err := r.Serial.GetBatteryInfo(dev.Path)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report.FromSerial(info))
	}
	return reports, nil
}
