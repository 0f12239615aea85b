// Passenger transfer between a stop's queue and a bus's manifest.

package sim

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// PassengerLoader boards passengers onto a manifest. It holds no state.
type PassengerLoader struct{}

// LoadPassenger appends p to manifest and marks it on the bus iff the
// manifest holds fewer than maxPass passengers. The (possibly grown)
// manifest is returned with ok=false when the bus is full, in which case
// the passenger stays at the stop.
func (PassengerLoader) LoadPassenger(p *Passenger, maxPass int, manifest []*Passenger) ([]*Passenger, bool) {
	if p == nil || len(manifest) >= maxPass {
		return manifest, false
	}
	p.GetOnBus()
	return append(manifest, p), true
}

// PassengerUnloader removes passengers who reached their destination and
// records each of them on the log writer under PassengerDataFile.
type PassengerUnloader struct {
	log LogWriter
}

// NewPassengerUnloader creates an unloader writing to log. A nil log discards records.
func NewPassengerUnloader(log LogWriter) *PassengerUnloader {
	if log == nil {
		log = DiscardLog
	}
	return &PassengerUnloader{log: log}
}

// UnloadPassengers partitions manifest into passengers staying aboard and
// passengers whose destination is stop. Every passenger is visited exactly
// once; relative order of kept passengers is preserved. The input slice is
// not modified.
func (u *PassengerUnloader) UnloadPassengers(manifest []*Passenger, stop *Stop) (kept, departed []*Passenger) {
	kept = make([]*Passenger, 0, len(manifest))
	for _, p := range manifest {
		if p.Destination() != stop.ID() {
			kept = append(kept, p)
			continue
		}
		departed = append(departed, p)
		var sb strings.Builder
		p.Report(&sb)
		if err := u.log.Write(PassengerDataFile, ReportFields(sb.String())); err != nil {
			logrus.Warnf("writing passenger %d record: %v", p.ID(), err)
		}
	}
	return kept, departed
}
