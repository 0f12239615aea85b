package sim

import "strings"

// Log destinations written by the core.
const (
	BusDataFile       = "BusData.csv"  // one record per completed trip
	PassengerDataFile = "PassData.csv" // one record per passenger reaching its destination
)

// LogWriter is the append-only sink for trip and passenger records.
// dest names the log (BusDataFile, PassengerDataFile); fields are the
// record's pre-formatted columns. See sim/csvlog for the file-backed writer.
type LogWriter interface {
	Write(dest string, fields []string) error
}

// DiscardLog drops every record.
var DiscardLog LogWriter = discardLog{}

type discardLog struct{}

func (discardLog) Write(string, []string) error { return nil }

// ReportFields flattens a textual report into record fields: tabs and
// colons are removed and the remainder is split on whitespace.
//
//	"Name: Bob\n\tWait at Stop: 2\n" -> [Name Bob Wait at Stop 2]
func ReportFields(report string) []string {
	cleaned := strings.NewReplacer("\t", "", ":", "").Replace(report)
	return strings.Fields(cleaned)
}
