package report

import "fmt"
import "slices"

import "github.com/sirgallo/logsupervisor/pkg/agency"


//=========================================== Diagnostic Reporter


func NewReporter() *Reporter {
	return &Reporter{}
}

func (reporter *Reporter) Add(code Code, detail string) {
	reporter.entries = append(reporter.entries, Entry{ Code: code, Detail: detail })
}

func (reporter *Reporter) AddFor(code Code, participant agency.ParticipantId, detail string) {
	reporter.entries = append(reporter.entries, Entry{ Code: code, Participant: &participant, Detail: detail })
}

// Entries returns a copy; the reporter keeps ownership of its backing array.
func (reporter *Reporter) Entries() Report {
	return slices.Clone(reporter.entries)
}

func (rep Report) Contains(code Code) bool {
	return slices.ContainsFunc(rep, func(entry Entry) bool { return entry.Code == code })
}

func (rep Report) ContainsFor(code Code, participant agency.ParticipantId) bool {
	return slices.ContainsFunc(rep, func(entry Entry) bool {
		return entry.Code == code && entry.Participant != nil && *entry.Participant == participant
	})
}

func (entry Entry) String() string {
	if entry.Participant != nil { return fmt.Sprintf("%s[%s]: %s", entry.Code, *entry.Participant, entry.Detail) }
	return fmt.Sprintf("%s: %s", entry.Code, entry.Detail)
}
