// Package meeting defines the canonical normalized record that every site
// adapter produces, plus the date and clock parsing helpers they share.
package meeting

import "time"

// Statuses used by adapters depending on whether an agenda has been posted.
const (
	StatusScheduled   = "Scheduled"
	StatusNoAgendaYet = "Scheduled (no agenda yet)"
	TimeTBD           = "Time TBD"
)

// Record is the canonical unit of output for one scheduled meeting.
type Record struct {
	Organization   string   `json:"organization"`
	MeetingType    string   `json:"meeting_type"`
	Date           string   `json:"date"`             // YYYY-MM-DD
	StartTimeLocal string   `json:"start_time_local"` // e.g. "6:00 PM" or "Time TBD"
	Status         string   `json:"status"`
	Location       string   `json:"location,omitempty"`
	AgendaURL      string   `json:"agenda_url,omitempty"`
	AgendaSummary  []string `json:"agenda_summary"`
	Source         string   `json:"source"`
}

// New assembles a Record. It performs no validation beyond what the caller
// already guarantees; it is a constructor, not a parser.
func New(organization, meetingType, date, startTimeLocal, status, location, agendaURL string, agendaSummary []string, source string) Record {
	if agendaSummary == nil {
		agendaSummary = []string{}
	}
	return Record{
		Organization:   organization,
		MeetingType:    meetingType,
		Date:           date,
		StartTimeLocal: startTimeLocal,
		Status:         status,
		Location:       location,
		AgendaURL:      agendaURL,
		AgendaSummary:  agendaSummary,
		Source:         source,
	}
}

// Document is the output envelope the orchestrator writes to meetings.json.
type Document struct {
	LastChecked string   `json:"last_checked_mt"` // "2006-01-02 15:04" in America/Denver
	Meetings    []Record `json:"meetings"`
}

// NewDocument stamps the envelope with the current Mountain Time.
func NewDocument(records []Record) Document {
	if records == nil {
		records = []Record{}
	}
	return Document{
		LastChecked: time.Now().In(Zone()).Format("2006-01-02 15:04"),
		Meetings:    records,
	}
}
