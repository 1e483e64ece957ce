package meeting

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_NilSummaryBecomesEmptyList(t *testing.T) {
	rec := New("City of Alamosa", "City Council Regular Meeting", "2025-11-05", "6:00 PM",
		StatusScheduled, "Council Chambers", "https://example.com/a.pdf", nil, "https://example.com/detail")
	if rec.AgendaSummary == nil {
		t.Fatal("agenda summary must never be nil")
	}
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"agenda_summary":[]`) {
		t.Fatalf("expected empty list in JSON, got %s", b)
	}
}

func TestRecordJSONFieldNames(t *testing.T) {
	rec := New("El Paso County", "Board of County Commissioners", "2025-10-28", "9:00 AM",
		StatusNoAgendaYet, "", "", nil, "https://www.agendasuite.org/iip/elpaso")
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{
		`"organization"`, `"meeting_type"`, `"date"`, `"start_time_local"`,
		`"status"`, `"agenda_summary"`, `"source"`,
	} {
		if !strings.Contains(string(b), field) {
			t.Errorf("missing field %s in %s", field, b)
		}
	}
	// Empty optional fields stay out of the document.
	if strings.Contains(string(b), `"location"`) || strings.Contains(string(b), `"agenda_url"`) {
		t.Errorf("empty optional fields should be omitted: %s", b)
	}
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument(nil)
	if doc.Meetings == nil {
		t.Fatal("meetings must never be nil")
	}
	if doc.LastChecked == "" {
		t.Fatal("expected timestamp")
	}
}
