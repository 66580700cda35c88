package file

import (
	"context"
	"testing"
)

func TestLoadPerformanceEvents(t *testing.T) {
	csv := "app_id,clicks,impressions,revenue\n" +
		"app-1,10,1000,12.5\n" +
		"app-1,20,3000,7.5\n" +
		"app-2,5,200,\n"
	repo := NewPerformanceRepository(writeTempFile(t, "perf.csv", csv))

	events, err := repo.LoadPerformanceEvents(context.Background())
	if err != nil {
		t.Fatalf("LoadPerformanceEvents: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	if events[0].AppID != "app-1" || events[0].Clicks != 10 || events[0].Impressions != 1000 {
		t.Errorf("first event = %+v", events[0])
	}
	if events[2].Revenue != 0 {
		t.Errorf("empty revenue should parse as 0, got %v", events[2].Revenue)
	}
}

func TestLoadPerformanceEventsSkipsMalformedRows(t *testing.T) {
	csv := "app_id,clicks,impressions,revenue\n" +
		"app-1,10,1000,1.0\n" +
		"app-2,not-a-number,500,1.0\n" +
		",5,100,1.0\n" +
		"app-3,1,bad,1.0\n"
	repo := NewPerformanceRepository(writeTempFile(t, "perf.csv", csv))

	events, err := repo.LoadPerformanceEvents(context.Background())
	if err != nil {
		t.Fatalf("LoadPerformanceEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1 (malformed rows skipped)", len(events))
	}
	if events[0].AppID != "app-1" {
		t.Errorf("surviving event = %+v", events[0])
	}
}
