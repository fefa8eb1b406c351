package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/bearteam/frontdesk/reception/brokerage"
	contractx "github.com/bearteam/frontdesk/reception/contract"
)

func testHours() Hours {
	return Hours{
		StartHour: 8,
		EndHour:   17,
		Days: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		Location: time.UTC,
	}
}

// 2024-01-08 is a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2024, 1, 8, hour, min, 0, 0, time.UTC)
}

func TestOpenSlotsStartsAtNextFullHour(t *testing.T) {
	t.Parallel()

	now := monday(9, 30)
	slots := openSlots(now, now.AddDate(0, 0, 5), nil, testHours())

	if len(slots) != 4 {
		t.Fatalf("got %d slots, want 4", len(slots))
	}
	if !slots[0].Equal(monday(10, 0)) {
		t.Fatalf("first slot = %v, want 10:00", slots[0])
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i].Equal(slots[i-1].Add(time.Hour)) {
			t.Fatalf("slots not consecutive hours: %v", slots)
		}
	}
}

func TestOpenSlotsRespectsBusinessWindow(t *testing.T) {
	t.Parallel()

	// Late Friday afternoon: remaining Friday hours are outside the
	// window, weekend is skipped, scan resumes Monday 8 AM.
	friday := time.Date(2024, 1, 5, 16, 30, 0, 0, time.UTC)
	slots := openSlots(friday, friday.AddDate(0, 0, 5), nil, testHours())

	if len(slots) == 0 {
		t.Fatal("expected slots on the following Monday")
	}
	if !slots[0].Equal(monday(8, 0)) {
		t.Fatalf("first slot = %v, want Monday 08:00", slots[0])
	}
	for _, s := range slots {
		if s.Weekday() == time.Saturday || s.Weekday() == time.Sunday {
			t.Fatalf("slot on weekend: %v", s)
		}
		if s.Hour() < 8 || s.Hour() >= 17 {
			t.Fatalf("slot outside business hours: %v", s)
		}
	}
}

func TestOpenSlotsSkipsBusyIntervals(t *testing.T) {
	t.Parallel()

	now := monday(9, 0)
	busy := []interval{
		{start: monday(10, 0), end: monday(11, 0)},
		{start: monday(11, 30), end: monday(12, 30)},
	}
	slots := openSlots(now, now.AddDate(0, 0, 1), busy, testHours())

	if len(slots) != 4 {
		t.Fatalf("got %d slots, want 4", len(slots))
	}
	// 10:00 fully busy, 11:00 and 12:00 clipped by the 11:30-12:30 block.
	want := []time.Time{monday(13, 0), monday(14, 0), monday(15, 0), monday(16, 0)}
	for i, w := range want {
		if !slots[i].Equal(w) {
			t.Fatalf("slots[%d] = %v, want %v", i, slots[i], w)
		}
	}
}

func TestOpenSlotsHalfOpenOverlap(t *testing.T) {
	t.Parallel()

	now := monday(9, 0)
	// Busy block ends exactly when the candidate starts: no overlap.
	busy := []interval{{start: monday(9, 0), end: monday(10, 0)}}
	slots := openSlots(now, now.AddDate(0, 0, 1), busy, testHours())

	if len(slots) == 0 || !slots[0].Equal(monday(10, 0)) {
		t.Fatalf("back-to-back slot rejected: %v", slots)
	}

	// Busy block starts exactly when the candidate ends: no overlap either.
	busy = []interval{{start: monday(11, 0), end: monday(12, 0)}}
	slots = openSlots(now, now.AddDate(0, 0, 1), busy, testHours())
	if !slots[0].Equal(monday(10, 0)) {
		t.Fatalf("first slot = %v, want 10:00", slots[0])
	}
}

func TestOpenSlotsHorizonBound(t *testing.T) {
	t.Parallel()

	now := monday(15, 30)
	// One-hour horizon: only the 16:00 slot fits before the cutoff.
	slots := openSlots(now, now.Add(time.Hour), nil, testHours())
	if len(slots) != 1 || !slots[0].Equal(monday(16, 0)) {
		t.Fatalf("slots = %v, want just 16:00", slots)
	}
}

func newTestScheduler(t *testing.T, handler http.HandlerFunc, now time.Time) *Scheduler {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithEndpoint(server.URL),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("calendar.NewService() error = %v", err)
	}
	return New(svc, "primary", testHours(), WithNow(func() time.Time { return now }))
}

func TestOpenSlotsFetchesBusyFromCalendar(t *testing.T) {
	t.Parallel()

	now := monday(9, 0)
	sched := newTestScheduler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"items": [
			{"start": {"dateTime": %q}, "end": {"dateTime": %q}},
			{"start": {"date": "2024-01-09"}, "end": {"date": "2024-01-10"}}
		]}`, monday(10, 0).Format(time.RFC3339), monday(11, 0).Format(time.RFC3339))
	}, now)

	slots, err := sched.OpenSlots(context.Background(), 1)
	if err != nil {
		t.Fatalf("OpenSlots() error = %v", err)
	}
	for _, s := range slots {
		if s.Equal(monday(10, 0)) {
			t.Fatalf("busy 10:00 slot offered: %v", slots)
		}
	}
	if len(slots) == 0 || !slots[0].Equal(monday(11, 0)) {
		t.Fatalf("first slot = %v, want 11:00 (all-day event must not block)", slots)
	}
}

func TestOpenSlotsDegradesOnAPIError(t *testing.T) {
	t.Parallel()

	sched := newTestScheduler(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 500}}`, http.StatusInternalServerError)
	}, monday(9, 0))

	slots, err := sched.OpenSlots(context.Background(), 1)
	if len(slots) != 0 {
		t.Fatalf("slots = %v, want none on API failure", slots)
	}
	if !errors.Is(err, contractx.ErrCalendarCall) {
		t.Fatalf("error = %v, want ErrCalendarCall", err)
	}
}

func TestBookInsertsEvent(t *testing.T) {
	t.Parallel()

	var inserted calendar.Event
	now := monday(9, 0)
	sched := newTestScheduler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&inserted); err != nil {
			t.Errorf("decode event: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "evt-1"}`)
	}, now)

	agent := &contractx.Agent{Name: "Bethanne Baer"}
	slot := monday(10, 0)
	if err := sched.Book(context.Background(), "+14075551234", slot, agent, contractx.IntentSeller); err != nil {
		t.Fatalf("Book() error = %v", err)
	}

	if inserted.Summary != "Bear Team — Listing Consultation with +14075551234" {
		t.Fatalf("event summary = %q", inserted.Summary)
	}
	if inserted.Start == nil || inserted.Start.DateTime != slot.Format(time.RFC3339) {
		t.Fatalf("event start = %+v", inserted.Start)
	}
	if inserted.End == nil || inserted.End.DateTime != slot.Add(time.Hour).Format(time.RFC3339) {
		t.Fatalf("event end = %+v", inserted.End)
	}
	if inserted.Start.TimeZone != brokerage.Timezone {
		t.Fatalf("event timezone = %q", inserted.Start.TimeZone)
	}
	if inserted.Reminders == nil || inserted.Reminders.UseDefault || len(inserted.Reminders.Overrides) != 2 {
		t.Fatalf("reminders = %+v", inserted.Reminders)
	}
}

func TestBookWrapsAPIError(t *testing.T) {
	t.Parallel()

	sched := newTestScheduler(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 403}}`, http.StatusForbidden)
	}, monday(9, 0))

	err := sched.Book(context.Background(), "+14075551234", monday(10, 0), nil, contractx.IntentBuyer)
	if !errors.Is(err, contractx.ErrCalendarCall) {
		t.Fatalf("error = %v, want ErrCalendarCall", err)
	}
}
