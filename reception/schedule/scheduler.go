// Package schedule finds open appointment slots on the shared office
// calendar and books consultations into them.
package schedule

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/bearteam/frontdesk/reception/brokerage"
	contractx "github.com/bearteam/frontdesk/reception/contract"
)

// maxSlots bounds how many candidates a scan returns; callers only ever
// book the first, the rest exist for the notification email.
const maxSlots = 4

// Hours describes when the office takes appointments.
type Hours struct {
	StartHour int
	EndHour   int
	Days      map[time.Weekday]bool
	Location  *time.Location
}

// OfficeHours returns the brokerage's configured business hours.
func OfficeHours() Hours {
	return Hours{
		StartHour: brokerage.BusinessHoursStart,
		EndHour:   brokerage.BusinessHoursEnd,
		Days:      brokerage.BusinessDays,
		Location:  brokerage.Location(),
	}
}

type interval struct {
	start time.Time
	end   time.Time
}

// SchedulerOption customizes a Scheduler.
type SchedulerOption func(*Scheduler)

// WithNow overrides the scheduler clock. Test hook.
func WithNow(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// Scheduler queries and writes the shared Google Calendar.
type Scheduler struct {
	svc        *calendar.Service
	calendarID string
	hours      Hours
	now        func() time.Time
}

func New(svc *calendar.Service, calendarID string, hours Hours, opts ...SchedulerOption) *Scheduler {
	if hours.Location == nil {
		hours.Location = time.UTC
	}
	s := &Scheduler{
		svc:        svc,
		calendarID: calendarID,
		hours:      hours,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// OpenSlots fetches busy intervals within the horizon and greedily scans
// forward for up to four free one-hour starts inside business hours. First
// feasible slots win; there is no packing optimization.
func (s *Scheduler) OpenSlots(ctx context.Context, horizonDays int) ([]time.Time, error) {
	now := s.now().In(s.hours.Location)
	end := now.AddDate(0, 0, horizonDays)

	events, err := s.svc.Events.List(s.calendarID).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: list events: %v", contractx.ErrCalendarCall, err)
	}

	busy := make([]interval, 0, len(events.Items))
	for _, ev := range events.Items {
		// All-day events carry Date, not DateTime, and don't block slots.
		if ev.Start == nil || ev.End == nil || ev.Start.DateTime == "" || ev.End.DateTime == "" {
			continue
		}
		start, serr := time.Parse(time.RFC3339, ev.Start.DateTime)
		if serr != nil {
			continue
		}
		stop, eerr := time.Parse(time.RFC3339, ev.End.DateTime)
		if eerr != nil {
			continue
		}
		busy = append(busy, interval{start: start.In(s.hours.Location), end: stop.In(s.hours.Location)})
	}

	return openSlots(now, end, busy, s.hours), nil
}

// openSlots is the pure scan: step hour by hour from the next full hour,
// accept candidates on business days within [StartHour, EndHour) whose
// one-hour span overlaps no busy interval.
func openSlots(now, end time.Time, busy []interval, hours Hours) []time.Time {
	check := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, hours.Location).
		Add(time.Hour)

	var slots []time.Time
	for check.Before(end) && len(slots) < maxSlots {
		if hours.Days[check.Weekday()] && check.Hour() >= hours.StartHour && check.Hour() < hours.EndHour {
			slotEnd := check.Add(time.Hour)
			if !overlapsAny(busy, check, slotEnd) {
				slots = append(slots, check)
			}
		}
		check = check.Add(time.Hour)
	}
	return slots
}

func overlapsAny(busy []interval, start, end time.Time) bool {
	for _, b := range busy {
		if b.start.Before(end) && b.end.After(start) {
			return true
		}
	}
	return false
}

// Book inserts a one-hour appointment for the caller. Reminder overrides
// give the assigned agent an email an hour out and a popup half an hour out.
func (s *Scheduler) Book(ctx context.Context, callerID string, slot time.Time, agent *contractx.Agent, intent contractx.Intent) error {
	label := brokerage.AppointmentLabel(intent)
	agentName := "TBD"
	if agent != nil {
		agentName = agent.Name
	}

	event := &calendar.Event{
		Summary: fmt.Sprintf("Bear Team — %s with %s", label, callerID),
		Description: fmt.Sprintf("Caller: %s\nType: %s\nAgent: %s\nBooked via AI phone system.",
			callerID, label, agentName),
		Start: &calendar.EventDateTime{
			DateTime: slot.Format(time.RFC3339),
			TimeZone: brokerage.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: slot.Add(time.Hour).Format(time.RFC3339),
			TimeZone: brokerage.Timezone,
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 60},
				{Method: "popup", Minutes: 30},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	if _, err := s.svc.Events.Insert(s.calendarID, event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: insert event: %v", contractx.ErrCalendarCall, err)
	}
	return nil
}
