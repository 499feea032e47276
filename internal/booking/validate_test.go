package booking

import (
	"strings"
	"testing"
	"time"
)

// referenceNow pins the validator clock to 2024-01-10 10:00 local time.
func referenceNow() time.Time {
	return time.Date(2024, 1, 10, 10, 0, 0, 0, time.Local)
}

func validRequest() Request {
	return Request{
		Title:         "Sprint planning",
		Agenda:        "Plan the next sprint",
		Date:          "2024-01-11",
		StartTime:     "10:30",
		DurationLabel: "1 hour",
		Attendees:     []string{"john.doe@example.com", "jane.smith@example.com"},
		RoomName:      "Conference A",
	}
}

func fieldsOf(errs []FieldError) []string {
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fe.Field)
	}
	return fields
}

func hasField(errs []FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidatorValidate(t *testing.T) {
	v := Validator{Now: referenceNow}

	t.Run("valid request has no violations", func(t *testing.T) {
		if errs := v.Validate(validRequest()); len(errs) != 0 {
			t.Fatalf("expected no violations, got %v", errs)
		}
	})

	t.Run("each missing field is named", func(t *testing.T) {
		errs := v.Validate(Request{})
		for _, field := range []string{"title", "agenda", "date", "start_time", "duration", "attendees", "room"} {
			if !hasField(errs, field) {
				t.Fatalf("expected violation for %q, got fields %v", field, fieldsOf(errs))
			}
		}
	})

	t.Run("all violations are reported in one pass", func(t *testing.T) {
		req := validRequest()
		req.Title = "   "
		req.Attendees = nil
		req.RoomName = ""
		errs := v.Validate(req)
		if len(errs) != 3 {
			t.Fatalf("expected 3 violations, got %v", errs)
		}
	})

	t.Run("violations keep field order", func(t *testing.T) {
		req := validRequest()
		req.Title = ""
		req.RoomName = ""
		errs := v.Validate(req)
		if len(errs) != 2 || errs[0].Field != "title" || errs[1].Field != "room" {
			t.Fatalf("expected [title room], got %v", fieldsOf(errs))
		}
	})

	t.Run("message names the violated field", func(t *testing.T) {
		req := validRequest()
		req.Agenda = ""
		errs := v.Validate(req)
		if len(errs) != 1 || !strings.Contains(errs[0].Message, "agenda") {
			t.Fatalf("expected agenda message, got %v", errs)
		}
	})

	t.Run("past date is rejected", func(t *testing.T) {
		req := validRequest()
		req.Date = "2024-01-09"
		if errs := v.Validate(req); !hasField(errs, "date") {
			t.Fatalf("expected date violation, got %v", errs)
		}
	})

	t.Run("unparseable date is a violation, not a crash", func(t *testing.T) {
		req := validRequest()
		req.Date = "next tuesday"
		if errs := v.Validate(req); !hasField(errs, "date") {
			t.Fatalf("expected date violation, got %v", errs)
		}
	})

	t.Run("today with earlier start time is rejected", func(t *testing.T) {
		req := validRequest()
		req.Date = "2024-01-10"
		req.StartTime = "09:59"
		if errs := v.Validate(req); !hasField(errs, "start_time") {
			t.Fatalf("expected start_time violation, got %v", errs)
		}
	})

	t.Run("today with the current minute is accepted", func(t *testing.T) {
		req := validRequest()
		req.Date = "2024-01-10"
		req.StartTime = "10:00"
		if errs := v.Validate(req); len(errs) != 0 {
			t.Fatalf("expected no violations, got %v", errs)
		}
	})

	t.Run("future date with early start time is accepted", func(t *testing.T) {
		req := validRequest()
		req.Date = "2024-01-11"
		req.StartTime = "08:00"
		if errs := v.Validate(req); len(errs) != 0 {
			t.Fatalf("expected no violations, got %v", errs)
		}
	})

	t.Run("unparseable start time is a violation", func(t *testing.T) {
		req := validRequest()
		req.StartTime = "ten thirty"
		if errs := v.Validate(req); !hasField(errs, "start_time") {
			t.Fatalf("expected start_time violation, got %v", errs)
		}
	})

	t.Run("unrecognized duration label is a hard failure", func(t *testing.T) {
		req := validRequest()
		req.DurationLabel = "45 minutes"
		if errs := v.Validate(req); !hasField(errs, "duration") {
			t.Fatalf("expected duration violation, got %v", errs)
		}
	})

	t.Run("meeting running past midnight is rejected", func(t *testing.T) {
		req := validRequest()
		req.StartTime = "23:30"
		req.DurationLabel = "1 hour"
		if errs := v.Validate(req); !hasField(errs, "duration") {
			t.Fatalf("expected duration violation, got %v", errs)
		}
	})

	t.Run("meeting ending exactly at midnight is accepted", func(t *testing.T) {
		req := validRequest()
		req.StartTime = "23:00"
		req.DurationLabel = "1 hour"
		if errs := v.Validate(req); len(errs) != 0 {
			t.Fatalf("expected no violations, got %v", errs)
		}
	})

	t.Run("bad attendee address is reported", func(t *testing.T) {
		req := validRequest()
		req.Attendees = []string{"bad-email"}
		errs := v.Validate(req)
		if !hasField(errs, "attendees") {
			t.Fatalf("expected attendees violation, got %v", errs)
		}
		if !strings.Contains(errs[0].Message, "bad-email") {
			t.Fatalf("expected message naming the address, got %v", errs)
		}
	})
}

func TestValidEmail(t *testing.T) {
	valid := []string{"john.doe@example.com", "a@b.co", "user+tag@host.example.org"}
	for _, addr := range valid {
		if !ValidEmail(addr) {
			t.Errorf("expected %q to be valid", addr)
		}
	}

	invalid := []string{"bad-email", "no domain@example.com", "user@", "@example.com", "user@host", "user@ho st.com"}
	for _, addr := range invalid {
		if ValidEmail(addr) {
			t.Errorf("expected %q to be invalid", addr)
		}
	}
}

func TestDurationMinutes(t *testing.T) {
	cases := map[string]int{
		"30 minutes": 30,
		"1 hour":     60,
		"1.5 hours":  90,
		"2 hours":    120,
		"3 hours":    180,
	}
	for label, want := range cases {
		got, ok := DurationMinutes(label)
		if !ok || got != want {
			t.Errorf("DurationMinutes(%q) = %d, %v; want %d, true", label, got, ok, want)
		}
	}

	if _, ok := DurationMinutes("4 hours"); ok {
		t.Error("expected unknown label to be rejected")
	}
}

func TestValidatorNormalize(t *testing.T) {
	v := Validator{Now: referenceNow}

	t.Run("canonical duration and joined attendees", func(t *testing.T) {
		req := validRequest()
		req.DurationLabel = "1.5 hours"
		payload, errs := v.Normalize(req)
		if len(errs) != 0 {
			t.Fatalf("unexpected violations: %v", errs)
		}
		if payload.Duration != "01:30" {
			t.Fatalf("duration = %q, want 01:30", payload.Duration)
		}
		if payload.Attendees != "john.doe@example.com,jane.smith@example.com" {
			t.Fatalf("attendees = %q", payload.Attendees)
		}
		if payload.Room != "Conference A" {
			t.Fatalf("room = %q", payload.Room)
		}
	})

	t.Run("no payload on failure", func(t *testing.T) {
		req := validRequest()
		req.Attendees = []string{"bad-email"}
		payload, errs := v.Normalize(req)
		if len(errs) == 0 {
			t.Fatal("expected violations")
		}
		if payload != (Payload{}) {
			t.Fatalf("expected zero payload, got %+v", payload)
		}
	})

	t.Run("all five labels map to table values", func(t *testing.T) {
		want := map[string]string{
			"30 minutes": "00:30",
			"1 hour":     "01:00",
			"1.5 hours":  "01:30",
			"2 hours":    "02:00",
			"3 hours":    "03:00",
		}
		for label, canonical := range want {
			req := validRequest()
			req.DurationLabel = label
			payload, errs := v.Normalize(req)
			if len(errs) != 0 {
				t.Fatalf("label %q: unexpected violations %v", label, errs)
			}
			if payload.Duration != canonical {
				t.Fatalf("label %q: duration = %q, want %q", label, payload.Duration, canonical)
			}
		}
	})
}

func TestRequestAddAttendee(t *testing.T) {
	var req Request
	if !req.AddAttendee("a@example.com") {
		t.Fatal("expected first add to change the list")
	}
	if req.AddAttendee("a@example.com") {
		t.Fatal("expected duplicate add to be a no-op")
	}
	req.AddAttendee("b@example.com")
	req.AddAttendee("c@example.com")

	if len(req.Attendees) != 3 {
		t.Fatalf("got %d attendees, want 3", len(req.Attendees))
	}
	// Insertion order is preserved for display.
	if req.Attendees[0] != "a@example.com" || req.Attendees[2] != "c@example.com" {
		t.Fatalf("unexpected order: %v", req.Attendees)
	}

	req.RemoveAttendee("b@example.com")
	if len(req.Attendees) != 2 || req.Attendees[1] != "c@example.com" {
		t.Fatalf("unexpected list after removal: %v", req.Attendees)
	}
	// Removing an absent address is harmless.
	req.RemoveAttendee("missing@example.com")
	if len(req.Attendees) != 2 {
		t.Fatalf("unexpected list after removing absent: %v", req.Attendees)
	}
}
