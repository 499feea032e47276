package booking

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/example/meetingroom-booking/internal/availability"
)

// FieldError names a single violated rule. A validation pass returns every
// violation at once so the form can mark all offending fields together.
type FieldError struct {
	Field   string
	Message string
}

// Messages flattens field errors into their human-readable messages,
// preserving validation order.
func Messages(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		out = append(out, fe.Message)
	}
	return out
}

// Permissive syntactic check only: something, @, something, dot, something.
// Full RFC 5322 parsing and existence checks belong to the mail system.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s]+$`)

// ValidEmail reports whether an attendee address passes the syntactic check.
func ValidEmail(address string) bool {
	return emailPattern.MatchString(address)
}

const dateLayout = "2006-01-02"

// Validator checks booking requests against the submission rules. Now
// supplies the wall clock so past-date rules are testable.
type Validator struct {
	Now func() time.Time
}

// Validate returns every violated rule in one pass, ordered by field. An
// empty slice means the request is submittable.
func (v Validator) Validate(req Request) []FieldError {
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}

	var errs []FieldError
	add := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}

	if strings.TrimSpace(req.Title) == "" {
		add("title", "title is required")
	}
	if strings.TrimSpace(req.Agenda) == "" {
		add("agenda", "agenda is required")
	}

	current := now()
	today := current.Format(dateLayout)

	dateKnown := false
	if strings.TrimSpace(req.Date) == "" {
		add("date", "date is required")
	} else if _, err := time.Parse(dateLayout, req.Date); err != nil {
		add("date", "date must be in YYYY-MM-DD format")
	} else {
		dateKnown = true
		// ISO dates compare correctly as strings.
		if req.Date < today {
			add("date", "date must not be in the past")
		}
	}

	startMinute := -1
	if strings.TrimSpace(req.StartTime) == "" {
		add("start_time", "start time is required")
	} else if minute, err := availability.ParseClock(req.StartTime); err != nil {
		add("start_time", "start time must be in HH:MM format")
	} else {
		startMinute = minute
		if dateKnown && req.Date == today {
			nowMinute := current.Hour()*60 + current.Minute()
			if minute < nowMinute {
				add("start_time", "start time must not be in the past")
			}
		}
	}

	if strings.TrimSpace(req.DurationLabel) == "" {
		add("duration", "duration is required")
	} else if minutes, ok := DurationMinutes(req.DurationLabel); !ok {
		add("duration", "duration is not a recognized option")
	} else if startMinute >= 0 {
		if _, err := availability.NewWindow(startMinute, minutes); errors.Is(err, availability.ErrCrossesMidnight) {
			add("duration", "meeting must end by midnight")
		}
	}

	if len(req.Attendees) == 0 {
		add("attendees", "at least one attendee is required")
	} else {
		for _, attendee := range req.Attendees {
			if !ValidEmail(attendee) {
				add("attendees", "attendee "+attendee+" is not a valid email address")
			}
		}
	}

	if strings.TrimSpace(req.RoomName) == "" {
		add("room", "room is required")
	}

	return errs
}

// Payload is the exact wire shape the reservation backend parses: attendees
// comma-joined, duration as the canonical HH:MM string.
type Payload struct {
	Title           string `json:"title"`
	Agenda          string `json:"agenda"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	Duration        string `json:"duration"`
	Attendees       string `json:"attendees"`
	Room            string `json:"room"`
	Recurring       bool   `json:"recurring"`
	VideoConference bool   `json:"video_conference"`
}

// Normalize validates the request and, when submittable, canonicalizes it
// into the backend payload. On failure the field errors are returned and no
// payload is produced.
func (v Validator) Normalize(req Request) (Payload, []FieldError) {
	if errs := v.Validate(req); len(errs) > 0 {
		return Payload{}, errs
	}

	minutes, _ := DurationMinutes(req.DurationLabel)
	return Payload{
		Title:           strings.TrimSpace(req.Title),
		Agenda:          strings.TrimSpace(req.Agenda),
		Date:            req.Date,
		StartTime:       req.StartTime,
		Duration:        availability.FormatClock(minutes),
		Attendees:       strings.Join(req.Attendees, ","),
		Room:            req.RoomName,
		Recurring:       req.Recurring,
		VideoConference: req.VideoConference,
	}, nil
}
