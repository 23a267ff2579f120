// Package export serializes itineraries for other tools: iCalendar events,
// CSV rows and KML maps.
package export

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/tripkit/internal/lib/geo"
	"github.com/dpup/tripkit/internal/lib/itinerary"
)

const (
	// DefaultEventDuration applies when no later timed item ends an event
	DefaultEventDuration = 60 * time.Minute

	// DefaultProdID identifies the generator in exported calendars
	DefaultProdID = "-//tripkit//itinerary export//EN"

	uidDomain    = "tripkit"
	crlf         = "\r\n"
	maxLineBytes = 75
	dateTimeForm = "20060102T150405"
)

// CalendarOptions tune calendar generation. The zero value is usable.
type CalendarOptions struct {
	// Now stamps DTSTAMP and event UIDs; zero means time.Now
	Now time.Time

	// Location gives event times a TZID. Nil writes floating local times;
	// time.UTC writes UTC times.
	Location *time.Location

	// DefaultDuration is the event length when no later item ends it
	DefaultDuration time.Duration

	// ProdID overrides DefaultProdID
	ProdID string
}

// Calendar is a generated iCalendar document
type Calendar struct {
	Body           string
	Events         int
	SkippedUndated int
}

// BuildCalendar renders items as an iCalendar (RFC 5545) document, one
// VEVENT per item. Items must be in stored order (see itinerary.Flatten).
// Items whose day has no valid date are skipped and reported once through
// the context logger and in SkippedUndated.
//
// An event ends where the next item of the same day with a time starts, or
// after the default duration when there is none.
func BuildCalendar(ctx context.Context, items []itinerary.FlatItem, tripName string, opts CalendarOptions) Calendar {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	duration := opts.DefaultDuration
	if duration <= 0 {
		duration = DefaultEventDuration
	}
	prodID := opts.ProdID
	if prodID == "" {
		prodID = DefaultProdID
	}

	w := &icsWriter{}
	w.line("BEGIN:VCALENDAR")
	w.line("VERSION:2.0")
	w.line("PRODID:" + prodID)
	w.line("CALSCALE:GREGORIAN")
	w.line("METHOD:PUBLISH")
	if tripName != "" {
		w.line("X-WR-CALNAME:" + EscapeText(tripName))
	}

	cal := Calendar{}
	uidBase := sanitizeUIDName(tripName)
	stamp := now.UTC().Format(dateTimeForm) + "Z"

	for i, item := range items {
		start, ok := itemStart(item, opts.Location)
		if !ok {
			cal.SkippedUndated++
			continue
		}

		end := start.Add(duration)
		if next, ok := nextTimedStart(items, i, opts.Location); ok && next.After(start) {
			end = next
		}

		w.line("BEGIN:VEVENT")
		w.line(fmt.Sprintf("UID:%s-%s-%d@%s", uidBase, item.ID, now.UnixMilli(), uidDomain))
		w.line("DTSTAMP:" + stamp)
		w.line(dateTimeProperty("DTSTART", start, opts.Location))
		w.line(dateTimeProperty("DTEND", end, opts.Location))
		w.line("SUMMARY:" + EscapeText(item.Text))
		if desc := description(item); desc != "" {
			w.line("DESCRIPTION:" + desc)
		}
		if loc := location(item); loc != "" {
			w.line("LOCATION:" + EscapeText(loc))
		}
		if p, ok := item.Location(); ok {
			w.line(fmt.Sprintf("GEO:%s;%s", geo.FormatCoordinate(p.Latitude), geo.FormatCoordinate(p.Longitude)))
		}
		if status := eventStatus(item.Status); status != "" {
			w.line("STATUS:" + status)
		}
		w.line("END:VEVENT")
		cal.Events++
	}

	w.line("END:VCALENDAR")
	cal.Body = w.String()

	if cal.SkippedUndated > 0 {
		ctx = logging.EnsureLogger(ctx)
		logging.Warnw(ctx, "Calendar export: skipped items on days without a date",
			"skipped", cal.SkippedUndated, "exported", cal.Events)
	}
	return cal
}

// itemStart combines the day date and item time. A missing or malformed time
// starts the event at midnight; a missing or malformed date rejects the item.
func itemStart(item itinerary.FlatItem, loc *time.Location) (time.Time, bool) {
	day, err := time.Parse(itinerary.DateLayout, item.DayDate)
	if err != nil {
		return time.Time{}, false
	}
	hour, minute, _ := clock(item.Time)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, zone(loc)), true
}

// nextTimedStart finds the start of the first later item of the same day
// that has a concrete time
func nextTimedStart(items []itinerary.FlatItem, i int, loc *time.Location) (time.Time, bool) {
	cur := items[i]
	for _, next := range items[i+1:] {
		if next.DayIndex != cur.DayIndex || next.DayID != cur.DayID {
			break
		}
		if _, _, ok := clock(next.Time); !ok {
			continue
		}
		return itemStart(next, loc)
	}
	return time.Time{}, false
}

// clock parses "HH:MM", reporting false for anything else
func clock(s string) (int, int, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

func zone(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

func dateTimeProperty(name string, t time.Time, loc *time.Location) string {
	switch {
	case loc == nil:
		return name + ":" + t.Format(dateTimeForm)
	case loc == time.UTC:
		return name + ":" + t.Format(dateTimeForm) + "Z"
	default:
		return name + ";TZID=" + loc.String() + ":" + t.Format(dateTimeForm)
	}
}

// description joins comment, place, coordinates, map link and price, one
// escaped line each
func description(item itinerary.FlatItem) string {
	var lines []string
	if item.Comment != "" {
		lines = append(lines, item.Comment)
	}
	if name := item.PlaceName(); name != "" {
		lines = append(lines, name)
	}
	if p, ok := item.Location(); ok {
		lines = append(lines, p.String(), MapsLink(p))
	}
	if item.Price != nil {
		lines = append(lines, fmt.Sprintf("Price: %.2f", *item.Price))
	}

	for i, l := range lines {
		lines[i] = EscapeText(l)
	}
	return strings.Join(lines, `\n`)
}

func location(item itinerary.FlatItem) string {
	if item.Place != nil {
		if item.Place.Address != "" {
			return item.Place.Name + ", " + item.Place.Address
		}
		return item.Place.Name
	}
	if p, ok := item.Location(); ok {
		return p.String()
	}
	return ""
}

func eventStatus(s itinerary.Status) string {
	switch s {
	case itinerary.StatusBooked:
		return "CONFIRMED"
	case itinerary.StatusPending, itinerary.StatusOptional:
		return "TENTATIVE"
	}
	return ""
}

// MapsLink returns a map search URL for p
func MapsLink(p geo.Point) string {
	return "https://www.google.com/maps/search/?api=1&query=" +
		geo.FormatCoordinate(p.Latitude) + "," + geo.FormatCoordinate(p.Longitude)
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// EscapeText escapes an iCalendar TEXT value: backslash, semicolon, comma
// and line breaks. Invalid UTF-8 becomes U+FFFD.
func EscapeText(s string) string {
	return textEscaper.Replace(strings.ToValidUTF8(s, "\uFFFD"))
}

var uidUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

func sanitizeUIDName(name string) string {
	s := strings.Trim(uidUnsafe.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if s == "" {
		return "trip"
	}
	return s
}

// icsWriter accumulates content lines, folding them at 75 octets
type icsWriter struct {
	b strings.Builder
}

func (w *icsWriter) line(s string) {
	limit := maxLineBytes
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			// No rune boundary in reach; split the bytes as they are
			cut = limit
		}
		w.b.WriteString(s[:cut])
		w.b.WriteString(crlf + " ")
		s = s[cut:]
		// The leading space of a continuation line counts
		limit = maxLineBytes - 1
	}
	w.b.WriteString(s)
	w.b.WriteString(crlf)
}

func (w *icsWriter) String() string {
	return w.b.String()
}
