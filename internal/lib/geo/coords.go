package geo

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Coordinate notations accepted by ParseCoordinatePair, tried in order.
var (
	decimalPairPattern = regexp.MustCompile(
		`^\s*([+-]?\d{1,3}(?:\.\d+)?)\s*,\s*([+-]?\d{1,3}(?:\.\d+)?)\s*$`)

	degreesPattern = regexp.MustCompile(
		`(?i)^\s*(\d{1,3}(?:\.\d+)?)\s*°\s*([NS])\s*,?\s*(\d{1,3}(?:\.\d+)?)\s*°\s*([EW])\s*$`)

	dmsPattern = regexp.MustCompile(
		`(?i)^\s*(\d{1,3})\s*°\s*(\d{1,2})\s*['′]\s*(\d{1,2}(?:\.\d+)?)\s*(?:"|″|'')\s*([NS])\s*,?\s*` +
			`(\d{1,3})\s*°\s*(\d{1,2})\s*['′]\s*(\d{1,2}(?:\.\d+)?)\s*(?:"|″|'')\s*([EW])\s*$`)

	ddmPattern = regexp.MustCompile(
		`(?i)^\s*(\d{1,3})\s*°\s*(\d{1,2}(?:\.\d+)?)\s*['′]\s*([NS])\s*,?\s*` +
			`(\d{1,3})\s*°\s*(\d{1,2}(?:\.\d+)?)\s*['′]\s*([EW])\s*$`)
)

// ParseCoordinatePair recognises a latitude/longitude pair written as decimal
// degrees ("48.8584, 2.2945"), hemisphere degrees ("48.8584° N, 2.2945° E"),
// degrees-minutes-seconds or degrees-decimal-minutes. The first notation that
// matches and yields an in-range pair wins. Unrecognised input returns false;
// this runs on every keystroke so it never fails loudly.
func ParseCoordinatePair(input string) (Point, bool) {
	parsers := []func(string) (Point, bool){
		parseDecimalPair,
		parseDegrees,
		parseDMS,
		parseDDM,
	}
	for _, parse := range parsers {
		if p, ok := parse(input); ok {
			return p, true
		}
	}
	return Point{}, false
}

func parseDecimalPair(input string) (Point, bool) {
	m := decimalPairPattern.FindStringSubmatch(input)
	if m == nil {
		return Point{}, false
	}
	lat, _ := strconv.ParseFloat(m[1], 64)
	lng, _ := strconv.ParseFloat(m[2], 64)
	return NewPoint(lat, lng)
}

func parseDegrees(input string) (Point, bool) {
	m := degreesPattern.FindStringSubmatch(input)
	if m == nil {
		return Point{}, false
	}
	lat, _ := strconv.ParseFloat(m[1], 64)
	lng, _ := strconv.ParseFloat(m[3], 64)
	return hemispherePoint(lat, m[2], lng, m[4])
}

func parseDMS(input string) (Point, bool) {
	m := dmsPattern.FindStringSubmatch(input)
	if m == nil {
		return Point{}, false
	}
	lat, ok := sexagesimal(m[1], m[2], m[3])
	if !ok {
		return Point{}, false
	}
	lng, ok := sexagesimal(m[5], m[6], m[7])
	if !ok {
		return Point{}, false
	}
	return hemispherePoint(lat, m[4], lng, m[8])
}

func parseDDM(input string) (Point, bool) {
	m := ddmPattern.FindStringSubmatch(input)
	if m == nil {
		return Point{}, false
	}
	lat, ok := sexagesimal(m[1], m[2], "0")
	if !ok {
		return Point{}, false
	}
	lng, ok := sexagesimal(m[4], m[5], "0")
	if !ok {
		return Point{}, false
	}
	return hemispherePoint(lat, m[3], lng, m[6])
}

// sexagesimal converts degree/minute/second text to decimal degrees.
func sexagesimal(deg, min, sec string) (float64, bool) {
	d, err := strconv.ParseFloat(deg, 64)
	if err != nil {
		return 0, false
	}
	m, err := strconv.ParseFloat(min, 64)
	if err != nil || m >= 60 {
		return 0, false
	}
	s, err := strconv.ParseFloat(sec, 64)
	if err != nil || s >= 60 {
		return 0, false
	}
	return d + m/60 + s/3600, true
}

// hemispherePoint applies the hemisphere sign; S and W are negative.
func hemispherePoint(lat float64, ns string, lng float64, ew string) (Point, bool) {
	if strings.EqualFold(ns, "S") {
		lat = -lat
	}
	if strings.EqualFold(ew, "W") {
		lng = -lng
	}
	return NewPoint(lat, lng)
}

// FormatCoordinate renders a decimal degree value with at most five
// fractional digits. Shorter inputs keep their own precision; trailing zeros
// are never added.
func FormatCoordinate(n float64) string {
	rounded := math.Round(n*1e5) / 1e5
	if rounded == 0 {
		// Avoid "-0"
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

var (
	atPattern   = regexp.MustCompile(`@([+-]?\d{1,3}(?:\.\d+)?),([+-]?\d{1,3}(?:\.\d+)?)`)
	dataPattern = regexp.MustCompile(`!3d([+-]?\d{1,3}(?:\.\d+)?)!4d([+-]?\d{1,3}(?:\.\d+)?)`)
)

// ParseMapsURL extracts a coordinate from a map link. Supported forms are the
// "!3d<lat>!4d<lng>" place data segment, the "@<lat>,<lng>,<zoom>" viewport
// segment and the q, query, ll and center query parameters holding a decimal
// pair. Returns false when nothing recognisable is found.
func ParseMapsURL(raw string) (Point, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return Point{}, false
	}

	// The place pin is more precise than the viewport centre
	path := u.EscapedPath()
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	if m := dataPattern.FindStringSubmatch(path); m != nil {
		if p, ok := pointFromStrings(m[1], m[2]); ok {
			return p, true
		}
	}
	if m := atPattern.FindStringSubmatch(path); m != nil {
		if p, ok := pointFromStrings(m[1], m[2]); ok {
			return p, true
		}
	}

	query := u.Query()
	for _, key := range []string{"q", "query", "ll", "center"} {
		if v := query.Get(key); v != "" {
			if p, ok := parseDecimalPair(v); ok {
				return p, true
			}
		}
	}

	return Point{}, false
}

func pointFromStrings(lat, lng string) (Point, bool) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Point{}, false
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return Point{}, false
	}
	return NewPoint(la, ln)
}
