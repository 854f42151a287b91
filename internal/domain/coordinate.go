package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Axis identifies which coordinate axis a DMS string describes. The axis
// determines the valid degree range: longitudes run to 180, latitudes to 90.
type Axis int

const (
	Longitude Axis = iota
	Latitude
)

func (a Axis) String() string {
	if a == Latitude {
		return "latitude"
	}
	return "longitude"
}

// maxDegrees returns the largest valid degrees component for the axis.
func (a Axis) maxDegrees() float64 {
	if a == Latitude {
		return 90
	}
	return 180
}

// Conversion failure sentinels. Callers classify outcomes with errors.Is;
// the wrapped message carries the diagnostic detail.
var (
	ErrMissingValue = errors.New("missing coordinate value")
	ErrFormat       = errors.New("unrecognized DMS format")
	ErrNumeric      = errors.New("invalid numeric component")
	ErrRange        = errors.New("minutes or seconds out of range")
	ErrAxisRange    = errors.New("degrees out of range for axis")
)

var (
	// cjkDirectionRe matches a Chinese direction word at either end of the
	// string: 东经/西经 (east/west longitude), 北纬/南纬 (north/south latitude).
	cjkDirectionRe = regexp.MustCompile(`^(东经|西经|北纬|南纬)\s*|\s*(东经|西经|北纬|南纬)$`)

	// dmsMarkedRe matches the primary DMS form after all whitespace has been
	// removed, e.g. 110°33'44.164" or 110°33′44.164″. The seconds mark is
	// optional.
	dmsMarkedRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)°(\d+(?:\.\d+)?)[′'](\d+(?:\.\d+)?)[″"]?$`)

	// dmsSeparatedRe matches the fallback form with space or hyphen
	// separators, e.g. 110-33-44.164 or 110 33 44.164.
	dmsSeparatedRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)[ -](\d+(?:\.\d+)?)[ -](\d+(?:\.\d+)?)$`)

	dmsMarkReplacer = strings.NewReplacer("°", " ", "′", " ", "'", " ", "″", " ", `"`, " ")
)

// directionDetector inspects a trimmed coordinate string for a hemisphere
// marker. On a match it reports the sign and the string with the marker
// removed.
type directionDetector func(s string) (sign float64, rest string, ok bool)

// Checked in order, first match wins: a CJK direction word takes precedence
// over a single-letter suffix.
var directionDetectors = []directionDetector{
	detectCJKDirection,
	detectLetterSuffix,
}

// structuralMatcher pairs a normalization step with the anchored pattern
// applied to its output. Matchers are tried in order, first full match wins;
// new DMS variants slot in as additional entries.
type structuralMatcher struct {
	normalize func(string) string
	pattern   *regexp.Regexp
}

var dmsMatchers = []structuralMatcher{
	{normalize: stripSpace, pattern: dmsMarkedRe},
	{normalize: marksToSpaces, pattern: dmsSeparatedRe},
}

// ConvertDMS converts a degrees-minutes-seconds coordinate string to decimal
// degrees, rounded to 6 fractional digits. The input may carry a CJK
// direction word (prefix or suffix) or a single-letter N/S/E/W suffix;
// 西经, 南纬, S and W produce negative values. Empty input or the literal
// "nan" yields ErrMissingValue. The function is pure and safe for concurrent
// use.
func ConvertDMS(raw string, axis Axis) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, fmt.Errorf("%w: %s %q", ErrMissingValue, axis, raw)
	}

	sign := 1.0
	for _, detect := range directionDetectors {
		if dirSign, rest, ok := detect(s); ok {
			sign = dirSign
			s = rest
			break
		}
	}

	var groups []string
	for _, m := range dmsMatchers {
		if g := m.pattern.FindStringSubmatch(m.normalize(s)); g != nil {
			groups = g
			break
		}
	}
	if groups == nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, raw)
	}

	deg, errDeg := strconv.ParseFloat(groups[1], 64)
	minutes, errMin := strconv.ParseFloat(groups[2], 64)
	seconds, errSec := strconv.ParseFloat(groups[3], 64)
	if errDeg != nil || errMin != nil || errSec != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumeric, raw)
	}

	if minutes >= 60 || seconds >= 60 {
		return 0, fmt.Errorf("%w: %q (minutes=%g, seconds=%g)", ErrRange, raw, minutes, seconds)
	}
	if deg > axis.maxDegrees() {
		return 0, fmt.Errorf("%w: %q (degrees=%g, %s max=%g)", ErrAxisRange, raw, deg, axis, axis.maxDegrees())
	}

	dd := sign * (deg + minutes/60 + seconds/3600)
	return math.Round(dd*1e6) / 1e6, nil
}

// detectCJKDirection handles 东经/西经/北纬/南纬 at either end of the string.
// Markers at both ends are all removed; the leftmost occurrence sets the sign.
func detectCJKDirection(s string) (float64, string, bool) {
	m := cjkDirectionRe.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}
	word := m[1]
	if word == "" {
		word = m[2]
	}
	sign := 1.0
	if word == "西经" || word == "南纬" {
		sign = -1
	}
	rest := strings.TrimSpace(cjkDirectionRe.ReplaceAllString(s, ""))
	return sign, rest, true
}

// detectLetterSuffix handles a trailing N/S/E/W hemisphere letter,
// case-insensitively.
func detectLetterSuffix(s string) (float64, string, bool) {
	runes := []rune(s)
	last := unicode.ToUpper(runes[len(runes)-1])
	switch last {
	case 'S', 'W':
		return -1, strings.TrimSpace(string(runes[:len(runes)-1])), true
	case 'N', 'E':
		return 1, strings.TrimSpace(string(runes[:len(runes)-1])), true
	}
	return 0, "", false
}

// stripSpace removes every whitespace rune so spacing variants collapse to
// one canonical form before matching.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// marksToSpaces replaces degree/minute/second glyphs with spaces and
// collapses runs of whitespace, preparing the separator-based fallback match.
func marksToSpaces(s string) string {
	return strings.Join(strings.Fields(dmsMarkReplacer.Replace(s)), " ")
}
