package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawPointRecord represents the flat JSON structure published by the upstream
// field collector. Coordinate fields carry raw DMS text, frequently with CJK
// direction words or hemisphere letter suffixes.
type RawPointRecord struct {
	Site     string `json:"Site"`
	Name     string `json:"Name"`
	Category string `json:"Category"` // e.g. "landslide", "subsidence", "control"
	Lon      string `json:"Lon"`
	Lat      string `json:"Lat"`
	Elev     string `json:"Elev"` // meters, optional
	Surveyor string `json:"Surveyor"`
	Remarks  string `json:"Remarks"`
}

// RawRecord represents an unprocessed message from the source topic.
type RawRecord struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Geo represents a WGS-84 latitude/longitude coordinate pair in decimal degrees.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SurveyPoint is the normalized representation after coordinate conversion.
// The original DMS strings are preserved alongside the decimal values so
// downstream consumers can audit the conversion.
type SurveyPoint struct {
	ID        string   `json:"id"`
	Site      string   `json:"site,omitempty"`
	Name      string   `json:"name"`
	Category  string   `json:"category,omitempty"`
	Geo       Geo      `json:"geo"`
	Elevation *float64 `json:"elevation,omitempty"`
	RawLon    string   `json:"raw_lon"`
	RawLat    string   `json:"raw_lat"`
	Surveyor  string   `json:"surveyor,omitempty"`
	Remarks   string   `json:"remarks,omitempty"`

	RawPayload  []byte    `json:"-"`
	ConvertedAt time.Time `json:"converted_at"`
}

// ConversionError reports which axis of a record failed to convert. It wraps
// one of the conversion sentinels, so errors.Is classification still works.
type ConversionError struct {
	Axis Axis
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s: %v", e.Axis, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ParseRawRecord deserializes a RawRecord's value and converts its DMS
// coordinate strings to decimal degrees. A failure on either axis is returned
// as a *ConversionError naming the axis.
func ParseRawRecord(raw RawRecord) (SurveyPoint, error) {
	var rec RawPointRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return SurveyPoint{}, fmt.Errorf("parse raw record: %w", err)
	}

	lon, err := ConvertDMS(rec.Lon, Longitude)
	if err != nil {
		return SurveyPoint{}, &ConversionError{Axis: Longitude, Err: err}
	}
	lat, err := ConvertDMS(rec.Lat, Latitude)
	if err != nil {
		return SurveyPoint{}, &ConversionError{Axis: Latitude, Err: err}
	}

	return SurveyPoint{
		ID:        generateID(rec.Category, rec.Site, rec.Name, rec.Lon, rec.Lat),
		Site:      rec.Site,
		Name:      rec.Name,
		Category:  rec.Category,
		Geo:       Geo{Lat: lat, Lon: lon},
		Elevation: parseOptionalFloat(rec.Elev),
		RawLon:    rec.Lon,
		RawLat:    rec.Lat,
		Surveyor:  rec.Surveyor,
		Remarks:   rec.Remarks,

		RawPayload:  raw.Value,
		ConvertedAt: clock.Now(),
	}, nil
}

// parseOptionalFloat parses an optional numeric field, returning nil when the
// field is empty or not a number.
func parseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// generateID produces a deterministic ID from the record's key fields.
// Deterministic IDs make reprocessing replay-safe: the same raw record always
// maps to the same point.
func generateID(category, site, name, rawLon, rawLat string) string {
	input := fmt.Sprintf("%s|%s|%s|%s|%s", category, site, name, rawLon, rawLat)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if category == "" {
		return short
	}
	return category + "-" + short
}
