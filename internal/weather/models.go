package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	// ErrCityNotFound is returned when the provider does not know the requested place.
	ErrCityNotFound = errors.New("city not found")

	// ErrProviderUnavailable covers transport failures and non-404 error statuses.
	ErrProviderUnavailable = errors.New("weather provider unavailable")

	// ErrMalformedResponse is returned when a provider payload cannot be decoded
	// or lacks the condition entry every sample must carry.
	ErrMalformedResponse = errors.New("malformed weather provider response")

	// ErrInvalidCoordinates is returned when a latitude or longitude is out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// ErrorKind groups weather errors into the two classes shown to users.
type ErrorKind string

const (
	KindNotFound ErrorKind = "NOT_FOUND"
	KindGeneric  ErrorKind = "GENERIC"
)

// KindOf classifies an error returned by the weather stack.
func KindOf(err error) ErrorKind {
	if errors.Is(err, ErrCityNotFound) {
		return KindNotFound
	}
	return KindGeneric
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks that the coordinates are on the globe.
func (c Coordinates) Validate() error {
	if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// Sample is one provider reading, either current conditions or a 3-hour forecast slot.
type Sample struct {
	Time time.Time

	// Temperature in Celsius
	Temperature float64

	// Humidity percentage (0-100)
	Humidity int

	// WindSpeed in m/s, zero for forecast samples
	WindSpeed float64

	ConditionCode int
	Description   string
}

// Current holds the current conditions for a place.
type Current struct {
	Sample

	Place       string
	Country     string
	Coordinates Coordinates

	Sunrise time.Time
	Sunset  time.Time

	// Location is the place's UTC offset as reported by the provider.
	Location *time.Location

	FetchedAt time.Time
}

// Forecast is the provider's 3-hour forecast series, ascending by time.
type Forecast struct {
	City    string
	Country string

	// Location defines the calendar convention used to bucket samples into days.
	Location *time.Location

	Samples []Sample

	FetchedAt time.Time
}

// Report is the pair of reads a search produces.
type Report struct {
	Current  *Current
	Forecast *Forecast
}

// LocationOrUTC returns loc, or UTC when loc is nil.
func LocationOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
