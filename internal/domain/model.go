package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// FeedString is a string field from the MapClick feed. The feed usually sends
// strings but occasionally emits bare numbers or null for the same field, so
// decoding accepts all three. Null decodes to "".
type FeedString string

func (s *FeedString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FeedString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("feed string: unsupported value %s", data)
	}
	*s = FeedString(n.String())
	return nil
}

// FeedStrings decodes a JSON array of FeedString values.
type FeedStrings []FeedString

// RawCurrentObservation is the "currentobservation" object of the MapClick feed.
// Any field may hold the placeholder "NA".
type RawCurrentObservation struct {
	ID           FeedString `json:"id"`
	Name         FeedString `json:"name"`
	Date         FeedString `json:"Date"`
	Temp         FeedString `json:"Temp"`
	Dewp         FeedString `json:"Dewp"`
	Relh         FeedString `json:"Relh"`
	Winds        FeedString `json:"Winds"`
	Windd        FeedString `json:"Windd"`
	Gust         FeedString `json:"Gust"`
	Weather      FeedString `json:"Weather"`
	WeatherImage FeedString `json:"Weatherimage"`
	Visibility   FeedString `json:"Visibility"`
	Altimeter    FeedString `json:"Altimeter"`
	SLP          FeedString `json:"SLP"`
	Timezone     FeedString `json:"timezone"`
	State        FeedString `json:"state"`
	WindChill    FeedString `json:"WindChill"`
}

// RawLocation is the "location" object of the MapClick feed.
type RawLocation struct {
	AreaDescription FeedString `json:"areaDescription"`
	Latitude        FeedString `json:"latitude"`
	Longitude       FeedString `json:"longitude"`
	Elevation       FeedString `json:"elevation"`
	WFO             FeedString `json:"wfo"`
}

// RawTime holds the per-period labels, index-aligned with RawData.
type RawTime struct {
	StartPeriodName FeedStrings `json:"startPeriodName"`
	StartValidTime  FeedStrings `json:"startValidTime"`
	TempLabel       FeedStrings `json:"tempLabel"`
}

// RawData holds the per-period forecast values, index-aligned with RawTime.
type RawData struct {
	Temperature FeedStrings `json:"temperature"`
	Pop         FeedStrings `json:"pop"`
	Weather     FeedStrings `json:"weather"`
	IconLink    FeedStrings `json:"iconLink"`
	Text        FeedStrings `json:"text"`
}

// RawObservationResponse is the decoded MapClick JSON body. It is untrusted
// input: any field may be missing, "NA", or shorter than its siblings.
type RawObservationResponse struct {
	Success            *bool                 `json:"success,omitempty"`
	ProductionCenter   FeedString            `json:"productionCenter"`
	CreationDate       FeedString            `json:"creationDate"`
	Location           RawLocation           `json:"location"`
	Time               RawTime               `json:"time"`
	Data               RawData               `json:"data"`
	CurrentObservation RawCurrentObservation `json:"currentobservation"`
}

// Failed reports whether the body carries an explicit "success": false.
func (r RawObservationResponse) Failed() bool {
	return r.Success != nil && !*r.Success
}

// CurrentObservation is the display-ready form of the current conditions.
// Every field is a presentable string.
type CurrentObservation struct {
	CurrentTemp  string `json:"currentTemp"`
	RelHumidity  string `json:"relHumidity"`
	WindSpeed    string `json:"windSpeed"`
	WindDir      string `json:"windDir"`
	WindSpeedDir string `json:"windSpeedDir"`
	DewPoint     string `json:"dewPoint"`
	LocationName string `json:"locationName"`
	WindGust     string `json:"windGust"`
	Pressure     string `json:"pressure"`
	Conditions   string `json:"conditions"`
	WindChill    string `json:"windChill"`
	Visibility   string `json:"visibility"`
}

// ForecastDay is one labeled forecast period ("Tonight", "Monday", ...).
type ForecastDay struct {
	Period       string `json:"period"`
	Weather      string `json:"weather"`
	TempLabel    string `json:"tempLabel"`
	Temp         string `json:"temp"`
	Text         string `json:"text"`
	Icon         string `json:"icon,omitempty"`
	PrecipChance string `json:"precipChance,omitempty"`
}

// Report is the combined view-model handed to a renderer.
type Report struct {
	Observation CurrentObservation `json:"observation"`
	Days        []ForecastDay      `json:"days"`
	Coordinates Coordinates        `json:"coordinates"`
	FetchedAt   time.Time          `json:"fetched_at"`
}

// Coordinates is a WGS-84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks that the point lies within valid latitude/longitude ranges.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90, got %g", ErrInvalidCoordinates, c.Lat)
	}
	if math.IsNaN(c.Lon) || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180, got %g", ErrInvalidCoordinates, c.Lon)
	}
	return nil
}

// String formats the point as "lat,lon", the same form ParseCoordinates accepts.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}
