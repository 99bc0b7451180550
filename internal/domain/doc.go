// Package domain models National Weather Service (NWS) point forecast data.
//
// # Data Source
//
// Conditions come from the NWS MapClick endpoint at
// https://forecast.weather.gov/MapClick.php queried with FcstType=json. One
// response carries the latest observation from the nearest reporting station
// and a multi-day outlook for the forecast grid point containing the query
// coordinates. Fetching lives in the nws adapter; this package only turns the
// decoded body into display values.
//
// # MapClick Conventions
//
// Current observation ("currentobservation"):
//
//	Every value is a string, even numeric ones: "Temp":"72", "Altimeter":"30.1".
//	Units are fixed by the feed: °F, percent, mph, millibars, miles.
//	"Windd" is a direction angle in degrees, 0 = north, clockwise.
//
// Unknown values:
//
//	"NA" is the NWS placeholder for a value the station did not report.
//	Empty strings and null are treated the same way. Values occasionally arrive
//	as bare JSON numbers; FeedString accepts those too.
//
// Forecast periods ("time" and "data"):
//
//	Parallel arrays aligned by index:
//	  time.startPeriodName  "Tonight", "Monday", "Monday Night", ...
//	  time.tempLabel        "High" or "Low"
//	  data.temperature      "58"
//	  data.weather          "Mostly Clear"
//	  data.text             the full narrative for the period
//	The feed normally keeps them the same length. When it does not, periods are
//	truncated to the shortest array (see [CheckForecastAlignment]).
//
// Logical failure:
//
//	An HTTP 200 body may still carry "success": false. [RawObservationResponse.Failed]
//	reports it and adapters surface it as [ErrLogicalFailure].
//
// # Display Policy
//
// [NormalizeObservation] applies one table (fieldPolicies) to every field: an
// unavailable value becomes the field's fallback ("None" for gusts, "Unknown"
// elsewhere), an available value gets its unit suffix once. Wind chill falls
// back to the current temperature. Wind direction is bucketed into eight
// compass points by [CardinalDirection].
package domain
