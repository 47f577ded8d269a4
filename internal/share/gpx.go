package share

import (
	"encoding/xml"
	"time"

	"github.com/uzhroute/uzhroute/internal/routing"
)

const gpxCreator = "UzhRoutePlanner"

type gpxTrackPoint struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
}

type gpxTrackSegment struct {
	Points []gpxTrackPoint `xml:"trkpt"`
}

type gpxTrack struct {
	Name    string          `xml:"name"`
	Segment gpxTrackSegment `xml:"trkseg"`
}

type gpxMetadata struct {
	Name string `xml:"name"`
	Time string `xml:"time"`
}

type gpxDocument struct {
	XMLName  xml.Name    `xml:"gpx"`
	Version  string      `xml:"version,attr"`
	Creator  string      `xml:"creator,attr"`
	Xmlns    string      `xml:"xmlns,attr"`
	Metadata gpxMetadata `xml:"metadata"`
	Track    gpxTrack    `xml:"trk"`
}

// BuildGPX renders a route's geometry as a GPX 1.1 track. Geometry points
// are (lon,lat) pairs; GPX wants them the other way around.
func BuildGPX(route *routing.Route, now time.Time) ([]byte, error) {
	points := make([]gpxTrackPoint, 0, len(route.Geometry))
	for _, coord := range route.Geometry {
		points = append(points, gpxTrackPoint{Lat: coord[1], Lon: coord[0]})
	}

	doc := gpxDocument{
		Version: "1.1",
		Creator: gpxCreator,
		Xmlns:   "http://www.topografix.com/GPX/1/1",
		Metadata: gpxMetadata{
			Name: "Маршрут",
			Time: now.UTC().Format(time.RFC3339),
		},
		Track: gpxTrack{
			Name:    "Маршрут",
			Segment: gpxTrackSegment{Points: points},
		},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), body...), nil
}
