// Package gpx renders activity tracks as GPX 1.1 documents.
package gpx

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/aktywni/backend/internal/models"
)

// creator identifies the application in the generated documents
const creator = "aktywni-backend"

// Document is a GPX 1.1 file with a single track
type Document struct {
	XMLName xml.Name `xml:"gpx"`
	Version string   `xml:"version,attr"`
	Creator string   `xml:"creator,attr"`
	Xmlns   string   `xml:"xmlns,attr"`
	Track   Track    `xml:"trk"`
}

// Track is a named GPX track with one segment
type Track struct {
	Name    string  `xml:"name"`
	Type    string  `xml:"type,omitempty"`
	Segment Segment `xml:"trkseg"`
}

// Segment is an ordered run of track points
type Segment struct {
	Points []Point `xml:"trkpt"`
}

// Point is a single GPS sample
type Point struct {
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Time string  `xml:"time"`
}

// Build assembles the GPX document for an activity and its points
func Build(activity *models.Activity, points []models.TrackPoint) *Document {
	doc := &Document{
		Version: "1.1",
		Creator: creator,
		Xmlns:   "http://www.topografix.com/GPX/1/1",
		Track: Track{
			Name: activity.Name,
			Type: activity.Type,
		},
	}

	doc.Track.Segment.Points = make([]Point, len(points))
	for i, p := range points {
		doc.Track.Segment.Points[i] = Point{
			Lat:  p.Lat,
			Lon:  p.Lon,
			Time: p.Timestamp.UTC().Format(time.RFC3339),
		}
	}

	return doc
}

// Write renders the GPX document for an activity onto w, XML header included
func Write(w io.Writer, activity *models.Activity, points []models.TrackPoint) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(Build(activity, points)); err != nil {
		return fmt.Errorf("failed to encode GPX document: %w", err)
	}

	return nil
}
