package emit

import (
	"encoding/xml"
	"strconv"

	"github.com/openbikesensor/obs-core/internal/track"
)

type gpxRoot struct {
	XMLName  xml.Name    `xml:"gpx"`
	Metadata gpxMetadata `xml:"metadata"`
	Trk      gpxTrack    `xml:"trk"`
}

type gpxMetadata struct {
	Name string `xml:"name"`
}

type gpxTrack struct {
	Name string     `xml:"name"`
	Type string     `xml:"type"`
	Seg  gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat  string `xml:"lat,attr"`
	Lon  string `xml:"lon,attr"`
	Time string `xml:"time"`
}

// GPX renders one <trk> with one <trkseg>, one <trkpt> per sample with a
// position, in recorded order.
func GPX(samples []track.Sample, name string) ([]byte, error) {
	root := gpxRoot{
		Metadata: gpxMetadata{Name: name},
		Trk:      gpxTrack{Name: name, Type: "Cycling"},
	}

	for _, s := range samples {
		if !s.HasPosition {
			continue
		}
		root.Trk.Seg.Points = append(root.Trk.Seg.Points, gpxPoint{
			Lat:  strconv.FormatFloat(s.Lat, 'f', -1, 64),
			Lon:  strconv.FormatFloat(s.Lon, 'f', -1, 64),
			Time: s.Time.UTC().Format(timeLayout),
		})
	}

	body, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
