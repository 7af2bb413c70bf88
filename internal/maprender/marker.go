package maprender

import (
	"fmt"
	"html/template"
	"strings"

	geojson "github.com/paulmach/go.geojson"

	"github.com/dwisurvei/webgis-seismik/internal/domain"
)

// Marker is one rendered survey point. Markers keep the source-row order
// of the table snapshot, so repeated renders of the same snapshot are
// identical.
type Marker struct {
	Name      string
	Latitude  float64
	Longitude float64
	Category  domain.Category
	Color     string
	PopupHTML string
}

// BuildMarkers maps records onto markers one to one, in input order.
// Out-of-range coordinates pass through untouched: a mis-placed marker is
// preferable to an aborted render.
func BuildMarkers(records []domain.SurveyRecord) []Marker {
	markers := make([]Marker, 0, len(records))
	for _, record := range records {
		markers = append(markers, Marker{
			Name:      record.Name,
			Latitude:  record.Latitude,
			Longitude: record.Longitude,
			Category:  record.Category,
			Color:     record.Category.MarkerColor(),
			PopupHTML: popupHTML(record),
		})
	}
	return markers
}

// popupHTML builds the fixed-layout popup card: name, colored category
// badge, optional photo, description, submitter. All record fields are
// escaped; the photo renders only for a well-formed URL.
func popupHTML(record domain.SurveyRecord) string {
	var b strings.Builder
	color := record.Category.MarkerColor()

	b.WriteString(`<div class="popup-card">`)
	fmt.Fprintf(&b, `<h4>%s</h4>`, template.HTMLEscapeString(record.Name))
	fmt.Fprintf(&b, `<span class="badge badge-%s">%s</span>`, color, template.HTMLEscapeString(record.Category.String()))
	b.WriteString(`<hr>`)
	if photo := domain.NormalizePhotoURL(record.PhotoURL); photo != "" {
		fmt.Fprintf(&b, `<img src="%s" width="200" alt="foto lokasi">`, template.HTMLEscapeString(photo))
	}
	if record.Description != "" {
		fmt.Fprintf(&b, `<p>%s</p>`, template.HTMLEscapeString(record.Description))
	}
	fmt.Fprintf(&b, `<small>User: %s</small>`, template.HTMLEscapeString(record.SubmittedBy))
	b.WriteString(`</div>`)
	return b.String()
}

// FeatureCollection renders the marker set as GeoJSON for the marker feed
// and for embedding into the map page. Coordinates follow the GeoJSON
// lon/lat order.
func FeatureCollection(records []domain.SurveyRecord) *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()
	for _, marker := range BuildMarkers(records) {
		feature := geojson.NewPointFeature([]float64{marker.Longitude, marker.Latitude})
		feature.SetProperty("name", marker.Name)
		feature.SetProperty("category", marker.Category.String())
		feature.SetProperty("color", marker.Color)
		feature.SetProperty("popupHtml", marker.PopupHTML)
		collection.AddFeature(feature)
	}
	return collection
}
