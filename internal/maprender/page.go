package maprender

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/dwisurvei/webgis-seismik/internal/domain"
)

// Overlay describes the optional static raster layer, geo-anchored to an
// explicit bounding box.
type Overlay struct {
	Name      string
	ImagePath string  // file on disk; the layer is omitted when absent
	URL       string  // public path the browser loads the image from
	South     float64 // bounding box corners
	West      float64
	North     float64
	East      float64
	Opacity   float64
}

// present reports whether the backing image exists. A missing file is not
// an error: the layer is silently skipped.
func (o Overlay) present() bool {
	if o.ImagePath == "" {
		return false
	}
	info, err := os.Stat(o.ImagePath)
	return err == nil && !info.IsDir()
}

// Renderer produces the interactive map page from a table snapshot.
type Renderer struct {
	Title     string
	CenterLat float64
	CenterLon float64
	Zoom      int
	Overlay   Overlay
	MarkerFG  string // display name of the togglable marker layer
}

type pageData struct {
	Title       string
	Error       string
	CenterLat   float64
	CenterLon   float64
	Zoom        int
	MarkerLayer string
	HasOverlay  bool
	Overlay     Overlay
	MarkersJSON template.JS
	MarkerCount int
}

// RenderPage writes the full map page for the snapshot. When readErr is
// non-nil the map still renders, with zero markers and an error banner,
// so base layers and controls stay usable.
func (r Renderer) RenderPage(w io.Writer, records []domain.SurveyRecord, readErr error) error {
	if readErr != nil {
		records = nil
	}

	markersJSON, err := marshalTemplateJS(FeatureCollection(records))
	if err != nil {
		return fmt.Errorf("encode markers: %w", err)
	}

	data := pageData{
		Title:       r.Title,
		CenterLat:   r.CenterLat,
		CenterLon:   r.CenterLon,
		Zoom:        r.Zoom,
		MarkerLayer: r.markerLayerName(),
		HasOverlay:  r.Overlay.present(),
		Overlay:     r.Overlay,
		MarkersJSON: markersJSON,
		MarkerCount: len(records),
	}
	if readErr != nil {
		data.Error = fmt.Sprintf("Gagal memuat data: %v", readErr)
	}

	return mapPageTemplate.Execute(w, data)
}

func (r Renderer) markerLayerName() string {
	if r.MarkerFG != "" {
		return r.MarkerFG
	}
	return "Lokasi Survei"
}

// marshalTemplateJS marshals a value for embedding inside a <script>
// block. encoding/json escapes <, > and &, which keeps the payload safe
// there.
func marshalTemplateJS(value interface{}) (template.JS, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return template.JS(payload), nil
}

var mapPageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  body { margin: 0; font-family: sans-serif; }
  #map { height: 100vh; }
  .error-banner {
    position: absolute; top: 0; left: 0; right: 0; z-index: 1000;
    background: #b71c1c; color: #fff; padding: 8px 16px; font-size: 14px;
  }
  .popup-card { font-family: sans-serif; width: 220px; }
  .popup-card h4 { margin-bottom: 0; }
  .popup-card hr { margin: 5px 0; }
  .popup-card img { border-radius: 5px; margin-top: 10px; border: 1px solid #ddd; }
  .popup-card p { margin-top: 5px; font-size: 12px; }
  .popup-card small { color: gray; }
  .badge { color: #fff; padding: 2px 6px; border-radius: 4px; font-size: 10px; }
  .badge-red { background: #d32f2f; }
  .badge-orange { background: #ef6c00; }
  .badge-green { background: #2e7d32; }
  .badge-blue { background: #1565c0; }
  .locate-btn {
    background: #fff; width: 30px; height: 30px; line-height: 30px;
    text-align: center; cursor: pointer; font-size: 16px;
  }
</style>
</head>
<body>
{{if .Error}}<div class="error-banner">{{.Error}}</div>{{end}}
<div id="map"></div>
<script>
  var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});

  var roads = L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
    maxZoom: 19,
    attribution: '&copy; OpenStreetMap contributors'
  }).addTo(map);
  var satellite = L.tileLayer('https://mt1.google.com/vt/lyrs=y&x={x}&y={y}&z={z}', {
    maxZoom: 20,
    attribution: 'Google'
  });

  var baseLayers = { 'Peta Jalan': roads, 'Google Satellite': satellite };
  var overlays = {};

{{if .HasOverlay}}
  var staticOverlay = L.imageOverlay('{{.Overlay.URL}}',
    [[{{.Overlay.South}}, {{.Overlay.West}}], [{{.Overlay.North}}, {{.Overlay.East}}]],
    { opacity: {{.Overlay.Opacity}}, zIndex: 1 }).addTo(map);
  overlays['{{.Overlay.Name}}'] = staticOverlay;
{{end}}

  var markerData = {{.MarkersJSON}};
  var surveyLayer = L.geoJSON(markerData, {
    pointToLayer: function (feature, latlng) {
      return L.circleMarker(latlng, {
        radius: 8,
        color: feature.properties.color,
        fillColor: feature.properties.color,
        fillOpacity: 0.8
      });
    },
    onEachFeature: function (feature, layer) {
      layer.bindTooltip(feature.properties.name);
      layer.bindPopup(feature.properties.popupHtml, { maxWidth: 250 });
    }
  }).addTo(map);
  overlays['{{.MarkerLayer}}'] = surveyLayer;

  L.control.layers(baseLayers, overlays, { collapsed: false }).addTo(map);

  // User-location control, independent of record data.
  var LocateControl = L.Control.extend({
    onAdd: function () {
      var btn = L.DomUtil.create('div', 'locate-btn leaflet-bar');
      btn.innerHTML = '&#9737;';
      btn.title = 'Lokasi Saya';
      L.DomEvent.on(btn, 'click', function (e) {
        L.DomEvent.stopPropagation(e);
        if (!navigator.geolocation) return;
        navigator.geolocation.getCurrentPosition(function (pos) {
          var here = [pos.coords.latitude, pos.coords.longitude];
          L.circleMarker(here, { radius: 6, color: '#1565c0' }).addTo(map);
          map.setView(here, 15);
        });
      });
      return btn;
    }
  });
  new LocateControl({ position: 'topleft' }).addTo(map);
</script>
</body>
</html>
`))
