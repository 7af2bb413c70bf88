package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang/geo/s2"
)

// Category is the hazard severity reported for a survey point.
type Category string

const (
	CategoryAman    Category = "Aman"
	CategoryWaspada Category = "Waspada"
	CategoryBahaya  Category = "Bahaya"
	// CategoryUmum is the implicit fallback for unspecified or unknown values.
	CategoryUmum Category = "Umum"
)

// TimestampLayout is the wall-clock format stored in the worksheet.
const TimestampLayout = "2006-01-02 15:04:05"

var allowedCategories = []Category{CategoryAman, CategoryWaspada, CategoryBahaya}

// NewCategory maps a raw input value onto the three-value enum, falling
// back to CategoryUmum for anything it does not recognize.
func NewCategory(value string) Category {
	trimmed := strings.TrimSpace(value)
	for _, allowed := range allowedCategories {
		if string(allowed) == trimmed {
			return allowed
		}
	}
	return CategoryUmum
}

// MarkerColor returns the map marker color for the category.
func (c Category) MarkerColor() string {
	switch c {
	case CategoryBahaya:
		return "red"
	case CategoryWaspada:
		return "orange"
	case CategoryAman:
		return "green"
	default:
		return "blue"
	}
}

func (c Category) String() string {
	return string(c)
}

// SurveyRecord is one reported hazard observation. Its canonical form is a
// single worksheet row; records are immutable once appended.
type SurveyRecord struct {
	Name        string
	Latitude    float64
	Longitude   float64
	Description string
	Category    Category
	PhotoURL    string
	Timestamp   string
	SubmittedBy string
}

// Validate checks the presence rules that must hold before a record is
// persisted. It does not reject out-of-range coordinates: the renderer
// tolerates them, so persistence does too.
func (r SurveyRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("nama lokasi wajib diisi")
	}
	return nil
}

// HasValidCoordinate reports whether the record's position is a real
// latitude/longitude pair.
func (r SurveyRecord) HasValidCoordinate() bool {
	return s2.LatLngFromDegrees(r.Latitude, r.Longitude).IsValid()
}

// NormalizePhotoURL applies the photo presence rule: anything that is not
// an absolute http(s) URL is treated as absent.
func NormalizePhotoURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "http") {
		return ""
	}
	return trimmed
}

// RecordClock produces worksheet timestamps in a fixed local offset,
// independent of the client's clock and locale.
type RecordClock struct {
	zone *time.Location
	now  func() time.Time
}

// NewRecordClock builds a clock pinned to the given UTC offset. The
// default deployment uses +7 (WIB).
func NewRecordClock(zoneName string, offsetHours int) RecordClock {
	return RecordClock{
		zone: time.FixedZone(zoneName, offsetHours*60*60),
		now:  time.Now,
	}
}

// NewRecordClockAt pins the clock to a fixed instant, for tests.
func NewRecordClockAt(zoneName string, offsetHours int, instant time.Time) RecordClock {
	clock := NewRecordClock(zoneName, offsetHours)
	clock.now = func() time.Time { return instant }
	return clock
}

// Timestamp formats the current instant in the record layout.
func (c RecordClock) Timestamp() string {
	return c.now().In(c.zone).Format(TimestampLayout)
}

// ZoneName returns the label of the fixed offset, e.g. "WIB".
func (c RecordClock) ZoneName() string {
	name, _ := c.now().In(c.zone).Zone()
	return name
}
