package weather

// IconCategory groups provider condition codes for display.
type IconCategory string

const (
	CategoryThunderstorm IconCategory = "thunderstorm"
	CategoryDrizzle      IconCategory = "drizzle"
	CategoryRain         IconCategory = "rain"
	CategorySnow         IconCategory = "snow"
	CategoryAtmosphere   IconCategory = "atmosphere"
	CategoryClear        IconCategory = "clear"
	CategoryClouds       IconCategory = "clouds"
)

// iconRange binds a category to an inclusive range of condition codes.
type iconRange struct {
	category IconCategory
	min      int
	max      int
	icon     string
}

// iconRanges is scanned in order; the first match wins.
// 800 is its own range so clear sky never merges into clouds.
var iconRanges = []iconRange{
	{CategoryThunderstorm, 200, 299, "fas fa-bolt"},
	{CategoryDrizzle, 300, 499, "fas fa-cloud-rain"},
	{CategoryRain, 500, 599, "fas fa-rain"},
	{CategorySnow, 600, 699, "fas fa-snowflake"},
	{CategoryAtmosphere, 700, 799, "fas fa-smog"},
	{CategoryClear, 800, 800, "fas fa-sun"},
	{CategoryClouds, 801, 899, "fas fa-cloud"},
}

// Classify returns the icon category for a condition code.
// Codes outside every range fall back to clouds.
func Classify(code int) IconCategory {
	for _, r := range iconRanges {
		if code >= r.min && code <= r.max {
			return r.category
		}
	}
	return CategoryClouds
}

// Icon returns the display icon token for the category.
func (c IconCategory) Icon() string {
	for _, r := range iconRanges {
		if r.category == c {
			return r.icon
		}
	}
	return iconRanges[len(iconRanges)-1].icon
}

// IconFor returns the display icon token for a condition code.
func IconFor(code int) string {
	return Classify(code).Icon()
}
