package worldbank

// Ref is a nested {id, value} pair as the API returns for country and
// indicator fields.
type Ref struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Record is one raw indicator observation as received from the API.
// Value is nil when the observation is missing. Unit, ObsStatus and Decimal
// are carried for completeness but not projected into the target schema.
type Record struct {
	Indicator   Ref      `json:"indicator"`
	Country     Ref      `json:"country"`
	CountryISO3 string   `json:"countryiso3code"`
	Date        string   `json:"date"`
	Value       *float64 `json:"value"`
	Unit        string   `json:"unit"`
	ObsStatus   string   `json:"obs_status"`
	Decimal     int      `json:"decimal"`
}
