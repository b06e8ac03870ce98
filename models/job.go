package models

import (
	"encoding/json"
	"fmt"
)

const (
	// NotAvailable is the placeholder written when a field could not be
	// extracted from a listing fragment. It is a valid value, not an error.
	NotAvailable = "Not available"

	// NoDescription marks a detail page whose description container exists
	// but holds no content.
	NoDescription = "No description available"
)

// Description is a job description as extracted from a detail page.
// Invalid is set when the description container could not be located at all;
// downstream processing must discard such records. On the wire a valid
// description is a plain JSON string, an invalid one serializes as the
// legacy one-element array ["Not available"].
type Description struct {
	Text    string
	Invalid bool
}

func (d Description) MarshalJSON() ([]byte, error) {
	if d.Invalid {
		return json.Marshal([]string{NotAvailable})
	}
	return json.Marshal(d.Text)
}

func (d *Description) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.Text = s
		d.Invalid = false
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		d.Text = ""
		d.Invalid = true
		return nil
	}
	return fmt.Errorf("description: neither string nor string list: %s", data)
}

// RawJob holds one scraped listing exactly as it is written to the batch
// file during a crawl pass, before any normalization.
type RawJob struct {
	Title       string      `json:"title"`
	Company     string      `json:"company"`
	Date        string      `json:"date"`
	Location    string      `json:"location"`
	Insights    []string    `json:"insights"`
	Description Description `json:"description"`
	URL         string      `json:"url"`
}

// Job is the normalized record ready for the store. A Job exists only if a
// salary figure was derivable and the description was structurally valid.
type Job struct {
	JobUID      string `json:"JobUID"`
	Title       string `json:"Title"`
	Company     string `json:"Company"`
	CompanyUID  string `json:"CompanyUID"`
	Location    string `json:"Location"`
	City        string `json:"City"`
	Province    string `json:"Province"`
	Description string `json:"Description"`
	Salary      int    `json:"Salary"`
	JobType     string `json:"JobType"`
	Date        string `json:"Date"`
	URL         string `json:"URL"`
}

// Company is the geocoded company row keyed by CompanyUID. Address and the
// coordinates stay empty for Remote companies and when geocoding finds no
// result.
type Company struct {
	CompanyUID string
	Name       string
	City       string
	Province   string
	Address    string
	Latitude   float64
	Longitude  float64
	Geocoded   bool
}

// InsertStats reports the outcome of one persistence batch.
type InsertStats struct {
	Total      int
	Inserted   int
	Duplicates int
}

// RunReport holds the end-of-run summary over one crawl pass.
type RunReport struct {
	PagesVisited int
	RawJobs      int
	Normalized   int
	Dropped      int
	Inserted     int
	Duplicates   int
	MinSalary    int
	MaxSalary    int
	AvgSalary    int
	JobsByCity   map[string]int
}
