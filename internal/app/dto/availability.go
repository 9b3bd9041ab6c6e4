package dto

// OccupiedDate is one taken night on a site. The public availability view is
// built from these pairs only; no personal data leaves the engine.
type OccupiedDate struct {
	SiteID string `json:"siteId"`
	Date   string `json:"date"`
}

// PublicAvailability is the anonymous calendar for a requested window.
type PublicAvailability struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Occupied []OccupiedDate `json:"occupied"`
}

// MaxBlockDuration advises an administrator how many nights can be blocked
// from a start date before hitting the next occupancy.
type MaxBlockDuration struct {
	SiteID    string `json:"siteId"`
	StartDate string `json:"startDate"`
	MaxNights int    `json:"maxNights"`
}
