package models

// Settings represents client settings persisted in the local state database
type Settings struct {
	APIURL          string `json:"api_url"`           // overrides the default API base URL when set
	WeekStart       string `json:"week_start"`        // "sunday" or "monday"
	OnlySelectedDay bool   `json:"only_selected_day"` // TUI starts filtered to the selected day
}
