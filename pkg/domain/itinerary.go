package domain

// Activity is a single scheduled item in a day plan.
type Activity struct {
	Time     string `json:"time"`
	Title    string `json:"title"`
	Interest string `json:"interest,omitempty"`
	Cost     int    `json:"cost"`
}

// DayPlan groups the activities of one day.
type DayPlan struct {
	Day        int        `json:"day"`
	Date       string     `json:"date,omitempty"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
	TotalCost  int        `json:"total_cost"`
}

// Itinerary is the results payload produced from a submitted TripRequest.
type Itinerary struct {
	Destination string    `json:"destination"`
	Travelers   int       `json:"travelers"`
	Days        []DayPlan `json:"days"`
	TotalCost   int       `json:"total_cost"`
}
