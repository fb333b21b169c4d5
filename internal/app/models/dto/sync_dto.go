package dto

// DeletedCounts reports rows removed at the start of a synchronization
type DeletedCounts struct {
	Schedules     int64 `json:"schedules"`
	Subjects      int64 `json:"subjects"`
	Notifications int64 `json:"notifications"`
	Users         int64 `json:"users"`
	Rooms         int64 `json:"rooms"`
	Groups        int64 `json:"groups"`
}

// SyncedCounts reports records stored by the collector
type SyncedCounts struct {
	Groups   int `json:"groups"`
	Rooms    int `json:"rooms"`
	Users    int `json:"users"`
	Subjects int `json:"subjects"`
}

// FixtureUser is a deterministic account created by synchronization
type FixtureUser struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	GroupID *int64 `json:"groupId,omitempty"`
	Reused  bool   `json:"reused"`
}

// FixtureUsers lists the fixture accounts
type FixtureUsers struct {
	Count   int           `json:"count"`
	Created []FixtureUser `json:"created"`
}

// ScheduleRebuild reports the rebuilt pending schedule stubs
type ScheduleRebuild struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

// TemplateUpload reports the fixture spreadsheet upload
type TemplateUpload struct {
	Uploaded bool   `json:"uploaded"`
	Name     string `json:"name,omitempty"`
}

// SyncResult is the aggregated outcome of a full synchronization
type SyncResult struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Deleted   DeletedCounts   `json:"deleted"`
	Synced    SyncedCounts    `json:"synced"`
	TestUsers FixtureUsers    `json:"test_users"`
	Schedules ScheduleRebuild `json:"schedules"`
	Template  TemplateUpload  `json:"template"`
	Errors    []string        `json:"errors"`
}

// CollectorItemResult is the outcome of storing one record through the API
type CollectorItemResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// CollectorSection groups the results of one record kind
type CollectorSection struct {
	Count   int                   `json:"count"`
	Results []CollectorItemResult `json:"results"`
}

// CollectorResponse is the body returned by the collector's fetch-and-sync endpoint
type CollectorResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Groups   CollectorSection `json:"groups"`
	Rooms    CollectorSection `json:"rooms"`
	Users    CollectorSection `json:"users"`
	Subjects CollectorSection `json:"subjects"`
}
