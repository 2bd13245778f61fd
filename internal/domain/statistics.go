package domain

// CalendarSpan is a duration expressed in calendar units.
type CalendarSpan struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// TimeOnTrail is the total walking time split into whole days and hours.
type TimeOnTrail struct {
	Days  int `json:"days"`
	Hours int `json:"hours"`
}

// Statistics is the derived completion record for one certification request.
// It is recomputed on every request and never persisted.
type Statistics struct {
	AllLength             float64      `json:"all_length"`
	CompletedLength       float64      `json:"completed_length"`
	LengthPercentage      float64      `json:"length_percentage"`
	RemainingLength       float64      `json:"remaining_length"`
	CompletedElevation    float64      `json:"completed_elevation"`
	AllElevation          float64      `json:"all_elevation"`
	ElevationPercentage   float64      `json:"elevation_percentage"`
	CompletedStamps       int          `json:"completed_stamps"`
	RemainingStamps       int          `json:"remaining_stamps"`
	CompletedMainSections int          `json:"completed_main_sections"`
	AllMainSections       int          `json:"all_main_sections"`
	AverageSpeed          float64      `json:"average_speed"`
	TimeOnBlue            TimeOnTrail  `json:"time_on_blue"`
	SinceFirstStamp       CalendarSpan `json:"since_first_stamp_time_diff"`
	ExpectedCompletion    CalendarSpan `json:"excepted_completion"`
	Completed             bool         `json:"mozgalom_completed"`
}
