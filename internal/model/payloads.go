package model

// Decoded Fitbit response payloads, one per data category. Field sets
// mirror the upstream API; anything the importer does not persist is
// left out.

// SleepPayload is the /sleep/date/{d}.json response.
type SleepPayload struct {
	Sleep   []SleepEntry `json:"sleep"`
	Summary SleepSummary `json:"summary"`
}

type SleepSummary struct {
	TotalMinutesAsleep int `json:"totalMinutesAsleep"`
	TotalSleepRecords  int `json:"totalSleepRecords"`
	TotalTimeInBed     int `json:"totalTimeInBed"`
}

type SleepEntry struct {
	LogID               int64       `json:"logId"`
	DateOfSleep         string      `json:"dateOfSleep"`
	Duration            int64       `json:"duration"`
	Efficiency          int         `json:"efficiency"`
	EndTime             string      `json:"endTime"`
	InfoCode            int         `json:"infoCode"`
	IsMainSleep         bool        `json:"isMainSleep"`
	StartTime           string      `json:"startTime"`
	LogType             string      `json:"logType"`
	MinutesAfterWakeup  int         `json:"minutesAfterWakeup"`
	MinutesAsleep       int         `json:"minutesAsleep"`
	MinutesAwake        int         `json:"minutesAwake"`
	MinutesToFallAsleep int         `json:"minutesToFallAsleep"`
	TimeInBed           int         `json:"timeInBed"`
	Type                string      `json:"type"`
	Levels              SleepLevels `json:"levels"`
}

type SleepLevels struct {
	Data []SleepLevel `json:"data"`
}

type SleepLevel struct {
	DateTime string `json:"dateTime"`
	Level    string `json:"level"`
	Seconds  int    `json:"seconds"`
}

// ActivityPayload is the /activities/date/{d}.json daily summary response.
type ActivityPayload struct {
	Goals   ActivityGoals   `json:"goals"`
	Summary ActivitySummary `json:"summary"`
}

type ActivityGoals struct {
	ActiveMinutes int     `json:"activeMinutes"`
	CaloriesOut   int     `json:"caloriesOut"`
	Distance      float64 `json:"distance"`
	Floors        int     `json:"floors"`
	Steps         int     `json:"steps"`
}

type ActivitySummary struct {
	ActivityCalories       int                `json:"activityCalories"`
	CalorieEstimationMu    *float64           `json:"calorieEstimationMu"`
	CaloriesBMR            int                `json:"caloriesBMR"`
	CaloriesOut            int                `json:"caloriesOut"`
	CaloriesOutUnestimated *int               `json:"caloriesOutUnestimated"`
	Distances              []ActivityDistance `json:"distances"`
	Elevation              float64            `json:"elevation"`
	FairlyActiveMinutes    int                `json:"fairlyActiveMinutes"`
	Floors                 int                `json:"floors"`
	HeartRateZones         []HeartRateZone    `json:"heartRateZones"`
	LightlyActiveMinutes   int                `json:"lightlyActiveMinutes"`
	MarginalCalories       int                `json:"marginalCalories"`
	RestingHeartRate       *int               `json:"restingHeartRate"`
	SedentaryMinutes       int                `json:"sedentaryMinutes"`
	Steps                  int                `json:"steps"`
	UseEstimation          bool               `json:"useEstimation"`
	VeryActiveMinutes      int                `json:"veryActiveMinutes"`
}

type ActivityDistance struct {
	Activity string  `json:"activity"`
	Distance float64 `json:"distance"`
}

type HeartRateZone struct {
	Name        string  `json:"name"`
	Min         int     `json:"min"`
	Max         int     `json:"max"`
	Minutes     int     `json:"minutes"`
	CaloriesOut float64 `json:"caloriesOut"`
}

// HeartPayload is the /activities/heart/date/{d}/1d.json response.
type HeartPayload struct {
	ActivitiesHeart []HeartDay `json:"activities-heart"`
}

type HeartDay struct {
	DateTime string         `json:"dateTime"`
	Value    HeartDayValues `json:"value"`
}

type HeartDayValues struct {
	RestingHeartRate     *int            `json:"restingHeartRate"`
	HeartRateZones       []HeartRateZone `json:"heartRateZones"`
	CustomHeartRateZones []HeartRateZone `json:"customHeartRateZones"`
}

// IntradayPayload carries the 5-minute dataset shared by the heart and
// steps intraday endpoints.
type IntradayPayload struct {
	Heart       []HeartDay      `json:"activities-heart"`
	HeartSeries *IntradaySeries `json:"activities-heart-intraday"`
	StepsSeries *IntradaySeries `json:"activities-steps-intraday"`
}

type IntradaySeries struct {
	Dataset         []IntradayPoint `json:"dataset"`
	DatasetInterval int             `json:"datasetInterval"`
	DatasetType     string          `json:"datasetType"`
}

type IntradayPoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// HRVPayload is the /hrv/date/{d}.json response; the /all.json intraday
// variant adds per-minute samples.
type HRVPayload struct {
	HRV []HRVDay `json:"hrv"`
}

type HRVDay struct {
	DateTime string      `json:"dateTime"`
	Value    HRVSummary  `json:"value"`
	Minutes  []HRVMinute `json:"minutes"`
}

type HRVSummary struct {
	DailyRMSSD *float64 `json:"dailyRmssd"`
	DeepRMSSD  *float64 `json:"deepRmssd"`
}

type HRVMinute struct {
	Minute string         `json:"minute"`
	Value  HRVMinuteValue `json:"value"`
}

type HRVMinuteValue struct {
	RMSSD    *float64 `json:"rmssd"`
	Coverage *float64 `json:"coverage"`
	HF       *float64 `json:"hf"`
	LF       *float64 `json:"lf"`
}

// ActivityLogPayload is the /activities/list.json response.
type ActivityLogPayload struct {
	Activities []ActivityLogEntry `json:"activities"`
}

type ActivityLogEntry struct {
	LogID                 int64           `json:"logId"`
	ActiveDuration        int64           `json:"activeDuration"`
	ActivityLevel         []ActivityLevel `json:"activityLevel"`
	ActivityName          string          `json:"activityName"`
	ActivityTypeID        int64           `json:"activityTypeId"`
	Calories              int             `json:"calories"`
	Duration              int64           `json:"duration"`
	ElevationGain         float64         `json:"elevationGain"`
	LastModified          string          `json:"lastModified"`
	LogType               string          `json:"logType"`
	ManualValuesSpecified ManualValues    `json:"manualValuesSpecified"`
	OriginalDuration      int64           `json:"originalDuration"`
	OriginalStartTime     string          `json:"originalStartTime"`
	StartTime             string          `json:"startTime"`
	Steps                 int             `json:"steps"`
}

type ActivityLevel struct {
	Minutes int    `json:"minutes"`
	Name    string `json:"name"`
}

type ManualValues struct {
	Calories bool `json:"calories"`
	Distance bool `json:"distance"`
	Steps    bool `json:"steps"`
}
