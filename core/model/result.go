package model

// ScheduledSession describes one opened session in the final schedule.
type ScheduledSession struct {
	SessionName      string   `json:"sessionName"`
	EventDate        string   `json:"eventDate"`
	StartTime        string   `json:"startTime"`
	EndTime          string   `json:"endTime"`
	ParticipantCount int      `json:"participantCount"`
	Participants     []string `json:"participants"`
}

// Result is the immutable output of one optimization run.
type Result struct {
	TotalSessionsUsed int                `json:"totalSessionsUsed"`
	ScheduledSessions []ScheduledSession `json:"scheduledSessions"`
	UnallocatedPeople []string           `json:"unallocatedPeople"`
}
