package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type SchedulePublishedMailData struct {
	FullName  string   `json:"fullName"`
	Date      string   `json:"date"`
	Intervals []string `json:"intervals"`
	IsStandby bool     `json:"isStandby"`
}
