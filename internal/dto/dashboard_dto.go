package dto

// DashboardResponse aggregates the counters shown on the landing page.
type DashboardResponse struct {
	InboxPending    int64              `json:"inbox_pending"`
	InboxTotal      int64              `json:"inbox_total"`
	Sent            int64              `json:"sent"`
	Orders          int64              `json:"orders"`
	Memoranda       int64              `json:"memoranda"`
	Letters         int64              `json:"letters"`
	IncomingLetters int64              `json:"incoming_letters"`
	RecentActivity  []AuditLogResponse `json:"recent_activity"`
}
