package models

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
)

// Admin actions recorded in the log.
const (
	ActionLogin               = "LOGIN"
	ActionLogout              = "LOGOUT"
	ActionItemAdded           = "ITEM_ADDED"
	ActionAvailabilityUpdated = "AVAILABILITY_UPDATED"
)

type AdminLogEntry struct {
	ID        int64     `db:"id" json:"id"`
	AdminUser string    `db:"admin_user" json:"admin_user"`
	Action    string    `db:"action" json:"action"`
	Details   string    `db:"details" json:"details"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Dashboard is the admin overview.
type Dashboard struct {
	Items  []MenuItem      `json:"items"`
	Orders []Order         `json:"orders"`
	Logs   []AdminLogEntry `json:"logs"`
}
