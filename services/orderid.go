package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const orderIDPrefix = "ORD"

// NewOrderID builds ORD + UTC timestamp to the second + four random hex characters.
// Collisions are unlikely but possible; callers check before inserting.
func NewOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return orderIDPrefix + now.UTC().Format("20060102150405") + suffix
}
