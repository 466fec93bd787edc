package view

import (
	"fmt"
	"time"
)

var queueNames = map[int]string{
	420:  "Ranked Solo/Duo",
	440:  "Ranked Flex",
	400:  "Normal Draft",
	430:  "Normal Blind",
	450:  "ARAM",
	700:  "Clash",
	1700: "Arena",
	2400: "ARAM: Mayhem",
}

// QueueName returns the display name of a queue id.
func QueueName(id int) string {
	if name, ok := queueNames[id]; ok {
		return name
	}
	return "Classic"
}

// PositionLabel returns the display name of a match-v5 team position.
func PositionLabel(position string) string {
	if position == "UTILITY" {
		return "SUPPORT"
	}
	return position
}

// FormatDuration renders seconds as "25m 4s".
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// FormatClock renders seconds as "m:ss".
func FormatClock(seconds int64) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatTimeAgo renders how long before now a match ended.
func FormatTimeAgo(now time.Time, endTimestamp int64) string {
	diff := now.Sub(time.UnixMilli(endTimestamp))
	minutes := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case hours == 0:
		return fmt.Sprintf("%d mins ago", minutes)
	case days == 0:
		return fmt.Sprintf("%d hours ago", hours)
	case days == 1:
		return "Yesterday"
	}
	return fmt.Sprintf("%d days ago", days)
}
