package sos

import (
	"fmt"
	"net/url"
)

// NotificationLink is a prefilled WhatsApp chat link for one contact. The
// links are plain strings handed to the client for the user to open; no
// messaging API is involved.
type NotificationLink struct {
	// ContactName is the recipient's display name.
	ContactName string

	// Phone is the recipient's number, digits only.
	Phone string

	// URL opens a WhatsApp chat with the emergency message prefilled.
	URL string
}

// BuildLinks produces one wa.me link per contact with the emergency message
// prefilled.
func BuildLinks(event *Event) []NotificationLink {
	message := emergencyMessage(event)

	links := make([]NotificationLink, 0, len(event.Contacts))
	for _, c := range event.Contacts {
		phone := digitsOnly(c.Phone)
		links = append(links, NotificationLink{
			ContactName: c.Name,
			Phone:       phone,
			URL:         fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message)),
		})
	}
	return links
}

// emergencyMessage formats the prefilled message body.
func emergencyMessage(event *Event) string {
	message := fmt.Sprintf(
		"EMERGENCY: %s needs help! Live location: https://maps.google.com/?q=%.6f,%.6f",
		event.Username, event.Coordinate.Lat, event.Coordinate.Lon,
	)
	if event.Address != "" {
		message += fmt.Sprintf(" (near %s)", event.Address)
	}
	return message
}
