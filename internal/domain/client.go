package domain

import "time"

// Client is a customer the freelancer bills. HourlyRate is the default
// rate applied to new time entries and line items for this client.
type Client struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	HourlyRate float64
	Notes      string
	CreatedAt  time.Time
}

// UnknownClientName is displayed for entities whose client row no longer
// exists. Client deletion does not cascade, so references may dangle.
const UnknownClientName = "Onbekende klant"

// ClientName resolves an id against a loaded client list, falling back to
// the placeholder for dangling references.
func ClientName(clients []Client, id string) string {
	for _, c := range clients {
		if c.ID == id {
			return c.Name
		}
	}
	return UnknownClientName
}
