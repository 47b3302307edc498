package render

import "fmt"

const (
	StatusAvailable = "Available"
	StatusOnRent    = "On Rent"
)

// ListingStatus labels the user's listing at index. It alternates by
// position; no rental requests are tracked.
func ListingStatus(index int) string {
	if index%2 == 0 {
		return StatusAvailable
	}
	return StatusOnRent
}

// DueDate is the display-only due date of the user's rental at index.
func DueDate(index int) string {
	return fmt.Sprintf("August %d, 2024", index+5)
}
