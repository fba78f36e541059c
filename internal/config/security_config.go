// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps HTTP route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Auth - Public
	"Login": SecurityPublic,

	// Health - Public
	"Health": SecurityPublic,

	// Car availability and reviews - Public reads
	"GetAvailability":          SecurityPublic,
	"GetAvailableDatesInRange": SecurityPublic,
	"IsAvailable":              SecurityPublic,
	"CheckBookingAvailability": SecurityPublic,
	"GetCarRating":             SecurityPublic,
	"ListCarReviews":           SecurityPublic,

	// Car availability - Access Protected
	"AddAvailability":    SecurityAccess,
	"SetAvailability":    SecurityAccess,
	"RemoveAvailability": SecurityAccess,

	// Bookings - Access Protected
	"CreateBooking":         SecurityAccess,
	"GetClientBookings":     SecurityAccess,
	"GetSellerBookings":     SecurityAccess,
	"GetUpcomingBookings":   SecurityAccess,
	"GetSellerBookingStats": SecurityAccess,
	"GetBooking":            SecurityAccess,
	"UpdateBookingStatus":   SecurityAccess,
	"CancelBooking":         SecurityAccess,
	"ConfirmBooking":        SecurityAccess,
	"RejectBooking":         SecurityAccess,
	"CompleteBooking":       SecurityAccess,
	"UpdatePaymentStatus":   SecurityAccess,
	"CanReviewBooking":      SecurityAccess,

	// Reviews - Access Protected
	"CreateReview": SecurityAccess,
}

// SecurityLevelFor returns the level of a route. Unknown routes require an
// access token.
func SecurityLevelFor(route string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[route]; ok {
		return level
	}
	return SecurityAccess
}
