package constants

// Booking status
const (
	BookingStatusQuote     = "quote"
	BookingStatusPending   = "pending" // reserved, no transition sets it yet
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Pricing source
const (
	PricingSourceAdvisory = "advisory"
	PricingSourceFallback = "fallback"
)

// Chat roles
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// Host advice categories
const (
	AdviceCategoryListingQuality  = "listing_quality"
	AdviceCategoryPricingStrategy = "pricing_strategy"
	AdviceCategoryGuestExperience = "guest_experience"
	AdviceCategoryOccupancyGrowth = "occupancy_growth"
)

// Advice priorities
const (
	AdvicePriorityHigh   = "high"
	AdvicePriorityMedium = "medium"
	AdvicePriorityLow    = "low"
)

// Room types
const (
	RoomTypeBedroom  = "bedroom"
	RoomTypeBathroom = "bathroom"
	RoomTypeKitchen  = "kitchen"
)

// User roles
const (
	RoleGuest = 0
	RoleHost  = 1
	RoleAdmin = 2
)

// MetricsWindowDays là cửa sổ trượt mặc định cho thống kê host
const MetricsWindowDays = 90
