package constants

const (
	ROLE_CUSTOMER   = "customer"
	ROLE_EMPLOYEE   = "employee"
	ROLE_ADMIN      = "admin"
	ROLE_SUPERADMIN = "superadmin"
)

const (
	SEAT_AVAILABLE = "available"
	SEAT_BOOKED    = "booked"

	BOOKING_PENDING   = "pending"
	BOOKING_CANCELLED = "cancelled"

	SESSION_SCHEDULED = "scheduled"
	SESSION_FINISHED  = "finished"

	REVIEW_PENDING  = "pending"
	REVIEW_APPROVED = "approved"
	REVIEW_REJECTED = "rejected"

	INCIDENT_OPEN        = "open"
	INCIDENT_IN_PROGRESS = "in_progress"
	INCIDENT_RESOLVED    = "resolved"
)

const (
	ERROR_INTERNAL_ERROR        = "Internal server error"
	ERROR_PARSE_DATA_TO_LOCALS  = "Failed to read request data"
	DATA_INPUT_IS_NOT_NUMBER    = "Parameter must be a positive number"
	INVALID_INPUT               = "Invalid input"
	MISSING_LOGIN_INPUT         = "Email and password are required"
	INVALID_CREDENTIALS         = "Invalid email or password"
	ACCOUNT_NOT_ACTIVE          = "Account is disabled"
	EMAIL_ALREADY_EXISTS        = "Email already exists"
	NOT_PERMISSION              = "You do not have permission to perform this action"
	MISSING_TOKEN               = "Missing token"
	INVALID_TOKEN               = "Invalid token"
	PASSWORD_RESET_SENT         = "If the email exists, a reset link has been sent"
	INVALID_RESET_TOKEN         = "Reset token is invalid or expired"
	CURRENT_PASSWORD_INCORRECT  = "Current password is incorrect"
	PASSWORDS_DO_NOT_MATCH      = "Passwords do not match"
	CATEGORY_NAME_ALREADY_EXIST = "Category name already exists"
	CINEMA_NAME_ALREADY_EXIST   = "Cinema name already exists"
	SEAT_NUMBER_ALREADY_EXIST   = "Seat number already exists in this room"
	ROOM_NOT_IN_CINEMA          = "Room does not belong to cinema"
	TIME_RANGE_INVALID          = "End must be after start"
	TIME_RANGE_OVERLAP          = "Room is already in use during this time range"
	PAYMENT_FAILED              = "Payment gateway rejected the request"
	UPLOADS_DISABLED            = "Uploads are not configured"
)

const (
	NOT_FOUND_USER       = "User not found"
	NOT_FOUND_MOVIE      = "Movie not found"
	NOT_FOUND_CINEMA     = "Cinema not found"
	NOT_FOUND_ROOM       = "Room not found"
	NOT_FOUND_SESSION    = "Session not found"
	NOT_FOUND_TIME_RANGE = "Time range not found"
	NOT_FOUND_SEAT       = "Seat not found"
	NOT_FOUND_CATEGORY   = "Category not found"
	NOT_FOUND_BOOKING    = "Booking not found"
	NOT_FOUND_REVIEW     = "Review not found"
	NOT_FOUND_INCIDENT   = "Incident not found"
)

const (
	MAIL_BOOKING_CONFIRMATION = "booking_confirmation"
	MAIL_WELCOME              = "welcome"
	MAIL_PASSWORD_RESET       = "password_reset"
)
