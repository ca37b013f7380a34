package domain

import "time"

// Customer auth domain errors.
var (
	ErrCustomerNotFound   = &Error{Code: ENOTFOUND, Message: "Customer not found"}
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrEmailTaken         = &Error{Code: ECONFLICT, Message: "An account with this email already exists"}
	ErrNotAuthenticated   = &Error{Code: EUNAUTHORIZED, Message: "Sign in to continue"}
)

// Customer is the platform-held customer record. Credentials and sessions
// are owned by the platform; this process only relays them.
type Customer struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
