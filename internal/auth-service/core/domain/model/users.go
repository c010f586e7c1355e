package model

type User struct {
	ID           string
	Username     string
	PasswordHash string
	// Role is empty until the user picks rider or driver.
	Role string
}
