package domain

import "time"

// User is a workflow owner. Deleting a user cascades to every credential,
// workflow, run and log entry it owns.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email" validate:"required,email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
