package athletes

import (
	"time"
)

// Athlete is one provider account we archive data for. The refresh token
// is the long-lived credential; it gets rotated on every token refresh.
type Athlete struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	City         string    `db:"city"`
	Country      string    `db:"country"`
	RefreshToken string    `db:"refresh_token"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
