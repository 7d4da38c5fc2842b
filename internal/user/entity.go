// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

type User struct {
	ID           string      `db:"id"`
	Email        string      `db:"email"`
	PasswordHash string      `db:"password_hash"`
	Name         string      `db:"name"`
	Phone        *string     `db:"phone"`
	Address      *string     `db:"address"`
	Role         core.Role   `db:"role"`
	Status       core.Status `db:"status"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (u *User) IsActive() bool {
	return u.Status == core.StatusActive
}

func (u *User) IsAdmin() bool {
	return u.Role == core.RoleAdmin
}
