// AngelaMos | 2026
// entity.go

package comment

import "time"

type Comment struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	BookID    string    `db:"book_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
