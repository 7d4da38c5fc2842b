// AngelaMos | 2026
// entity.go

package rating

import "time"

const (
	MinScore = 1
	MaxScore = 5
)

type Rating struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	BookID    string    `db:"book_id"`
	Score     int       `db:"score"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ValidScore reports whether score is on the 1 to 5 scale.
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}
