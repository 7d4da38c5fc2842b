// AngelaMos | 2026
// dto.go

package rating

import (
	"time"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

// ScoreRequest leaves range checking to the service so an out of range
// score is reported as INVALID_SCORE rather than a validation failure.
type ScoreRequest struct {
	Score *int `json:"score" validate:"required"`
}

type ListParams struct {
	core.PageParams
	BookID   string
	UserID   string
	MinScore *int
	MaxScore *int
	Sort     core.SortParams
}

type RatingResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToRatingResponse(r *Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		BookID:    r.BookID,
		Score:     r.Score,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ToRatingResponseList(ratings []Rating) []RatingResponse {
	out := make([]RatingResponse, 0, len(ratings))
	for i := range ratings {
		out = append(out, ToRatingResponse(&ratings[i]))
	}
	return out
}
