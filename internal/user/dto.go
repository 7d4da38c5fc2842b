// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

type CreateUserRequest struct {
	Email    string  `json:"email"             validate:"required,email,max=255"`
	Password string  `json:"password"          validate:"required,min=8,max=128"`
	Name     string  `json:"name"              validate:"required,min=1,max=100"`
	Phone    *string `json:"phone,omitempty"   validate:"omitempty,max=32"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone,omitempty"    validate:"omitempty,max=32"`
	Address  *string `json:"address,omitempty"  validate:"omitempty,max=500"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListUsersParams struct {
	core.PageParams
	Search string
	Role   core.Role
	Status core.Status
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Address:   u.Address,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
