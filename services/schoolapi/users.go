package schoolapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/volatiletech/null/v8"
)

type (
	User struct {
		ID        int       `json:"user_id"`
		SchoolID  int       `json:"school_id"`
		FirstName string    `json:"first_name"`
		LastName  string    `json:"last_name"`
		Email     string    `json:"email"`
		Role      string    `json:"role"`
		IsActive  bool      `json:"is_active"`
		CreatedAt null.Time `json:"created_at"`
	}

	NewUser struct {
		FirstName string `json:"first_name" validate:"required"`
		LastName  string `json:"last_name" validate:"required"`
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required"`
		Role      string `json:"role" validate:"required,schoolrole"`
	}

	// UpdateUser is a partial update; zero fields are left untouched server-side.
	UpdateUser struct {
		FirstName string `json:"first_name,omitempty"`
		LastName  string `json:"last_name,omitempty"`
		Email     string `json:"email,omitempty" validate:"omitempty,email"`
		Password  string `json:"password,omitempty"`
		Role      string `json:"role,omitempty" validate:"omitempty,schoolrole"`
	}

	Message struct {
		Message string `json:"message"`
	}
)

func (c *Client) Users(ctx context.Context, schoolID int) ([]User, error) {
	var users []User
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/users/%d", schoolID), nil, nil, &users)
	return users, err
}

func (c *Client) User(ctx context.Context, schoolID, userID int) (User, error) {
	var usr User
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/users/%d/%d", schoolID, userID), nil, nil, &usr)
	return usr, err
}

func (c *Client) CreateUser(ctx context.Context, schoolID int, data NewUser) (User, error) {
	var usr User
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/users/%d", schoolID), nil, data, &usr)
	return usr, err
}

func (c *Client) UpdateUser(ctx context.Context, schoolID, userID int, data UpdateUser) (User, error) {
	var usr User
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%d/%d", schoolID, userID), nil, data, &usr)
	return usr, err
}

func (c *Client) DeleteUser(ctx context.Context, schoolID, userID int) (Message, error) {
	var msg Message
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d/%d", schoolID, userID), nil, nil, &msg)
	return msg, err
}
