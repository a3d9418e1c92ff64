package users

import "errors"

// ErrNotFound is returned when no user has the requested id.
var ErrNotFound = errors.New("user not found")

// User is a registered account.
type User struct {
	ID    string
	Name  string
	Email string
}

// Store loads users by id.
type Store interface {
	Find(id string) (*User, error)
}

// UserService implements the user use cases.
type UserService struct {
	store Store
}

// NewUserService creates a UserService backed by store.
func NewUserService(store Store) *UserService {
	return &UserService{store: store}
}

// GetUser returns the user with the given id.
func (s *UserService) GetUser(id string) (*User, error) {
	u, err := s.store.Find(id)
	if err != nil {
		return nil, err
	}
	return u, nil
}
