package memory

import (
	"context"
	"strings"

	"github.com/gate-garments/hrms-backend-go/internal/domain/user"
)

type userRepository struct{ s *Store }

func (s *Store) Users() user.UserRepository { return userRepository{s} }

func (r userRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return user.User{}, user.ErrUsernameExists
		}
		if u.Email != "" && strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	u.ID = newID()
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = u
	return u, nil
}

func (r userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.ID == id })
}

func (r userRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return r.find(func(u user.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.find(func(u user.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r userRepository) find(match func(user.User) bool) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}
