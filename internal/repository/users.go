package repository

import (
	"time"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/store"
)

// UserRepo owns the users collection.
type UserRepo struct {
	col     *store.Collection[domain.User]
	now     func() time.Time
	metrics *observability.Metrics
}

// GetAll returns every user.
func (r *UserRepo) GetAll() []domain.User {
	return r.col.All()
}

// GetByID looks a user up by id; absence is a normal outcome.
func (r *UserRepo) GetByID(id string) (domain.User, bool) {
	for _, u := range r.col.All() {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// GetByPhone looks a user up by phone number.
func (r *UserRepo) GetByPhone(phone string) (domain.User, bool) {
	for _, u := range r.col.All() {
		if u.Phone == phone {
			return u, true
		}
	}
	return domain.User{}, false
}

// GetByType returns all users of one account type.
func (r *UserRepo) GetByType(t domain.UserType) []domain.User {
	var out []domain.User
	for _, u := range r.col.All() {
		if u.Type == t {
			out = append(out, u)
		}
	}
	return out
}

// Create inserts a new account. Phone numbers are unique per active
// account.
func (r *UserRepo) Create(nu domain.NewUser) (domain.User, error) {
	defer observe(r.metrics, "users.create", time.Now())
	if _, exists := r.GetByPhone(nu.Phone); exists {
		return domain.User{}, &domain.ErrConflict{Message: "phone already registered: " + nu.Phone}
	}
	user := domain.User{
		ID:         NewID(),
		Type:       nu.Type,
		Name:       nu.Name,
		Phone:      nu.Phone,
		Address:    nu.Address,
		Password:   nu.Password,
		CustomerID: nu.CustomerID,
		CreatedAt:  r.now(),
	}
	r.col.Update(func(users []domain.User) []domain.User {
		return append(users, user)
	})
	return user, nil
}

// Update merges the non-nil patch fields onto the record and stamps
// UpdatedAt.
func (r *UserRepo) Update(id string, patch domain.UserPatch) (domain.User, error) {
	defer observe(r.metrics, "users.update", time.Now())
	var updated domain.User
	found := false
	r.col.Update(func(users []domain.User) []domain.User {
		for i := range users {
			if users[i].ID != id {
				continue
			}
			if patch.Name != nil {
				users[i].Name = *patch.Name
			}
			if patch.Phone != nil {
				users[i].Phone = *patch.Phone
			}
			if patch.Address != nil {
				users[i].Address = *patch.Address
			}
			if patch.Password != nil {
				users[i].Password = *patch.Password
			}
			ts := r.now()
			users[i].UpdatedAt = &ts
			updated = users[i]
			found = true
			break
		}
		return users
	})
	if !found {
		return domain.User{}, &domain.ErrNotFound{Resource: "user", ID: id}
	}
	return updated, nil
}

// Delete removes the account by id. Dependent records are untouched.
func (r *UserRepo) Delete(id string) {
	defer observe(r.metrics, "users.delete", time.Now())
	r.col.Update(func(users []domain.User) []domain.User {
		out := users[:0]
		for _, u := range users {
			if u.ID != id {
				out = append(out, u)
			}
		}
		return out
	})
}

// ValidateLogin is an equality match on phone + password + type, per
// the platform's plaintext credential model.
func (r *UserRepo) ValidateLogin(phone, password string, t domain.UserType) (domain.User, bool) {
	for _, u := range r.col.All() {
		if u.Phone == phone && u.Password == password && u.Type == t {
			return u, true
		}
	}
	return domain.User{}, false
}
