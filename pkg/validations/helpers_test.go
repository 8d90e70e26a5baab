package validations_test

import (
	"context"
	"sync"

	"github.com/dmitrymomot/validations/pkg/validations"
)

type phone struct {
	validations.Validatable `json:"-"`

	ID        string
	Name      string
	PhoneType string `json:"phone_type"`
	Number    string
}

type account struct {
	validations.Validatable

	ID                   int
	Email                string `gorm:"column:email_address"`
	Password             string
	PasswordConfirmation string
	Age                  any
	Terms                any
	Tenant               string
}

func (a *account) AdultCheck() (bool, string) {
	n, _ := a.Age.(int)
	return n >= 18, "must be an adult"
}

func (a account) HasTenant() bool { return a.Tenant != "" }

func (a *account) TakesArgs(int) bool { return true }

// recorder is a Persister that records each call.
type recorder struct {
	mu    sync.Mutex
	calls []validations.Operation
	err   error
}

func (r *recorder) Persist(_ context.Context, op validations.Operation, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func phoneRegistry() *validations.Registry {
	reg := validations.NewRegistry()
	validations.Define[phone](reg).Add(
		validations.Presence("name"),
		validations.Within("phone_type", []string{"home", "mobile", "business"}, validations.AllowBlank(true)),
	)
	return reg
}
