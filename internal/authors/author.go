package authors

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrAuthorNotFound = errors.New("author not found")
	ErrUserNameTaken  = errors.New("author user name taken")
)

type Author struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
}

func (a *Author) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.UserName, validation.Required, validation.Length(1, 64)),
		validation.Field(&a.FirstName, validation.Length(0, 128)),
		validation.Field(&a.LastName, validation.Length(0, 128)),
	)
}
