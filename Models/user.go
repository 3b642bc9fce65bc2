package Models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Permission levels
const (
	PermissionCustomer = 1
	PermissionStaff    = 2
	PermissionAdmin    = 3
)

// User represents an account that can log in to the site or the admin panel
type User struct {
	gorm.Model
	Username    string `json:"username" gorm:"uniqueIndex;size:150"`
	Email       string `json:"email" gorm:"uniqueIndex;size:254"`
	FirstName   string `json:"first_name" gorm:"size:100"`
	LastName    string `json:"last_name" gorm:"size:100"`
	Password    []byte `json:"-"`
	Permission  int    `json:"permission" gorm:"default:1"`
	Phone       string `json:"phone" gorm:"size:15"`
	Address     string `json:"address"`
	IsDisabled  bool   `json:"is_disabled" gorm:"default:false"`
	LastLoginIP string `json:"last_login_ip" gorm:"size:45"`
}

// SetPassword hashes and stores the given plain-text password
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// CheckPassword compares a plain-text password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(u.Password, []byte(password)) == nil
}

// IsAdmin reports whether the user can access the admin panel
func (u *User) IsAdmin() bool {
	return u.Permission >= PermissionStaff
}
