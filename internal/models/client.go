package models

// Client describes a registered company account. The three OTP columns are
// transient challenges: empty string means no challenge is pending.
type Client struct {
	BaseModel

	Name         string `gorm:"not null" json:"name"`
	PhoneNo      string `gorm:"uniqueIndex;not null" json:"phone_no"`
	CompanyName  string `gorm:"not null" json:"company_name"`
	CompanyEmail string `gorm:"uniqueIndex;not null" json:"company_email"`
	EmployeeSize int    `json:"employee_size"`

	Verified bool `gorm:"default:false" json:"verified"`

	EmailOTP  string `json:"-"`
	MobileOTP string `json:"-"`
	LoginOTP  string `json:"-"`
}
