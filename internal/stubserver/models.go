package stubserver

import "time"

type ProductRecord struct {
	ID          string  `gorm:"primaryKey;size:64;not null"`
	Name        string  `gorm:"size:128;not null"`
	Description string  `gorm:"size:512"`
	Price       float64 `gorm:"not null"`
	SVGImage    string
}

type OTPChallenge struct {
	ID        uint   `gorm:"primaryKey"`
	Phone     string `gorm:"size:32;index;not null"`
	Code      string `gorm:"size:8;not null"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

type OrderRecord struct {
	OrderID       string `gorm:"primaryKey;size:64;not null"`
	Phone         string `gorm:"size:32;index;not null"` // owner
	Name          string `gorm:"size:128"`
	Address       string `gorm:"size:512"`
	MobileNumber  string `gorm:"size:32"`
	PaymentMethod string `gorm:"size:32"`
	Total         float64
	Status        int `gorm:"index"`
	CreatedAt     time.Time
}

type OrderItemRecord struct {
	ID uint `gorm:"primaryKey"`
	// FK -> order_records.order_id
	OrderID   string `gorm:"size:64;index;not null"`
	ProductID string `gorm:"size:64;not null"`
	Quantity  int    `gorm:"not null"`
	Price     float64
}

type ProfileRecord struct {
	Phone       string `gorm:"primaryKey;size:32;not null"`
	FirstName   string `gorm:"size:64"`
	LastName    string `gorm:"size:64"`
	Email       string `gorm:"size:128"`
	DateOfBirth string `gorm:"size:16"`
	Gender      string `gorm:"size:16"`
	UpdatedAt   time.Time
}

type AddressRecord struct {
	ID        string `gorm:"primaryKey;size:64;not null"`
	Phone     string `gorm:"size:32;index;not null"` // owner
	Street    string `gorm:"size:256"`
	City      string `gorm:"size:64"`
	State     string `gorm:"size:64"`
	ZipCode   string `gorm:"size:16"`
	Country   string `gorm:"size:64"`
	Label     string `gorm:"size:32"`
	IsDefault bool
	CreatedAt time.Time
}
