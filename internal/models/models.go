package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	Email        string `gorm:"index"                    json:"email"`
	PasswordHash string `json:"-"`
	GoogleID     string `json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"       json:"id"`
	Token     string `gorm:"unique;not null"  json:"token"`
	UserID    uint   `gorm:"index;not null"   json:"user_id"`
	ExpiresAt int64  `gorm:"not null"         json:"expires_at"`
	Revoked   bool   `gorm:"default:false"    json:"revoked"`
}

const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"unique;not null"          json:"name"`
	Description string `json:"description"`
}

type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"not null"                 json:"name"`
	Description   string    `json:"description"`
	Price         float64   `gorm:"not null"                 json:"price"`
	CostPrice     float64   `json:"cost_price"`
	Stock         int       `gorm:"not null;default:0"       json:"stock"`
	Image         string    `json:"image"`
	Status        string    `gorm:"not null;default:active"  json:"status"`
	CategoryID    *uint     `gorm:"index"                    json:"category_id"`
	AverageRating float64   `gorm:"not null;default:0"       json:"average_rating"`
	TotalReviews  int       `gorm:"not null;default:0"       json:"total_reviews"`
	Reviews       []Review  `gorm:"constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Rating    int       `gorm:"not null"       json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                  json:"id"`
	UserID    uint `gorm:"index;not null"              json:"user_id"`
	ProductID uint `gorm:"not null"                    json:"product_id"`
	Quantity  int  `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

type WishlistItem struct {
	ID        uint `gorm:"primaryKey"     json:"id"`
	UserID    uint `gorm:"index;not null" json:"user_id"`
	ProductID uint `gorm:"not null"       json:"product_id"`
}

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
	PaymentMethodCOD  = "cod"
)

const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// OrderItem is a snapshot of the product at order time, so later product
// edits never alter historical orders.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"     json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"not null"       json:"product_id"`
	Name      string  `gorm:"not null"       json:"name"`
	Price     float64 `gorm:"not null"       json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `gorm:"not null;check:quantity>0" json:"quantity"`
}

type Order struct {
	ID            uint        `gorm:"primaryKey"        json:"id"`
	OrderNumber   string      `gorm:"unique;not null"   json:"order_number"`
	UserID        uint        `gorm:"index;not null"    json:"user_id"`
	Items         []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount   float64     `gorm:"not null"          json:"total_amount"`
	PaymentMethod string      `gorm:"not null"          json:"payment_method"`
	PaymentStatus string      `gorm:"not null;default:unpaid" json:"payment_status"`
	Status        string      `gorm:"not null"          json:"status"`
	SupplierID    *uint       `gorm:"index"             json:"supplier_id"`

	// billing snapshot captured at checkout
	BillingName    string `json:"billing_name"`
	BillingPhone   string `json:"billing_phone"`
	BillingLine1   string `json:"billing_line1"`
	BillingLine2   string `json:"billing_line2"`
	BillingCity    string `json:"billing_city"`
	BillingPincode string `json:"billing_pincode"`

	CreatedAt   time.Time  `json:"created_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

const (
	RevenuePending     = "Pending"
	RevenueCollected   = "Collected"
	RevenuePaidToAdmin = "PaidToAdmin"
)

type Revenue struct {
	ID            uint      `gorm:"primaryKey"               json:"id"`
	OrderID       uint      `gorm:"uniqueIndex;not null"     json:"order_id"`
	Order         *Order    `json:"order,omitempty"`
	SupplierID    uint      `gorm:"index;not null"           json:"supplier_id"`
	Supplier      *Supplier `json:"supplier,omitempty"`
	TotalAmount   float64   `gorm:"not null"                 json:"total_amount"`
	PaymentStatus string    `gorm:"not null;default:Pending" json:"payment_status"`
	Collected     bool      `gorm:"default:false"            json:"collected"`
	PaidToAdmin   bool      `gorm:"default:false"            json:"paid_to_admin"`
	CreatedAt     time.Time `json:"created_at"`
}

type Supplier struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"not null"                 json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Designer struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string `gorm:"not null"                 json:"name"`
	Bio        string `json:"bio"`
	Speciality string `json:"speciality"`
	Portfolio  string `json:"portfolio"`
}
