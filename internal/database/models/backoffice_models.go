package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	QuotationPending   = "pending"
	QuotationConverted = "converted"
	QuotationVoided    = "voided"
)

const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentCredit   = "credit"
)

var PaymentMethods = []string{PaymentCash, PaymentCard, PaymentTransfer, PaymentCredit}

type Branch struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(128);not null"`
	Address   string `gorm:"type:text"`
	IsActive  bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is a back-office user. Branches is the set of locations the user
// may work on; administrators are not restricted by it.
type Profile struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	FullName     string `gorm:"type:varchar(128);not null"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(32);not null"`
	IsActive     bool   `gorm:"not null"`
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Branches []Branch `gorm:"many2many:profile_branches;"`
}

func (p Profile) BranchIDs() []int64 {
	ids := make([]int64, 0, len(p.Branches))
	for _, b := range p.Branches {
		ids = append(ids, b.ID)
	}
	return ids
}

type Customer struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	Name           string          `gorm:"type:varchar(128);not null;index"`
	Email          string          `gorm:"type:varchar(255)"`
	Phone          string          `gorm:"type:varchar(32)"`
	Address        string          `gorm:"type:text"`
	TaxID          string          `gorm:"type:varchar(32)"`
	CreditLimit    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CurrentBalance decimal.Decimal `gorm:"type:numeric(19,5);not null"`
	IsActive       bool            `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Supplier struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(128);not null;index"`
	ContactName string `gorm:"type:varchar(128)"`
	Email       string `gorm:"type:varchar(255)"`
	Phone       string `gorm:"type:varchar(32)"`
	Address     string `gorm:"type:text"`
	TaxID       string `gorm:"type:varchar(32)"`
	IsActive    bool   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	Code         string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	Name         string          `gorm:"type:varchar(128);not null"`
	SalePrice    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CostPrice    decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	UnitsPerPack int32           `gorm:"not null"`
	Stock        decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	IsActive     bool            `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Purchase struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	DocumentNumber string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	SupplierID     int64           `gorm:"index;not null"`
	BranchID       int64           `gorm:"index;not null"`
	CreatedBy      int64           `gorm:"not null"`
	Total          decimal.Decimal `gorm:"type:numeric(21,7);not null"`
	Notes          string          `gorm:"type:text"`
	CreatedAt      time.Time

	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID"`
	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
	Branch   *Branch        `gorm:"foreignKey:BranchID"`
}

// PurchaseItem quantities and costs are always per unit.
type PurchaseItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	PurchaseID int64           `gorm:"index;not null"`
	ProductID  int64           `gorm:"not null"`
	Quantity   decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	UnitCost   decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	Total      decimal.Decimal `gorm:"type:numeric(21,7);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

type Quotation struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	DocumentNumber string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerID     int64           `gorm:"index;not null"`
	BranchID       int64           `gorm:"index;not null"`
	CreatedBy      int64           `gorm:"not null"`
	Subtotal       decimal.Decimal `gorm:"type:numeric(19,5);not null"`
	Discount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Tax            decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Total          decimal.Decimal `gorm:"type:numeric(19,5);not null"`
	ValidUntil     *time.Time
	Status         string `gorm:"type:varchar(16);index;not null"`
	SaleID         *int64
	VoidReason     string `gorm:"type:text"`
	Notes          string `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items    []QuotationItem `gorm:"foreignKey:QuotationID"`
	Customer *Customer       `gorm:"foreignKey:CustomerID"`
	Branch   *Branch         `gorm:"foreignKey:BranchID"`
}

// QuotationItem.ProductID is nil for free-text lines.
type QuotationItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	QuotationID int64           `gorm:"index;not null"`
	ProductID   *int64
	Description string          `gorm:"type:varchar(255);not null"`
	Quantity    decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(19,5);not null"`
}

type Sale struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	DocumentNumber string `gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerID     *int64 `gorm:"index"`
	BranchID       int64  `gorm:"index;not null"`
	CashierID      int64  `gorm:"not null"`
	QuotationID    *int64 `gorm:"index"`
	PaymentMethod  string `gorm:"type:varchar(16);not null"`
	IsCredit       bool   `gorm:"not null"`

	Subtotal  decimal.Decimal `gorm:"type:numeric(19,5);not null"`
	Discount  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Tax       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Total     decimal.Decimal `gorm:"type:numeric(19,5);not null"`
	CreatedAt time.Time

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

type SaleItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	SaleID      int64           `gorm:"index;not null"`
	ProductID   *int64
	Description string          `gorm:"type:varchar(255);not null"`
	Quantity    decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(19,5);not null"`
}

type CustomerPayment struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	CustomerID     int64           `gorm:"not null;uniqueIndex:idx_payment_idempotency,priority:1"`
	Amount         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Method         string          `gorm:"type:varchar(16);not null"`
	Notes          string          `gorm:"type:text"`
	RecordedBy     int64           `gorm:"not null"`
	IdempotencyKey *string         `gorm:"type:varchar(64);uniqueIndex:idx_payment_idempotency,priority:2"`
	CreatedAt      time.Time
}
