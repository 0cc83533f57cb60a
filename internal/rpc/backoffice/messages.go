package backoffice

import (
	"time"

	"github.com/shopspring/decimal"

	"syntra-backoffice/internal/ledger"
	"syntra-backoffice/internal/validation"
)

// -- Shared --

type IDRequest struct {
	ID int64 `json:"id"`
}

type DeleteResponse struct {
	ID int64 `json:"id"`
}

type Pagination struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

type PageInfo struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
	Total    int64 `json:"total"`
}

// FileResponse is a generated document served as a download.
type FileResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

// -- Users and branches --

type Branch struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID        int64      `json:"id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	BranchIDs []int64    `json:"branch_ids"`
	CreatedAt time.Time  `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

type CreateUserRequest struct {
	validation.NewUserForm
	BranchIDs []int64 `json:"branch_ids"`
}

type UpdateUserRequest struct {
	ID int64 `json:"id"`
	validation.UserForm
	IsActive *bool `json:"is_active,omitempty"`
	// Password is changed only when non-empty.
	Password string `json:"password,omitempty"`
}

type UserResponse struct {
	User *User `json:"user"`
}

type ListUsersRequest struct {
	Role   string `json:"role,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type SetUserBranchesRequest struct {
	UserID    int64   `json:"user_id"`
	BranchIDs []int64 `json:"branch_ids"`
}

type CreateBranchRequest struct {
	validation.BranchForm
}

type BranchResponse struct {
	Branch *Branch `json:"branch"`
}

type ListBranchesRequest struct{}

type ListBranchesResponse struct {
	Branches []*Branch `json:"branches"`
}

// -- Customers --

type Customer struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	TaxID          string          `json:"tax_id"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type CreateCustomerRequest struct {
	validation.CustomerForm
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

type UpdateCustomerRequest struct {
	ID int64 `json:"id"`
	validation.CustomerForm
	CreditLimit decimal.Decimal `json:"credit_limit"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

type CustomerResponse struct {
	Customer *Customer `json:"customer"`
}

type ListCustomersRequest struct {
	Search     string     `json:"search,omitempty"`
	Active     *bool      `json:"active,omitempty"`
	Pagination Pagination `json:"pagination"`
}

type ListCustomersResponse struct {
	Customers []*Customer `json:"customers"`
	PageInfo  PageInfo    `json:"page_info"`
}

type ExportCustomersRequest struct {
	Search string `json:"search,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

type Payment struct {
	ID             int64           `json:"id"`
	CustomerID     int64           `json:"customer_id"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	Notes          string          `json:"notes"`
	RecordedBy     int64           `json:"recorded_by"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type RecordPaymentRequest struct {
	CustomerID     int64           `json:"customer_id"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	Notes          string          `json:"notes"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

type RecordPaymentResponse struct {
	Payment  *Payment  `json:"payment"`
	Customer *Customer `json:"customer"`
	// Replayed is set when the idempotency key matched an earlier payment.
	Replayed bool `json:"replayed"`
}

type CustomerLedgerResponse struct {
	Customer       *Customer       `json:"customer"`
	Entries        []ledger.Entry  `json:"entries"`
	DerivedBalance decimal.Decimal `json:"derived_balance"`
	Consistent     bool            `json:"consistent"`
}

// -- Suppliers --

type Supplier struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	TaxID       string    `json:"tax_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateSupplierRequest struct {
	validation.SupplierForm
}

type UpdateSupplierRequest struct {
	ID int64 `json:"id"`
	validation.SupplierForm
	IsActive *bool `json:"is_active,omitempty"`
}

type SupplierResponse struct {
	Supplier *Supplier `json:"supplier"`
}

type ListSuppliersRequest struct {
	Search     string     `json:"search,omitempty"`
	Active     *bool      `json:"active,omitempty"`
	Pagination Pagination `json:"pagination"`
}

type ListSuppliersResponse struct {
	Suppliers []*Supplier `json:"suppliers"`
	PageInfo  PageInfo    `json:"page_info"`
}

// -- Products --

type Product struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	UnitsPerPack int32           `json:"units_per_pack"`
	Stock        decimal.Decimal `json:"stock"`
	IsActive     bool            `json:"is_active"`
}

type CreateProductRequest struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	UnitsPerPack int32           `json:"units_per_pack"`
	Stock        decimal.Decimal `json:"stock"`
}

type ProductResponse struct {
	Product *Product `json:"product"`
}

type ListProductsRequest struct {
	Search     string     `json:"search,omitempty"`
	Active     *bool      `json:"active,omitempty"`
	Pagination Pagination `json:"pagination"`
}

type ListProductsResponse struct {
	Products []*Product `json:"products"`
	PageInfo PageInfo   `json:"page_info"`
}

// -- Purchases --

type PurchaseItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Total       decimal.Decimal `json:"total"`
}

type Purchase struct {
	ID             int64           `json:"id"`
	DocumentNumber string          `json:"document_number"`
	SupplierID     int64           `json:"supplier_id"`
	SupplierName   string          `json:"supplier_name,omitempty"`
	BranchID       int64           `json:"branch_id"`
	CreatedBy      int64           `json:"created_by"`
	Total          decimal.Decimal `json:"total"`
	Notes          string          `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []*PurchaseItem `json:"items,omitempty"`
}

// PurchaseLine is one submitted line. With ByPack set, Quantity counts packs
// and UnitCost is the cost of a pack; both are converted to units on submit.
type PurchaseLine struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	ByPack    bool            `json:"by_pack"`
}

type CreatePurchaseRequest struct {
	SupplierID int64          `json:"supplier_id"`
	BranchID   int64          `json:"branch_id"`
	Notes      string         `json:"notes"`
	Items      []PurchaseLine `json:"items"`
}

type PurchaseResponse struct {
	Purchase *Purchase `json:"purchase"`
}

type ListPurchasesRequest struct {
	BranchID   int64      `json:"branch_id,omitempty"`
	SupplierID int64      `json:"supplier_id,omitempty"`
	Pagination Pagination `json:"pagination"`
}

type ListPurchasesResponse struct {
	Purchases []*Purchase `json:"purchases"`
	PageInfo  PageInfo    `json:"page_info"`
}

// -- Quotations and sales --

type QuotationItem struct {
	ProductID   *int64          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type Quotation struct {
	ID             int64            `json:"id"`
	DocumentNumber string           `json:"document_number"`
	CustomerID     int64            `json:"customer_id"`
	CustomerName   string           `json:"customer_name,omitempty"`
	BranchID       int64            `json:"branch_id"`
	BranchName     string           `json:"branch_name,omitempty"`
	CreatedBy      int64            `json:"created_by"`
	Subtotal       decimal.Decimal  `json:"subtotal"`
	Discount       decimal.Decimal  `json:"discount"`
	Tax            decimal.Decimal  `json:"tax"`
	Total          decimal.Decimal  `json:"total"`
	ValidUntil     *time.Time       `json:"valid_until,omitempty"`
	Status         string           `json:"status"`
	SaleID         *int64           `json:"sale_id,omitempty"`
	VoidReason     string           `json:"void_reason,omitempty"`
	Notes          string           `json:"notes"`
	CreatedAt      time.Time        `json:"created_at"`
	Items          []*QuotationItem `json:"items,omitempty"`
}

// QuotationLine is one submitted line. A line may reference a product or be
// free text; Description defaults to the product name.
type QuotationLine struct {
	ProductID   *int64          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type CreateQuotationRequest struct {
	CustomerID int64           `json:"customer_id"`
	BranchID   int64           `json:"branch_id"`
	Discount   decimal.Decimal `json:"discount"`
	Tax        decimal.Decimal `json:"tax"`
	ValidUntil *time.Time      `json:"valid_until,omitempty"`
	Notes      string          `json:"notes"`
	Items      []QuotationLine `json:"items"`
}

type QuotationResponse struct {
	Quotation *Quotation `json:"quotation"`
}

type ListQuotationsRequest struct {
	BranchID   int64      `json:"branch_id,omitempty"`
	CustomerID int64      `json:"customer_id,omitempty"`
	Status     string     `json:"status,omitempty"`
	Pagination Pagination `json:"pagination"`
}

type ListQuotationsResponse struct {
	Quotations []*Quotation `json:"quotations"`
	PageInfo   PageInfo     `json:"page_info"`
}

type ConvertQuotationRequest struct {
	ID            int64  `json:"id"`
	PaymentMethod string `json:"payment_method"`
}

type SaleItem struct {
	ProductID   *int64          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type Sale struct {
	ID             int64           `json:"id"`
	DocumentNumber string          `json:"document_number"`
	CustomerID     *int64          `json:"customer_id,omitempty"`
	BranchID       int64           `json:"branch_id"`
	CashierID      int64           `json:"cashier_id"`
	QuotationID    *int64          `json:"quotation_id,omitempty"`
	PaymentMethod  string          `json:"payment_method"`
	IsCredit       bool            `json:"is_credit"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []*SaleItem     `json:"items,omitempty"`
}

type ConvertQuotationResponse struct {
	Quotation *Quotation `json:"quotation"`
	Sale      *Sale      `json:"sale"`
}

type VoidQuotationRequest struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}
