package backoffice

import (
	"context"

	"google.golang.org/grpc"

	"syntra-backoffice/internal/session"
)

type BackOfficeClient interface {
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*UserResponse, error)
	UpdateUser(ctx context.Context, in *UpdateUserRequest, opts ...grpc.CallOption) (*UserResponse, error)
	ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error)
	SetUserBranches(ctx context.Context, in *SetUserBranchesRequest, opts ...grpc.CallOption) (*UserResponse, error)

	CreateBranch(ctx context.Context, in *CreateBranchRequest, opts ...grpc.CallOption) (*BranchResponse, error)
	ListBranches(ctx context.Context, in *ListBranchesRequest, opts ...grpc.CallOption) (*ListBranchesResponse, error)

	CreateCustomer(ctx context.Context, in *CreateCustomerRequest, opts ...grpc.CallOption) (*CustomerResponse, error)
	UpdateCustomer(ctx context.Context, in *UpdateCustomerRequest, opts ...grpc.CallOption) (*CustomerResponse, error)
	GetCustomer(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*CustomerResponse, error)
	ListCustomers(ctx context.Context, in *ListCustomersRequest, opts ...grpc.CallOption) (*ListCustomersResponse, error)
	DeleteCustomer(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*DeleteResponse, error)
	ExportCustomers(ctx context.Context, in *ExportCustomersRequest, opts ...grpc.CallOption) (*FileResponse, error)
	RecordPayment(ctx context.Context, in *RecordPaymentRequest, opts ...grpc.CallOption) (*RecordPaymentResponse, error)
	GetCustomerLedger(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*CustomerLedgerResponse, error)

	CreateSupplier(ctx context.Context, in *CreateSupplierRequest, opts ...grpc.CallOption) (*SupplierResponse, error)
	UpdateSupplier(ctx context.Context, in *UpdateSupplierRequest, opts ...grpc.CallOption) (*SupplierResponse, error)
	GetSupplier(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*SupplierResponse, error)
	ListSuppliers(ctx context.Context, in *ListSuppliersRequest, opts ...grpc.CallOption) (*ListSuppliersResponse, error)
	DeleteSupplier(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*DeleteResponse, error)

	CreateProduct(ctx context.Context, in *CreateProductRequest, opts ...grpc.CallOption) (*ProductResponse, error)
	ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error)

	CreatePurchase(ctx context.Context, in *CreatePurchaseRequest, opts ...grpc.CallOption) (*PurchaseResponse, error)
	GetPurchase(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*PurchaseResponse, error)
	ListPurchases(ctx context.Context, in *ListPurchasesRequest, opts ...grpc.CallOption) (*ListPurchasesResponse, error)

	CreateQuotation(ctx context.Context, in *CreateQuotationRequest, opts ...grpc.CallOption) (*QuotationResponse, error)
	GetQuotation(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*QuotationResponse, error)
	ListQuotations(ctx context.Context, in *ListQuotationsRequest, opts ...grpc.CallOption) (*ListQuotationsResponse, error)
	ConvertQuotation(ctx context.Context, in *ConvertQuotationRequest, opts ...grpc.CallOption) (*ConvertQuotationResponse, error)
	VoidQuotation(ctx context.Context, in *VoidQuotationRequest, opts ...grpc.CallOption) (*QuotationResponse, error)
	RenderQuotation(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*FileResponse, error)
}

type backOfficeClient struct {
	cc grpc.ClientConnInterface
}

// NewBackOfficeClient returns a client whose calls use the JSON codec and
// forward the session found in the call context.
func NewBackOfficeClient(cc grpc.ClientConnInterface) BackOfficeClient {
	return &backOfficeClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(session.AppendToOutgoing(ctx), fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *backOfficeClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, "Login", in, opts)
}

func (c *backOfficeClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, "CreateUser", in, opts)
}

func (c *backOfficeClient) UpdateUser(ctx context.Context, in *UpdateUserRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, "UpdateUser", in, opts)
}

func (c *backOfficeClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	return invoke[ListUsersResponse](ctx, c.cc, "ListUsers", in, opts)
}

func (c *backOfficeClient) SetUserBranches(ctx context.Context, in *SetUserBranchesRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, "SetUserBranches", in, opts)
}

func (c *backOfficeClient) CreateBranch(ctx context.Context, in *CreateBranchRequest, opts ...grpc.CallOption) (*BranchResponse, error) {
	return invoke[BranchResponse](ctx, c.cc, "CreateBranch", in, opts)
}

func (c *backOfficeClient) ListBranches(ctx context.Context, in *ListBranchesRequest, opts ...grpc.CallOption) (*ListBranchesResponse, error) {
	return invoke[ListBranchesResponse](ctx, c.cc, "ListBranches", in, opts)
}

func (c *backOfficeClient) CreateCustomer(ctx context.Context, in *CreateCustomerRequest, opts ...grpc.CallOption) (*CustomerResponse, error) {
	return invoke[CustomerResponse](ctx, c.cc, "CreateCustomer", in, opts)
}

func (c *backOfficeClient) UpdateCustomer(ctx context.Context, in *UpdateCustomerRequest, opts ...grpc.CallOption) (*CustomerResponse, error) {
	return invoke[CustomerResponse](ctx, c.cc, "UpdateCustomer", in, opts)
}

func (c *backOfficeClient) GetCustomer(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*CustomerResponse, error) {
	return invoke[CustomerResponse](ctx, c.cc, "GetCustomer", in, opts)
}

func (c *backOfficeClient) ListCustomers(ctx context.Context, in *ListCustomersRequest, opts ...grpc.CallOption) (*ListCustomersResponse, error) {
	return invoke[ListCustomersResponse](ctx, c.cc, "ListCustomers", in, opts)
}

func (c *backOfficeClient) DeleteCustomer(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteResponse](ctx, c.cc, "DeleteCustomer", in, opts)
}

func (c *backOfficeClient) ExportCustomers(ctx context.Context, in *ExportCustomersRequest, opts ...grpc.CallOption) (*FileResponse, error) {
	return invoke[FileResponse](ctx, c.cc, "ExportCustomers", in, opts)
}

func (c *backOfficeClient) RecordPayment(ctx context.Context, in *RecordPaymentRequest, opts ...grpc.CallOption) (*RecordPaymentResponse, error) {
	return invoke[RecordPaymentResponse](ctx, c.cc, "RecordPayment", in, opts)
}

func (c *backOfficeClient) GetCustomerLedger(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*CustomerLedgerResponse, error) {
	return invoke[CustomerLedgerResponse](ctx, c.cc, "GetCustomerLedger", in, opts)
}

func (c *backOfficeClient) CreateSupplier(ctx context.Context, in *CreateSupplierRequest, opts ...grpc.CallOption) (*SupplierResponse, error) {
	return invoke[SupplierResponse](ctx, c.cc, "CreateSupplier", in, opts)
}

func (c *backOfficeClient) UpdateSupplier(ctx context.Context, in *UpdateSupplierRequest, opts ...grpc.CallOption) (*SupplierResponse, error) {
	return invoke[SupplierResponse](ctx, c.cc, "UpdateSupplier", in, opts)
}

func (c *backOfficeClient) GetSupplier(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*SupplierResponse, error) {
	return invoke[SupplierResponse](ctx, c.cc, "GetSupplier", in, opts)
}

func (c *backOfficeClient) ListSuppliers(ctx context.Context, in *ListSuppliersRequest, opts ...grpc.CallOption) (*ListSuppliersResponse, error) {
	return invoke[ListSuppliersResponse](ctx, c.cc, "ListSuppliers", in, opts)
}

func (c *backOfficeClient) DeleteSupplier(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteResponse](ctx, c.cc, "DeleteSupplier", in, opts)
}

func (c *backOfficeClient) CreateProduct(ctx context.Context, in *CreateProductRequest, opts ...grpc.CallOption) (*ProductResponse, error) {
	return invoke[ProductResponse](ctx, c.cc, "CreateProduct", in, opts)
}

func (c *backOfficeClient) ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error) {
	return invoke[ListProductsResponse](ctx, c.cc, "ListProducts", in, opts)
}

func (c *backOfficeClient) CreatePurchase(ctx context.Context, in *CreatePurchaseRequest, opts ...grpc.CallOption) (*PurchaseResponse, error) {
	return invoke[PurchaseResponse](ctx, c.cc, "CreatePurchase", in, opts)
}

func (c *backOfficeClient) GetPurchase(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*PurchaseResponse, error) {
	return invoke[PurchaseResponse](ctx, c.cc, "GetPurchase", in, opts)
}

func (c *backOfficeClient) ListPurchases(ctx context.Context, in *ListPurchasesRequest, opts ...grpc.CallOption) (*ListPurchasesResponse, error) {
	return invoke[ListPurchasesResponse](ctx, c.cc, "ListPurchases", in, opts)
}

func (c *backOfficeClient) CreateQuotation(ctx context.Context, in *CreateQuotationRequest, opts ...grpc.CallOption) (*QuotationResponse, error) {
	return invoke[QuotationResponse](ctx, c.cc, "CreateQuotation", in, opts)
}

func (c *backOfficeClient) GetQuotation(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*QuotationResponse, error) {
	return invoke[QuotationResponse](ctx, c.cc, "GetQuotation", in, opts)
}

func (c *backOfficeClient) ListQuotations(ctx context.Context, in *ListQuotationsRequest, opts ...grpc.CallOption) (*ListQuotationsResponse, error) {
	return invoke[ListQuotationsResponse](ctx, c.cc, "ListQuotations", in, opts)
}

func (c *backOfficeClient) ConvertQuotation(ctx context.Context, in *ConvertQuotationRequest, opts ...grpc.CallOption) (*ConvertQuotationResponse, error) {
	return invoke[ConvertQuotationResponse](ctx, c.cc, "ConvertQuotation", in, opts)
}

func (c *backOfficeClient) VoidQuotation(ctx context.Context, in *VoidQuotationRequest, opts ...grpc.CallOption) (*QuotationResponse, error) {
	return invoke[QuotationResponse](ctx, c.cc, "VoidQuotation", in, opts)
}

func (c *backOfficeClient) RenderQuotation(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*FileResponse, error) {
	return invoke[FileResponse](ctx, c.cc, "RenderQuotation", in, opts)
}
