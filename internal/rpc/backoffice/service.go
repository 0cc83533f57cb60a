package backoffice

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "backoffice.BackOfficeService"

// BackOfficeServer is implemented by the back-office service handler. Every
// method expects the caller's session in ctx, except Login.
type BackOfficeServer interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	CreateUser(context.Context, *CreateUserRequest) (*UserResponse, error)
	UpdateUser(context.Context, *UpdateUserRequest) (*UserResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	SetUserBranches(context.Context, *SetUserBranchesRequest) (*UserResponse, error)

	CreateBranch(context.Context, *CreateBranchRequest) (*BranchResponse, error)
	ListBranches(context.Context, *ListBranchesRequest) (*ListBranchesResponse, error)

	CreateCustomer(context.Context, *CreateCustomerRequest) (*CustomerResponse, error)
	UpdateCustomer(context.Context, *UpdateCustomerRequest) (*CustomerResponse, error)
	GetCustomer(context.Context, *IDRequest) (*CustomerResponse, error)
	ListCustomers(context.Context, *ListCustomersRequest) (*ListCustomersResponse, error)
	DeleteCustomer(context.Context, *IDRequest) (*DeleteResponse, error)
	ExportCustomers(context.Context, *ExportCustomersRequest) (*FileResponse, error)
	RecordPayment(context.Context, *RecordPaymentRequest) (*RecordPaymentResponse, error)
	GetCustomerLedger(context.Context, *IDRequest) (*CustomerLedgerResponse, error)

	CreateSupplier(context.Context, *CreateSupplierRequest) (*SupplierResponse, error)
	UpdateSupplier(context.Context, *UpdateSupplierRequest) (*SupplierResponse, error)
	GetSupplier(context.Context, *IDRequest) (*SupplierResponse, error)
	ListSuppliers(context.Context, *ListSuppliersRequest) (*ListSuppliersResponse, error)
	DeleteSupplier(context.Context, *IDRequest) (*DeleteResponse, error)

	CreateProduct(context.Context, *CreateProductRequest) (*ProductResponse, error)
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)

	CreatePurchase(context.Context, *CreatePurchaseRequest) (*PurchaseResponse, error)
	GetPurchase(context.Context, *IDRequest) (*PurchaseResponse, error)
	ListPurchases(context.Context, *ListPurchasesRequest) (*ListPurchasesResponse, error)

	CreateQuotation(context.Context, *CreateQuotationRequest) (*QuotationResponse, error)
	GetQuotation(context.Context, *IDRequest) (*QuotationResponse, error)
	ListQuotations(context.Context, *ListQuotationsRequest) (*ListQuotationsResponse, error)
	ConvertQuotation(context.Context, *ConvertQuotationRequest) (*ConvertQuotationResponse, error)
	VoidQuotation(context.Context, *VoidQuotationRequest) (*QuotationResponse, error)
	RenderQuotation(context.Context, *IDRequest) (*FileResponse, error)
}

func RegisterBackOfficeServer(s grpc.ServiceRegistrar, srv BackOfficeServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds the method descriptor for one server method, decoding the
// request and running it through the server's interceptor chain.
func unary[Req, Resp any](name string, call func(BackOfficeServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BackOfficeServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BackOfficeServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BackOfficeServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Login", BackOfficeServer.Login),
		unary("CreateUser", BackOfficeServer.CreateUser),
		unary("UpdateUser", BackOfficeServer.UpdateUser),
		unary("ListUsers", BackOfficeServer.ListUsers),
		unary("SetUserBranches", BackOfficeServer.SetUserBranches),

		unary("CreateBranch", BackOfficeServer.CreateBranch),
		unary("ListBranches", BackOfficeServer.ListBranches),

		unary("CreateCustomer", BackOfficeServer.CreateCustomer),
		unary("UpdateCustomer", BackOfficeServer.UpdateCustomer),
		unary("GetCustomer", BackOfficeServer.GetCustomer),
		unary("ListCustomers", BackOfficeServer.ListCustomers),
		unary("DeleteCustomer", BackOfficeServer.DeleteCustomer),
		unary("ExportCustomers", BackOfficeServer.ExportCustomers),
		unary("RecordPayment", BackOfficeServer.RecordPayment),
		unary("GetCustomerLedger", BackOfficeServer.GetCustomerLedger),

		unary("CreateSupplier", BackOfficeServer.CreateSupplier),
		unary("UpdateSupplier", BackOfficeServer.UpdateSupplier),
		unary("GetSupplier", BackOfficeServer.GetSupplier),
		unary("ListSuppliers", BackOfficeServer.ListSuppliers),
		unary("DeleteSupplier", BackOfficeServer.DeleteSupplier),

		unary("CreateProduct", BackOfficeServer.CreateProduct),
		unary("ListProducts", BackOfficeServer.ListProducts),

		unary("CreatePurchase", BackOfficeServer.CreatePurchase),
		unary("GetPurchase", BackOfficeServer.GetPurchase),
		unary("ListPurchases", BackOfficeServer.ListPurchases),

		unary("CreateQuotation", BackOfficeServer.CreateQuotation),
		unary("GetQuotation", BackOfficeServer.GetQuotation),
		unary("ListQuotations", BackOfficeServer.ListQuotations),
		unary("ConvertQuotation", BackOfficeServer.ConvertQuotation),
		unary("VoidQuotation", BackOfficeServer.VoidQuotation),
		unary("RenderQuotation", BackOfficeServer.RenderQuotation),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "backoffice.json",
}
