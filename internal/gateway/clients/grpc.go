package clients

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	pb "syntra-backoffice/internal/rpc/backoffice"
)

type GRPCClients struct {
	BackOffice pb.BackOfficeClient
	Health     healthpb.HealthClient
	conn       *grpc.ClientConn
}

// NewGRPCClients prepares the connection to the back-office service. The
// connection is lazy, so an unreachable service shows up in health checks and
// as Unavailable on calls rather than here.
func NewGRPCClients(target string) (*GRPCClients, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("backoffice service connection failed: %w", err)
	}

	log.Printf("gRPC client ready for back-office service at %s", target)
	return &GRPCClients{
		BackOffice: pb.NewBackOfficeClient(conn),
		Health:     healthpb.NewHealthClient(conn),
		conn:       conn,
	}, nil
}

func (c *GRPCClients) IsBackOfficeHealthy(ctx context.Context) bool {
	if c == nil || c.Health == nil {
		return false
	}
	resp, err := c.Health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.ServiceName})
	if err != nil {
		return false
	}
	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
}

func (c *GRPCClients) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
