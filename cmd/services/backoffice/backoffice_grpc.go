package main

import (
	"log"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	rds "syntra-backoffice/config"
	"syntra-backoffice/internal/database"
	pb "syntra-backoffice/internal/rpc/backoffice"
	"syntra-backoffice/internal/services/backoffice/handler"
	"syntra-backoffice/internal/session"
	sysutils "syntra-backoffice/internal/utils"
)

func main() {
	cfg := rds.LoadConfig()
	sysutils.SetSecret(cfg.Auth.JWTSecret)

	redisClient := rds.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	db, err := database.NewConnection(cfg.DB.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate back-office database: %v", err)
	}

	lis, err := net.Listen("tcp", cfg.Service.GRPCAddr)
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	s := grpc.NewServer(grpc.UnaryInterceptor(session.UnaryServerInterceptor()))

	backOfficeHandler := handler.NewBackOfficeHandler(db, redisClient, cfg.Auth.TokenTTL)
	pb.RegisterBackOfficeServer(s, backOfficeHandler)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)

	reflection.Register(s)

	log.Printf("Back-office service listening on %s", cfg.Service.GRPCAddr)
	if err := s.Serve(lis); err != nil {
		log.Fatalf("Failed to serve: %v", err)
	}
}
