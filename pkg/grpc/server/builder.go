package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const defaultPort = 50051

type Option func(*Options)

type Options struct {
	port              int
	listener          net.Listener
	logger            *zap.Logger
	reflection        bool
	enableLogging     bool
	unaryInterceptors []grpc.UnaryServerInterceptor
}

// WithPort sets the TCP port. Port 0 picks a free port.
func WithPort(port int) Option {
	return func(o *Options) {
		o.port = port
	}
}

// WithListener serves on lis instead of opening a TCP port; WithPort is
// then ignored.
func WithListener(lis net.Listener) Option {
	return func(o *Options) {
		o.listener = lis
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

func WithReflection(enabled bool) Option {
	return func(o *Options) {
		o.reflection = enabled
	}
}

// WithLogging puts LoggingInterceptor first in the chain.
func WithLogging(enabled bool) Option {
	return func(o *Options) {
		o.enableLogging = enabled
	}
}

// WithUnaryInterceptors appends interceptors that run after the logging
// interceptor, so LoggerFromContext already resolves inside them.
func WithUnaryInterceptors(interceptors ...grpc.UnaryServerInterceptor) Option {
	return func(o *Options) {
		o.unaryInterceptors = append(o.unaryInterceptors, interceptors...)
	}
}

// Server wraps a grpc.Server with the standard health service. Every service
// registered through RegisterServiceWithHealth reports SERVING until
// Shutdown.
type Server struct {
	grpcServer   *grpc.Server
	lis          net.Listener
	logger       *zap.Logger
	healthServer *health.Server

	mu       sync.Mutex
	services []string
}

func (o *Options) listen() (net.Listener, error) {
	if o.listener != nil {
		return o.listener, nil
	}
	if o.port < 0 || o.port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 0 and 65535", o.port)
	}
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", o.port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", o.port, err)
	}
	return lis, nil
}

func (o *Options) serverOptions() []grpc.ServerOption {
	var chain []grpc.UnaryServerInterceptor
	if o.enableLogging {
		chain = append(chain, LoggingInterceptor(o.logger))
	}
	chain = append(chain, o.unaryInterceptors...)
	if len(chain) == 0 {
		return nil
	}
	return []grpc.ServerOption{grpc.ChainUnaryInterceptor(chain...)}
}

// New builds the server and binds its listener. Serving starts with Start.
func New(opts ...Option) (*Server, error) {
	options := &Options{port: defaultPort}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = zap.NewNop()
	}

	lis, err := options.listen()
	if err != nil {
		return nil, err
	}

	grpcServer := grpc.NewServer(options.serverOptions()...)
	if options.reflection {
		reflection.Register(grpcServer)
	}

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	return &Server{
		grpcServer:   grpcServer,
		lis:          lis,
		logger:       options.logger.Named("grpc-server"),
		healthServer: healthServer,
	}, nil
}

// RegisterService registers a service without a named health entry.
func (s *Server) RegisterService(registerFunc func(s *grpc.Server)) {
	registerFunc(s.grpcServer)
}

// RegisterServiceWithHealth registers a service and reports it as SERVING.
func (s *Server) RegisterServiceWithHealth(serviceName string, registerFunc func(s *grpc.Server)) {
	registerFunc(s.grpcServer)
	if serviceName == "" {
		return
	}

	s.mu.Lock()
	s.services = append(s.services, serviceName)
	s.mu.Unlock()

	s.healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	s.logger.Info("registered service with health check", zap.String("service", serviceName))
}

// SetServiceHealth updates the health status of a specific service.
func (s *Server) SetServiceHealth(serviceName string, status healthpb.HealthCheckResponse_ServingStatus) {
	s.healthServer.SetServingStatus(serviceName, status)
	s.logger.Info("updated service health",
		zap.String("service", serviceName),
		zap.String("status", status.String()))
}

// Start serves in a goroutine and returns immediately.
func (s *Server) Start() {
	s.logger.Info("gRPC server starting", zap.String("addr", s.lis.Addr().String()))

	go func() {
		if err := s.grpcServer.Serve(s.lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.logger.Error("gRPC server failed", zap.Error(err))
		}
	}()
}

// Shutdown marks every service NOT_SERVING, then drains in-flight calls.
// When ctx expires first the remaining calls are cut off.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("gRPC server shutting down")

	s.mu.Lock()
	services := append([]string{""}, s.services...)
	s.mu.Unlock()
	for _, name := range services {
		s.healthServer.SetServingStatus(name, healthpb.HealthCheckResponse_NOT_SERVING)
	}

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("gRPC server stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("forced shutdown due to timeout")
		s.grpcServer.Stop()
		return ctx.Err()
	}
}

// Addr returns the server's listening address.
func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}
