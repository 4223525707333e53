package conf

import "time"

// Bootstrap is the root configuration of the service.
type Bootstrap struct {
	Server *Server
	Data   *Data
	Broker *Broker
	Stats  *Stats
	Log    *Log
}

// Server holds transport settings.
type Server struct {
	HTTP *ServerHTTP
	GRPC *ServerGRPC
}

// ServerHTTP configures the HTTP server.
type ServerHTTP struct {
	Network string
	Addr    string
	Timeout time.Duration
}

// ServerGRPC configures the gRPC server.
type ServerGRPC struct {
	Network string
	Addr    string
	Timeout time.Duration
}

// Data holds storage settings.
type Data struct {
	Database *Database
	Redis    *Redis
}

// Database configures the MySQL connection used for audit persistence.
// An empty Source disables persistence.
type Database struct {
	Driver string
	Source string
}

// Redis configures the Redis connection used for gateway stats snapshots.
type Redis struct {
	Network      string
	Addr         string
	Password     string
	DB           int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Broker configures the event gateway and its Kafka client.
type Broker struct {
	// Enabled selects the resilient gateway; false selects the disabled gateway.
	Enabled  bool
	Brokers  []string
	ClientID string

	FailureThreshold   int64
	ResetTimeout       time.Duration
	SummaryLogInterval time.Duration

	MaxBufferedRecords int
	ProduceLinger      time.Duration
	// Compression is one of none, gzip, snappy, lz4, zstd.
	Compression string
	// DeliveryTimeout bounds client retries so an outage surfaces as failed records.
	DeliveryTimeout time.Duration
	FlushTimeout    time.Duration
}

// Stats configures the periodic gateway stats snapshot.
type Stats struct {
	Enabled   bool
	Schedule  string
	TTL       time.Duration
	KeyPrefix string
}

// Log configures the zap logger.
type Log struct {
	Level      string
	Format     string
	Env        string
	OutputFile string
}
