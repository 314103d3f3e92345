package database

import (
	"time"

	"github.com/gocql/gocql"
)

type Config struct {
	Hosts       []string
	Keyspace    string
	Consistency gocql.Consistency
	Timeout     time.Duration
	ConnectWait time.Duration
	Retries     int
}

// DefaultConfig returns a config suitable for a local single-node cluster
func DefaultConfig(hosts []string, keyspace string) *Config {
	return &Config{
		Hosts:       hosts,
		Keyspace:    keyspace,
		Consistency: gocql.Quorum,
		Timeout:     10 * time.Second,
		ConnectWait: 5 * time.Second,
		Retries:     3,
	}
}
