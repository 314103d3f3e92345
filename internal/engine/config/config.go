package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"github.com/questforge/questforge-backend/pkg/env"
)

type Config struct {
	devMode bool

	serverPort string

	databaseHost     string
	databasePort     string
	databaseKeyspace string

	redisAddr string

	chainRPCURL     string
	vendorContract  string
	easEnabled      bool
	attestationURL  string
	attestationScan string
}

var cfg Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		// Not fatal: env vars may come from the environment directly
		fmt.Println("No .env file found, using environment variables")
	}

	cfg = Config{
		devMode:          env.GetEnvBool("DEV_MODE", false),
		serverPort:       env.GetEnvString("SERVER_PORT", "9007"),
		databaseHost:     env.GetEnvString("DATABASE_HOST", "localhost"),
		databasePort:     env.GetEnvString("DATABASE_PORT", "9042"),
		databaseKeyspace: env.GetEnvString("DATABASE_KEYSPACE", "questforge"),
		redisAddr:        env.GetEnvString("REDIS_ADDR", ""),
		chainRPCURL:      env.GetEnvString("CHAIN_RPC_URL", ""),
		vendorContract:   env.GetEnvString("VENDOR_CONTRACT_ADDRESS", ""),
		easEnabled:       env.GetEnvBool("EAS_ENABLED", false),
		attestationURL:   env.GetEnvString("ATTESTATION_RELAYER_URL", ""),
		attestationScan:  env.GetEnvString("EAS_SCAN_URL", "https://base.easscan.org"),
	}

	if cfg.chainRPCURL == "" {
		return fmt.Errorf("CHAIN_RPC_URL is required")
	}
	if !common.IsHexAddress(cfg.vendorContract) {
		return fmt.Errorf("VENDOR_CONTRACT_ADDRESS is missing or not a valid address")
	}
	if cfg.easEnabled && cfg.attestationURL == "" {
		return fmt.Errorf("ATTESTATION_RELAYER_URL is required when EAS_ENABLED is true")
	}

	return nil
}

func IsDevMode() bool             { return cfg.devMode }
func GetServerPort() string       { return cfg.serverPort }
func GetDatabaseHost() string     { return cfg.databaseHost }
func GetDatabasePort() string     { return cfg.databasePort }
func GetDatabaseKeyspace() string { return cfg.databaseKeyspace }
func GetRedisAddr() string        { return cfg.redisAddr }
func GetChainRPCURL() string      { return cfg.chainRPCURL }
func GetVendorContract() string   { return cfg.vendorContract }
func IsEASEnabled() bool          { return cfg.easEnabled }
func GetAttestationURL() string   { return cfg.attestationURL }
func GetEASScanURL() string       { return cfg.attestationScan }
