package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Fabric     FabricConfig     `mapstructure:"fabric"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Output     OutputConfig     `mapstructure:"output"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Monitor    MonitorConfig    `mapstructure:"monitor"`
}

// PeerConfig is one endorsing peer endpoint, passed to the peer CLI via
// repeated --peerAddresses / --tlsRootCertFiles flags.
type PeerConfig struct {
	Address     string `mapstructure:"address"`
	TLSRootCert string `mapstructure:"tls_root_cert"`
}

type FabricConfig struct {
	Channel            string       `mapstructure:"channel"`
	Chaincode          string       `mapstructure:"chaincode"`
	OrdererAddress     string       `mapstructure:"orderer_address"`
	OrdererTLSHostname string       `mapstructure:"orderer_tls_hostname"`
	OrdererCAFile      string       `mapstructure:"orderer_ca_file"`
	Peers              []PeerConfig `mapstructure:"peers"`

	// Identity environment exported to the peer CLI process
	LocalMSPID      string `mapstructure:"local_msp_id"`
	MSPConfigPath   string `mapstructure:"msp_config_path"`
	PeerAddress     string `mapstructure:"peer_address"`
	PeerTLSRootCert string `mapstructure:"peer_tls_root_cert"`
	TLSEnabled      bool   `mapstructure:"tls_enabled"`

	InvokeTimeoutSeconds int     `mapstructure:"invoke_timeout_seconds"`
	InvokeQPS            float64 `mapstructure:"invoke_qps"` // 0 = unlimited
}

type SimulationConfig struct {
	Participants        int     `mapstructure:"participants"`
	Rounds              int     `mapstructure:"rounds"`
	DefaultProbability  float64 `mapstructure:"default_probability"`
	ReputationThreshold int     `mapstructure:"reputation_threshold"`
	MaxReputation       int     `mapstructure:"max_reputation"`
	SuccessReward       int     `mapstructure:"success_reward"`
	DefaultPenalty      int     `mapstructure:"default_penalty"`
	InitialBalance      int     `mapstructure:"initial_balance"`
	MinInitialRep       int     `mapstructure:"min_initial_reputation"`
	MaxInitialRep       int     `mapstructure:"max_initial_reputation"`
	MinQuantity         int     `mapstructure:"min_quantity"`
	MaxQuantity         int     `mapstructure:"max_quantity"`
	MinPrice            int     `mapstructure:"min_price"`
	MaxPrice            int     `mapstructure:"max_price"`
	Seed                int64   `mapstructure:"seed"` // 0 = time-seeded
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type MonitorConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    string `mapstructure:"port"`
	Path    string `mapstructure:"metrics_path"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	// Environment variables support
	// e.g. REPUTRADE_FABRIC_CHANNEL
	viper.SetEnvPrefix("reputrade")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults mirror the reference deployment on the Fabric test network
	viper.SetDefault("fabric.channel", "mychannel")
	viper.SetDefault("fabric.chaincode", "energyTrading")
	viper.SetDefault("fabric.orderer_address", "localhost:7050")
	viper.SetDefault("fabric.orderer_tls_hostname", "orderer.example.com")
	viper.SetDefault("fabric.local_msp_id", "Org1MSP")
	viper.SetDefault("fabric.peer_address", "localhost:7051")
	viper.SetDefault("fabric.tls_enabled", true)
	viper.SetDefault("fabric.invoke_timeout_seconds", 30)
	viper.SetDefault("fabric.invoke_qps", 0)

	viper.SetDefault("simulation.participants", 100)
	viper.SetDefault("simulation.rounds", 4)
	viper.SetDefault("simulation.default_probability", 0.05)
	viper.SetDefault("simulation.reputation_threshold", 20)
	viper.SetDefault("simulation.max_reputation", 100)
	viper.SetDefault("simulation.success_reward", 1)
	viper.SetDefault("simulation.default_penalty", 5)
	viper.SetDefault("simulation.initial_balance", 1000)
	viper.SetDefault("simulation.min_initial_reputation", 40)
	viper.SetDefault("simulation.max_initial_reputation", 60)
	viper.SetDefault("simulation.min_quantity", 1)
	viper.SetDefault("simulation.max_quantity", 10)
	viper.SetDefault("simulation.min_price", 50)
	viper.SetDefault("simulation.max_price", 100)
	viper.SetDefault("simulation.seed", 0)

	viper.SetDefault("output.dir", "./out")

	viper.SetDefault("monitor.enabled", false)
	viper.SetDefault("monitor.port", "8080")
	viper.SetDefault("monitor.metrics_path", "/metrics")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found, using defaults and env vars")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
