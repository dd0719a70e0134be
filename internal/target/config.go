package target

import (
	"crypto/tls"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultBindAddr is the conventional listening endpoint for the protocol.
const DefaultBindAddr = "0.0.0.0:9989"

const (
	EnvAddr     = "CORRAL_ADDR"
	EnvCertPath = "CORRAL_CERT_PATH"
	EnvKeyPath  = "CORRAL_KEY_PATH"
)

type EngineKind string

const (
	EngineAuto   EngineKind = "auto"
	EngineDocker EngineKind = "docker"
	EnginePodman EngineKind = "podman"
)

// SSHConfig configures the remote runner for podman targets whose engine
// lives on another host.
type SSHConfig struct {
	Host                        string `toml:"host"`
	Port                        string `toml:"port"`
	User                        string `toml:"user"`
	KeyFile                     string `toml:"key_file"`
	KnownHostsFile              string `toml:"known_hosts_file"`
	InsecureSkipHostKeyChecking bool   `toml:"insecure_skip_host_key_checking"`
}

type Config struct {
	Addr         string     `toml:"addr"`
	CertFile     string     `toml:"cert_file"`
	KeyFile      string     `toml:"key_file"`
	Engine       EngineKind `toml:"engine"`
	DockerSocket string     `toml:"docker_socket"`
	PodmanBin    string     `toml:"podman_bin"`
	AdminAddr    string     `toml:"admin_addr"`
	SSH          *SSHConfig `toml:"ssh"`
}

func DefaultConfig() Config {
	return Config{
		Addr:   DefaultBindAddr,
		Engine: EngineAuto,
	}
}

type fileConfig struct {
	Addr         string     `toml:"addr"`
	CertFile     string     `toml:"cert_file"`
	KeyFile      string     `toml:"key_file"`
	Engine       string     `toml:"engine"`
	DockerSocket string     `toml:"docker_socket"`
	PodmanBin    string     `toml:"podman_bin"`
	AdminAddr    string     `toml:"admin_addr"`
	SSH          *SSHConfig `toml:"ssh"`
}

// LoadConfig reads a TOML config file over the defaults. Environment
// variables override the file; flags override both at the caller.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load target config: %w", err)
	}

	if meta.IsDefined("addr") && strings.TrimSpace(raw.Addr) != "" {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("cert_file") {
		cfg.CertFile = strings.TrimSpace(raw.CertFile)
	}
	if meta.IsDefined("key_file") {
		cfg.KeyFile = strings.TrimSpace(raw.KeyFile)
	}
	if meta.IsDefined("engine") {
		cfg.Engine = EngineKind(strings.ToLower(strings.TrimSpace(raw.Engine)))
	}
	if meta.IsDefined("docker_socket") {
		cfg.DockerSocket = strings.TrimSpace(raw.DockerSocket)
	}
	if meta.IsDefined("podman_bin") {
		cfg.PodmanBin = strings.TrimSpace(raw.PodmanBin)
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("ssh") {
		cfg.SSH = raw.SSH
	}

	return cfg, nil
}

// ApplyEnvOverrides layers CORRAL_* environment variables over cfg.
func (c *Config) ApplyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		c.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCertPath)); v != "" {
		c.CertFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvKeyPath)); v != "" {
		c.KeyFile = v
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("target config missing addr")
	}
	if strings.TrimSpace(c.CertFile) == "" {
		return fmt.Errorf("target config missing cert_file")
	}
	if strings.TrimSpace(c.KeyFile) == "" {
		return fmt.Errorf("target config missing key_file")
	}
	switch c.Engine {
	case EngineAuto, EngineDocker, EnginePodman:
	default:
		return fmt.Errorf("target config invalid engine %q", c.Engine)
	}
	if c.SSH != nil && c.Engine != EnginePodman {
		return fmt.Errorf("target config ssh runner requires engine = %q", EnginePodman)
	}
	return nil
}

// LoadIdentity loads the server key+certificate bundle named by the config.
func (c Config) LoadIdentity() (tls.Certificate, error) {
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("load server identity: %w", err)
	}
	return cert, nil
}
