package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/drake/afdc/network"
)

// DefaultHost is used when the launcher supplies no host.
const DefaultHost = "localhost"

// Config is the complete startup surface of the client.
type Config struct {
	Host    string
	Port    int
	Charset string
}

// Default returns the configuration for the local daemon.
func Default() Config {
	return Config{
		Host:    DefaultHost,
		Port:    network.DefaultPort,
		Charset: network.CharsetUTF8,
	}
}

// Resolve builds a Config from the launcher's positional arguments.
// The only accepted argument is the host; the port is always 4444.
func Resolve(args []string) (Config, error) {
	cfg := Default()
	if len(args) > 1 {
		return cfg, fmt.Errorf("expected at most one host, got %d arguments", len(args))
	}
	if len(args) == 1 {
		host, err := ValidateHost(args[0])
		if err != nil {
			return cfg, err
		}
		cfg.Host = host
	}
	return cfg, nil
}

// ValidateHost trims host and rejects values that cannot name a single
// machine. Bracketed IPv6 literals are unwrapped.
func ValidateHost(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("host is empty")
	}
	if strings.ContainsAny(host, " \t\r\n") {
		return "", fmt.Errorf("host %q contains whitespace", host)
	}
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	if net.ParseIP(host) != nil {
		return host, nil
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return "", fmt.Errorf("host %q must not carry a port (always %d)", host, network.DefaultPort)
	}
	if strings.Contains(host, ":") {
		return "", fmt.Errorf("host %q is not a valid name or address", host)
	}
	return host, nil
}

// Address returns host:port in dialable form.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
