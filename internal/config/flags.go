package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-shutdown-timeout graceful stop drain budget (e.g., "30s", "1m")
//	-tls-cert server certificate path
//	-tls-key server private key path
//	-dispatch-workers handler pool size
//	-dispatch-queue handler pool queue length
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var shutdownTimeout time.Duration
	var tlsCert string
	var tlsKey string
	var dispatchWorkers int
	var dispatchQueue int
	var jsonConfigPath string

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "Graceful stop drain budget (e.g., 30s, 1m)")
	flag.StringVar(&tlsCert, "tls-cert", "", "Server certificate path")
	flag.StringVar(&tlsKey, "tls-key", "", "Server private key path")
	flag.IntVar(&dispatchWorkers, "dispatch-workers", 0, "Handler pool size")
	flag.IntVar(&dispatchQueue, "dispatch-queue", 0, "Handler pool queue length")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Server: Server{
			Address:         serverAddress.String(),
			ShutdownTimeout: shutdownTimeout,
		},
		TLS: TLS{
			CertFile: tlsCert,
			KeyFile:  tlsKey,
		},
		Dispatch: Dispatch{
			Workers:   dispatchWorkers,
			QueueSize: dispatchQueue,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string so that a
// later source can supply the address.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "" && host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
