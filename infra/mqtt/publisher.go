// Package mqtt publishes accepted schedules to a fleet-operations topic so
// downstream consumers can react to a completed planning run. The planning
// core itself never touches the network; this is an optional sink.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/fleetplan/core/scheduler"
	"github.com/kilianp07/fleetplan/infra/logger"
)

// Config defines the connection parameters for the schedule publisher.
type Config struct {
	Enabled    bool   `json:"enabled"`
	Broker     string `json:"broker"`
	ClientID   string `json:"client_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Topic      string `json:"topic"`
	QoS        byte   `json:"qos"`
	UseTLS     bool   `json:"use_tls"`
	ClientCert string `json:"client_cert"`
	ClientKey  string `json:"client_key"`
	CABundle   string `json:"ca_bundle"`
	TimeoutS   int    `json:"timeout_seconds"`
}

// Validate checks mandatory fields when the publisher is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	if c.Topic == "" {
		return fmt.Errorf("mqtt topic is required")
	}
	return nil
}

// SchedulePublisher pushes planning results to the configured topic.
type SchedulePublisher struct {
	cli     paho.Client
	topic   string
	qos     byte
	timeout time.Duration
	log     logger.Logger
}

// NewSchedulePublisher connects to the broker described by cfg.
func NewSchedulePublisher(cfg Config) (*SchedulePublisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectRetry(false)
	if cfg.UseTLS {
		tlsCfg, err := newTLSConfig(cfg)
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	timeout := time.Duration(cfg.TimeoutS) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	cli := paho.NewClient(opts)
	token := cli.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return &SchedulePublisher{
		cli:     cli,
		topic:   cfg.Topic,
		qos:     cfg.QoS,
		timeout: timeout,
		log:     logger.New("schedule-publisher"),
	}, nil
}

// Publish serialises the planning result and publishes it on the topic.
func (p *SchedulePublisher) Publish(res scheduler.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	token := p.cli.Publish(p.topic, p.qos, false, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish to %s timed out", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	p.log.Infof("published schedule %s with %d assignments", res.Schedule.RunID, len(res.Schedule.Assignments))
	return nil
}

// Close disconnects from the broker.
func (p *SchedulePublisher) Close() {
	p.cli.Disconnect(250)
}

func newTLSConfig(cfg Config) (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.CABundle != "" {
		ca, err := os.ReadFile(cfg.CABundle)
		if err != nil {
			return nil, fmt.Errorf("read ca bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(ca) {
			return nil, fmt.Errorf("ca bundle %s contains no certificates", cfg.CABundle)
		}
		tlsCfg.RootCAs = pool
	}
	if cfg.ClientCert != "" && cfg.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	return tlsCfg, nil
}
