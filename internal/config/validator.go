package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError 配置校验错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config [%s]: %s", e.Field, e.Message)
}

// ValidationErrors 多个配置校验错误
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for i := range e {
		msgs = append(msgs, e[i].Error())
	}
	return strings.Join(msgs, "; ")
}

// Has 是否包含指定字段的错误
func (e ValidationErrors) Has(field string) bool {
	for i := range e {
		if e[i].Field == field {
			return true
		}
	}
	return false
}

// validator 配置校验器
type validator struct {
	errs ValidationErrors
}

func (v *validator) add(field, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) positive(field string, d time.Duration) {
	if d <= 0 {
		v.add(field, "must be positive, got %s", d)
	}
}

func (v *validator) nonNegative(field string, d time.Duration) {
	if d < 0 {
		v.add(field, "must not be negative, got %s", d)
	}
}

// Validate 校验配置，返回 ValidationErrors
func (c *Config) Validate() error {
	v := &validator{}

	if !strings.HasPrefix(c.ServiceType, "_") || !strings.Contains(c.ServiceType, "._") {
		v.add("service_type", "malformed service type %q", c.ServiceType)
	}
	if c.Storage.DataDir == "" {
		v.add("storage.data_dir", "cannot be empty")
	}
	v.nonNegative("storage.gc_interval", c.Storage.GCInterval)
	if c.Storage.Passphrase != "" && c.Storage.EncryptionKeyFile != "" {
		v.add("storage.passphrase", "cannot be combined with encryption_key_file")
	}

	d := c.Client.Discovery
	v.positive("client.discovery.query_interval", d.QueryInterval)
	v.positive("client.discovery.query_timeout", d.QueryTimeout)
	if d.DedupeSize <= 0 {
		v.add("client.discovery.dedupe_size", "must be positive")
	}

	l := c.Client.Liveness
	v.positive("client.liveness.probe_timeout", l.ProbeTimeout)
	if l.ProbeTimeout > 30*time.Second {
		v.add("client.liveness.probe_timeout", "must not exceed 30s")
	}
	if l.MaxBodyBytes <= 0 {
		v.add("client.liveness.max_body_bytes", "must be positive")
	}

	r := c.Client.Reconciler
	v.positive("client.reconciler.discovery_timeout", r.DiscoveryTimeout)
	v.nonNegative("client.reconciler.reprobe_interval", r.ReprobeInterval)
	v.nonNegative("client.reconciler.discovery_retry_interval", r.DiscoveryRetryInterval)
	if r.ReprobeFailures < 1 {
		v.add("client.reconciler.reprobe_failures", "must be at least 1")
	}
	v.positive("client.items.request_timeout", c.Client.Items.RequestTimeout)

	s := c.Server
	if s.Port < 1 || s.Port > 65535 {
		v.add("server.port", "out of range: %d", s.Port)
	}
	if s.RateLimit.RPS < 0 {
		v.add("server.rate_limit.rps", "must not be negative")
	}
	if s.RateLimit.RPS > 0 && s.RateLimit.Burst < 1 {
		v.add("server.rate_limit.burst", "must be at least 1 when rps is set")
	}
	v.positive("server.shutdown_timeout", s.ShutdownTimeout)

	if len(v.errs) > 0 {
		return v.errs
	}
	return nil
}
