// Package config reads service settings and detection overrides from the
// environment.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/algo-corepoint/corepoint"
)

type Config struct {
	Host           string
	Port           string
	RequestTimeout time.Duration
	MaxUploadBytes int64
	CacheEntries   int
	MaxWorkers     int

	Detection corepoint.Params
}

func (c *Config) ServerAddress() string {
	return net.JoinHostPort(strings.TrimSpace(c.Host), strings.TrimSpace(c.Port))
}

// LoadFromEnv builds a Config from defaults overridden by environment
// variables. Malformed numeric values are errors, not silently ignored.
func LoadFromEnv() (*Config, error) {
	var errs []string
	env := envReader{errs: &errs}

	det := corepoint.DefaultParams()
	det.MinConfidence = env.getFloat("CORE_MIN_CONFIDENCE", det.MinConfidence)
	det.GaussianKernelSize = env.getInt("CORE_GAUSSIAN_KERNEL", det.GaussianKernelSize)
	det.GaussianSigma = env.getFloat("CORE_GAUSSIAN_SIGMA", det.GaussianSigma)
	det.SobelKernelSize = env.getInt("CORE_SOBEL_KERNEL", det.SobelKernelSize)
	det.BlockSize = env.getInt("CORE_BLOCK_SIZE", det.BlockSize)
	det.UseSIMD = env.getBool("CORE_USE_SIMD", det.UseSIMD)
	det.MinImageQuality = env.getFloat("CORE_MIN_IMAGE_QUALITY", det.MinImageQuality)

	cfg := &Config{
		Host:           env.getString("HOST", "0.0.0.0"),
		Port:           env.getString("PORT", "8080"),
		RequestTimeout: env.getDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaxUploadBytes: int64(env.getInt("MAX_UPLOAD_BYTES", 10*1024*1024)), // 10MB
		CacheEntries:   env.getInt("CACHE_ENTRIES", 64),
		MaxWorkers:     env.getInt("MAX_WORKERS", 0),
		Detection:      det,
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be > 0 (got %d)", cfg.MaxUploadBytes)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be > 0 (got %s)", cfg.RequestTimeout)
	}
	if cfg.CacheEntries <= 0 {
		return nil, fmt.Errorf("CACHE_ENTRIES must be > 0 (got %d)", cfg.CacheEntries)
	}
	if cfg.MaxWorkers < 0 {
		return nil, fmt.Errorf("MAX_WORKERS must be >= 0 (got %d)", cfg.MaxWorkers)
	}
	if cfg.Detection.BlockSize < 2 {
		return nil, fmt.Errorf("CORE_BLOCK_SIZE must be >= 2 (got %d)", cfg.Detection.BlockSize)
	}
	return cfg, nil
}

type envReader struct {
	errs *[]string
}

func (e envReader) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func (e envReader) fail(key, v string, err error) {
	*e.errs = append(*e.errs, fmt.Sprintf("%s=%q: %v", key, v, err))
}

func (e envReader) getString(key, def string) string {
	if v, ok := e.lookup(key); ok {
		return v
	}
	return def
}

func (e envReader) getInt(key string, def int) int {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return n
}

func (e envReader) getFloat(key string, def float64) float64 {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return f
}

func (e envReader) getBool(key string, def bool) bool {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return b
}

func (e envReader) getDuration(key string, def time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return d
}
