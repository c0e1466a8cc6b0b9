package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolConfig sizes the pgx pool. Zero fields keep pgx's own defaults.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Client owns the pgx pool shared by the API and the worker.
type Client struct {
	pool *pgxpool.Pool
}

// NewClient connects to dsn and pings once so misconfiguration fails at boot.
func NewClient(ctx context.Context, dsn string, pc PoolConfig) (*Client, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	if pc.MaxConns > 0 {
		poolConfig.MaxConns = pc.MaxConns
	}
	if pc.MinConns > 0 {
		poolConfig.MinConns = pc.MinConns
	}
	if pc.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = pc.MaxConnLifetime
	}
	if pc.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = pc.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{pool: pool}, nil
}

// Store returns the entity store backed by the pool.
func (c *Client) Store() *Store {
	return NewStore(c.pool)
}

// Ping lets the readiness probe check the database.
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *Client) Close() {
	c.pool.Close()
}

// Collector exposes pool saturation as gauges.
func (c *Client) Collector() prometheus.Collector {
	return newPoolCollector(func() poolSnapshot {
		s := c.pool.Stat()
		return poolSnapshot{
			acquired: s.AcquiredConns(),
			idle:     s.IdleConns(),
			total:    s.TotalConns(),
			max:      s.MaxConns(),
			waits:    s.EmptyAcquireCount(),
		}
	})
}

type poolSnapshot struct {
	acquired int32
	idle     int32
	total    int32
	max      int32
	waits    int64
}

type poolCollector struct {
	snapshot func() poolSnapshot

	acquired *prometheus.Desc
	idle     *prometheus.Desc
	total    *prometheus.Desc
	max      *prometheus.Desc
	waits    *prometheus.Desc
}

func newPoolCollector(snapshot func() poolSnapshot) *poolCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("gotube", "db_pool", name), help, nil, nil)
	}
	return &poolCollector{
		snapshot: snapshot,
		acquired: desc("acquired_conns", "Connections currently checked out"),
		idle:     desc("idle_conns", "Idle connections in the pool"),
		total:    desc("total_conns", "Open connections in the pool"),
		max:      desc("max_conns", "Configured pool ceiling"),
		waits:    desc("empty_acquire_total", "Acquires that had to wait for a connection"),
	}
}

func (p *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- p.acquired
	ch <- p.idle
	ch <- p.total
	ch <- p.max
	ch <- p.waits
}

func (p *poolCollector) Collect(ch chan<- prometheus.Metric) {
	s := p.snapshot()
	ch <- prometheus.MustNewConstMetric(p.acquired, prometheus.GaugeValue, float64(s.acquired))
	ch <- prometheus.MustNewConstMetric(p.idle, prometheus.GaugeValue, float64(s.idle))
	ch <- prometheus.MustNewConstMetric(p.total, prometheus.GaugeValue, float64(s.total))
	ch <- prometheus.MustNewConstMetric(p.max, prometheus.GaugeValue, float64(s.max))
	ch <- prometheus.MustNewConstMetric(p.waits, prometheus.CounterValue, float64(s.waits))
}
