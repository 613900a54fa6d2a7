// Package cache implements the read-through/write-through cache contract:
// raw bytecode keyed by (network, address) and completed reports keyed by
// scan id, each with its own TTL. Cache failures degrade to the
// authoritative source; they are logged and never fail a request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"chainscan/internal/models"
	"chainscan/pkg/logger"
)

// Cache is the two-keyspace cache used by the submission and worker paths.
// Get methods report a miss for both absent keys and cache errors.
type Cache interface {
	GetBytecode(ctx context.Context, network, address string) (string, bool)
	SetBytecode(ctx context.Context, network, address, bytecode string)
	GetReport(ctx context.Context, scanID string) (*models.CachedReport, bool)
	SetReport(ctx context.Context, scanID string, report *models.CachedReport)
}

type redisCache struct {
	client      *redis.Client
	bytecodeTTL time.Duration
	reportTTL   time.Duration
	logger      *logger.Logger
}

func NewRedisCache(addr, password string, db int, bytecodeTTL, reportTTL time.Duration) Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisCache{
		client:      client,
		bytecodeTTL: bytecodeTTL,
		reportTTL:   reportTTL,
		logger:      logger.NewLogger(logrus.InfoLevel),
	}
}

func bytecodeKey(network, address string) string {
	return fmt.Sprintf("bytecode:%s:%s", network, address)
}

func reportKey(scanID string) string {
	return "report:" + scanID
}

func (c *redisCache) GetBytecode(ctx context.Context, network, address string) (string, bool) {
	value, err := c.client.Get(ctx, bytecodeKey(network, address)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Error("Bytecode cache read failed", logger.Fields{"error": err, "address": address})
		}
		return "", false
	}
	return value, true
}

func (c *redisCache) SetBytecode(ctx context.Context, network, address, bytecode string) {
	// Empty bytecode is never cached: an EOA today may be a contract after
	// the next deployment.
	if bytecode == "" || bytecode == "0x" {
		return
	}
	if err := c.client.Set(ctx, bytecodeKey(network, address), bytecode, c.bytecodeTTL).Err(); err != nil {
		c.logger.Error("Bytecode cache write failed", logger.Fields{"error": err, "address": address})
	}
}

func (c *redisCache) GetReport(ctx context.Context, scanID string) (*models.CachedReport, bool) {
	value, err := c.client.Get(ctx, reportKey(scanID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Error("Report cache read failed", logger.Fields{"error": err, "scan_id": scanID})
		}
		return nil, false
	}

	var report models.CachedReport
	if err := json.Unmarshal([]byte(value), &report); err != nil {
		c.logger.Error("Report cache entry corrupt", logger.Fields{"error": err, "scan_id": scanID})
		return nil, false
	}
	return &report, true
}

func (c *redisCache) SetReport(ctx context.Context, scanID string, report *models.CachedReport) {
	payload, err := json.Marshal(report)
	if err != nil {
		c.logger.Error("Report cache marshal failed", logger.Fields{"error": err, "scan_id": scanID})
		return
	}
	if err := c.client.Set(ctx, reportKey(scanID), payload, c.reportTTL).Err(); err != nil {
		c.logger.Error("Report cache write failed", logger.Fields{"error": err, "scan_id": scanID})
	}
}
