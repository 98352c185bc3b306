package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"staffdesk/internal/app/config"
	"staffdesk/internal/app/ds"
)

const packagePrefix = "package."

// ErrCacheMiss - в кэше нет значения
var ErrCacheMiss = errors.New("cache miss")

type Client struct {
	cfg    config.RedisConfig
	client *redis.Client
	ttl    time.Duration
}

func New(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*Client, error) {
	client := &Client{cfg: cfg, ttl: ttl}

	redisClient := redis.NewClient(&redis.Options{
		Addr:        cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Username:    cfg.User,
		Password:    cfg.Password,
		DB:          0,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("cant ping redis: %w", err)
	}
	client.client = redisClient
	logrus.Infof("redis connected on %s:%d", cfg.Host, cfg.Port)

	return client, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func packageKey(id uint) string {
	return packagePrefix + strconv.FormatUint(uint64(id), 10)
}

// GetPackage возвращает пакет из кэша или ErrCacheMiss
func (c *Client) GetPackage(ctx context.Context, id uint) (*ds.Package, error) {
	raw, err := c.client.Get(ctx, packageKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var pkg ds.Package
	if err := json.Unmarshal(raw, &pkg); err != nil {
		// битую запись просто выбрасываем
		_ = c.client.Del(ctx, packageKey(id)).Err()
		return nil, ErrCacheMiss
	}
	pkg.ID = id
	return &pkg, nil
}

func (c *Client) SetPackage(ctx context.Context, pkg *ds.Package) error {
	raw, err := json.Marshal(pkg)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, packageKey(pkg.ID), raw, c.ttl).Err()
}

func (c *Client) InvalidatePackage(ctx context.Context, id uint) error {
	return c.client.Del(ctx, packageKey(id)).Err()
}
