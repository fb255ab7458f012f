package redisClient

import (
	"fmt"

	"github.com/go-redis/redis"
	log "github.com/sirupsen/logrus"
)

// NewClient connects to redis and checks the connection with a PING.
func NewClient(addr, password string, db int) (*redis.Client, error) {
	rc := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rc.Ping().Result(); err != nil {
		rc.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}

	log.WithField("addr", addr).Info("redis client successfully connected")
	return rc, nil
}
