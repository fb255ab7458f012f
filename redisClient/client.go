package redisClient

import (
	"time"

	"github.com/go-redis/redis"

	"github.com/AVVKavvk/sahay-call-agent/models"
)

const keyPrefix = "call:"

// Tracker stores call states in redis; each key expires ttl after its last write.
type Tracker struct {
	rc       *redis.Client
	ttl      time.Duration
	language models.Language
}

func NewTracker(rc *redis.Client, ttl time.Duration, defaultLang models.Language) *Tracker {
	return &Tracker{rc: rc, ttl: ttl, language: defaultLang}
}

func (t *Tracker) Get(callID string) (models.CallState, error) {
	data, err := t.rc.Get(keyPrefix + callID).Bytes()
	if err == redis.Nil {
		return models.InitialState(callID, t.language), nil
	}
	if err != nil {
		return models.InitialState(callID, t.language), err
	}

	var st models.CallState
	if err := st.UnmarshalBinary(data); err != nil {
		return models.InitialState(callID, t.language), err
	}
	return st, nil
}

func (t *Tracker) Put(state models.CallState) error {
	state.UpdatedAt = time.Now().UTC()
	return t.rc.Set(keyPrefix+state.CallID, &state, t.ttl).Err()
}

func (t *Tracker) Reset(callID string) error {
	return t.rc.Del(keyPrefix + callID).Err()
}
