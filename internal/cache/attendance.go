package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	apperrors "go-gin-ticket-gate/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type AttendanceStats struct {
	Issued    int
	CheckedIn int
}

type AttendanceCache interface {
	// 開始預熱：在讀 DB 之前取得 token
	BeginWarmUp(ctx context.Context, eventKey string) (string, error)
	// 預熱：以資料庫的結果重建統計；token 已失效（期間有新的發行或入場）時不寫入，回傳 false
	WarmUp(ctx context.Context, eventKey string, token string, issued int, checkedInTicketIDs []string) (bool, error)
	// 獲取：統計不存在時回傳 ErrCacheMiss
	GetStats(ctx context.Context, eventKey string) (AttendanceStats, error)
	// 增加：發行張數 +1（統計不存在時不建立，等下次預熱）
	IncrIssued(ctx context.Context, eventKey string) error
	// 記錄入場 (使用Lua腳本確保同一張票只計一次)，回傳是否為第一次記錄
	RecordCheckIn(ctx context.Context, eventKey string, ticketID string) (bool, error)
	// 清除：人工覆寫或刪票後讓統計重建
	Invalidate(ctx context.Context, eventKey string) error
}

type RedisAttendanceCache struct {
	client   *redis.Client
	newToken func() string
}

func NewRedisAttendanceCache(client *redis.Client) AttendanceCache {
	return &RedisAttendanceCache{
		client:   client,
		newToken: uuid.NewString,
	}
}

// warmUpTTL 預熱 token 的存活時間，超過時放棄這次預熱
const warmUpTTL = 10 * time.Second

// 統計 key
func statsKey(eventKey string) string {
	return fmt.Sprintf("attendance:%s", eventKey)
}

// 已入場 ticket id 的 set
func seenKey(eventKey string) string {
	return fmt.Sprintf("attendance:%s:seen", eventKey)
}

// 預熱中的 token
func warmKey(eventKey string) string {
	return fmt.Sprintf("attendance:%s:warming", eventKey)
}

const (
	fieldIssued    = "issued"
	fieldCheckedIn = "checked_in"
)

/*
	預熱
	1. token 不符代表讀 DB 之後有人發行或入場（或統計被清除），DB 的結果可能已過期，放棄寫入
	2. 重建 hash 與 seen set，並刪除 token
*/
const warmUpScript = `
	local stats_key = KEYS[1]
	local seen_key = KEYS[2]
	local warm_key = KEYS[3]
	local token = ARGV[1]
	local issued = tonumber(ARGV[2])

	if redis.call('GET', warm_key) ~= token then
		return 0
	end

	redis.call('DEL', stats_key, seen_key, warm_key)
	for i = 3, #ARGV do
		redis.call('SADD', seen_key, ARGV[i])
	end
	redis.call('HSET', stats_key, 'issued', issued, 'checked_in', #ARGV - 2)
	return 1
`

// 統計不存在時讓進行中的預熱失效
const incrIssuedScript = `
	if redis.call('EXISTS', KEYS[1]) == 0 then
		redis.call('DEL', KEYS[2])
		return 0
	end
	redis.call('HINCRBY', KEYS[1], 'issued', 1)
	return 1
`

/*
	記錄入場
	1. 統計不存在時不處理（回傳 -1）並讓進行中的預熱失效，等下次預熱從資料庫重建
	2. SADD 成功才 HINCRBY，queue 重送同一筆訊息不會重複計算
*/
const recordCheckInScript = `
	local stats_key = KEYS[1]
	local seen_key = KEYS[2]
	local warm_key = KEYS[3]
	local ticket_id = ARGV[1]

	if redis.call('EXISTS', stats_key) == 0 then
		redis.call('DEL', warm_key)
		return -1
	end

	local added = redis.call('SADD', seen_key, ticket_id)
	if added == 1 then
		redis.call('HINCRBY', stats_key, 'checked_in', 1)
	end
	return added
`

func (c *RedisAttendanceCache) BeginWarmUp(ctx context.Context, eventKey string) (string, error) {
	token := c.newToken()
	if err := c.client.Set(ctx, warmKey(eventKey), token, warmUpTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (c *RedisAttendanceCache) WarmUp(ctx context.Context, eventKey string, token string, issued int, checkedInTicketIDs []string) (bool, error) {
	args := make([]interface{}, 0, len(checkedInTicketIDs)+2)
	args = append(args, token, issued)
	for _, id := range checkedInTicketIDs {
		args = append(args, id)
	}
	keys := []string{statsKey(eventKey), seenKey(eventKey), warmKey(eventKey)}
	result, err := c.client.Eval(ctx, warmUpScript, keys, args...).Int64()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}

func (c *RedisAttendanceCache) GetStats(ctx context.Context, eventKey string) (AttendanceStats, error) {
	result, err := c.client.HGetAll(ctx, statsKey(eventKey)).Result()
	if err != nil {
		return AttendanceStats{}, err
	}

	// 檢查 key 是否存在
	if len(result) == 0 {
		return AttendanceStats{}, apperrors.ErrCacheMiss
	}

	issued, err := strconv.Atoi(result[fieldIssued])
	if err != nil {
		return AttendanceStats{}, fmt.Errorf("invalid issued: %v", err)
	}

	checkedIn, err := strconv.Atoi(result[fieldCheckedIn])
	if err != nil {
		return AttendanceStats{}, fmt.Errorf("invalid checked_in: %v", err)
	}

	return AttendanceStats{
		Issued:    issued,
		CheckedIn: checkedIn,
	}, nil
}

func (c *RedisAttendanceCache) IncrIssued(ctx context.Context, eventKey string) error {
	return c.client.Eval(ctx, incrIssuedScript, []string{statsKey(eventKey), warmKey(eventKey)}).Err()
}

func (c *RedisAttendanceCache) RecordCheckIn(ctx context.Context, eventKey string, ticketID string) (bool, error) {
	keys := []string{statsKey(eventKey), seenKey(eventKey), warmKey(eventKey)}
	result, err := c.client.Eval(ctx, recordCheckInScript, keys, ticketID).Int64()
	if err != nil {
		return false, err
	}

	switch result {
	case 1:
		return true, nil
	case 0, -1:
		return false, nil
	default:
		return false, errors.New("unexpected result")
	}
}

func (c *RedisAttendanceCache) Invalidate(ctx context.Context, eventKey string) error {
	return c.client.Del(ctx, statsKey(eventKey), seenKey(eventKey), warmKey(eventKey)).Err()
}
