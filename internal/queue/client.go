package queue

import (
	"fmt"
	"strings"

	"github.com/indicamais/internal/config"
	"github.com/indicamais/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue is the queue ranking tasks land on.
	DefaultQueue = constants.QueueDefault
)

// Client wraps the asynq producer. A disabled client is a valid no-op so
// callers never branch on queue availability themselves.
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient creates a queue client.
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled reports whether tasks will actually be enqueued.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close shuts down the producer connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueCampaignRankingRecompute pushes a campaign-wide ranking refresh.
func (c *Client) EnqueueCampaignRankingRecompute(campaignID uint) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewCampaignRankingTask(CampaignRankingPayload{CampaignID: campaignID})
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task, asynq.Queue(c.defaultQueue))
	return err
}

// EnqueueMemberCountersRecompute pushes a single-member recount.
func (c *Client) EnqueueMemberCountersRecompute(memberID uint) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewMemberCountersTask(MemberCountersPayload{MemberID: memberID})
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task, asynq.Queue(c.defaultQueue))
	return err
}

// BuildServerConfig derives the asynq server settings for the worker side.
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
