package marketdata

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/guttosm/irarb/internal/domain/models"
	"github.com/guttosm/irarb/internal/logger"
)

// Side of the book.
type Side string

const (
	Bid Side = "bid"
	Ask Side = "ask"
)

// Redis key layout shared with the market data feeders.
//
//	book:tickers          set of derivative tickers with a published book
//	book:<side>:<ticker>  hash {price, size}
//	spot:underliers       set of underliers with a published spot
//	spot:<underlier>      hash {price}
const (
	bookTickersKey    = "book:tickers"
	spotUnderliersKey = "spot:underliers"
)

func bookKey(side Side, ticker string) string {
	return "book:" + string(side) + ":" + ticker
}

func spotKey(underlier string) string {
	return "spot:" + underlier
}

// RedisSource reads top-of-book quotes and spot prices published by the
// feeders. It implements both engine.QuoteSource and engine.SpotSource.
type RedisSource struct {
	rdb *redis.Client
}

// NewRedisSource creates a source backed by rdb.
func NewRedisSource(rdb *redis.Client) *RedisSource {
	return &RedisSource{rdb: rdb}
}

// Bids returns the best bid of every published ticker.
func (s *RedisSource) Bids(ctx context.Context) (map[string]models.OrderbookLevel, error) {
	return s.side(ctx, Bid)
}

// Asks returns the best ask of every published ticker.
func (s *RedisSource) Asks(ctx context.Context) (map[string]models.OrderbookLevel, error) {
	return s.side(ctx, Ask)
}

func (s *RedisSource) side(ctx context.Context, side Side) (map[string]models.OrderbookLevel, error) {
	tickers, err := s.rdb.SMembers(ctx, bookTickersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list tickers: %w", err)
	}
	out := make(map[string]models.OrderbookLevel, len(tickers))
	if len(tickers) == 0 {
		return out, nil
	}

	pipe := s.rdb.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(tickers))
	for i, t := range tickers {
		cmds[i] = pipe.HGetAll(ctx, bookKey(side, t))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("redis: read %s book: %w", side, err)
	}

	for i, cmd := range cmds {
		vals, err := cmd.Result()
		if err != nil || len(vals) == 0 {
			continue
		}
		lvl, err := parseLevel(vals)
		if err != nil {
			logger.L().Warn().Str("ticker", tickers[i]).Str("side", string(side)).Err(err).Msg("malformed book level")
			continue
		}
		out[tickers[i]] = lvl
	}
	return out, nil
}

// LastPrices returns the last spot price of every published underlier.
func (s *RedisSource) LastPrices(ctx context.Context) (map[string]float64, error) {
	underliers, err := s.rdb.SMembers(ctx, spotUnderliersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list underliers: %w", err)
	}
	out := make(map[string]float64, len(underliers))
	if len(underliers) == 0 {
		return out, nil
	}

	pipe := s.rdb.Pipeline()
	cmds := make([]*redis.StringCmd, len(underliers))
	for i, u := range underliers {
		cmds[i] = pipe.HGet(ctx, spotKey(u), "price")
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("redis: read spots: %w", err)
	}

	for i, cmd := range cmds {
		v, err := cmd.Result()
		if err != nil {
			continue
		}
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			logger.L().Warn().Str("underlier", underliers[i]).Err(err).Msg("malformed spot price")
			continue
		}
		out[underliers[i]] = p
	}
	return out, nil
}

// PublishLevel stores the top of book of one side for ticker.
func (s *RedisSource) PublishLevel(ctx context.Context, side Side, ticker string, lvl models.OrderbookLevel) error {
	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, bookKey(side, ticker),
			"price", strconv.FormatFloat(lvl.Price, 'f', -1, 64),
			"size", strconv.FormatFloat(lvl.Size, 'f', -1, 64))
		p.SAdd(ctx, bookTickersKey, ticker)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: publish %s %s: %w", side, ticker, err)
	}
	return nil
}

// PublishSpot stores the last traded price of underlier.
func (s *RedisSource) PublishSpot(ctx context.Context, underlier string, price float64) error {
	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, spotKey(underlier), "price", strconv.FormatFloat(price, 'f', -1, 64))
		p.SAdd(ctx, spotUnderliersKey, underlier)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: publish spot %s: %w", underlier, err)
	}
	return nil
}

func parseLevel(vals map[string]string) (models.OrderbookLevel, error) {
	ps, ok := vals["price"]
	if !ok {
		return models.OrderbookLevel{}, fmt.Errorf("missing price")
	}
	price, err := strconv.ParseFloat(ps, 64)
	if err != nil {
		return models.OrderbookLevel{}, fmt.Errorf("parse price: %w", err)
	}
	ss, ok := vals["size"]
	if !ok {
		return models.OrderbookLevel{}, fmt.Errorf("missing size")
	}
	size, err := strconv.ParseFloat(ss, 64)
	if err != nil {
		return models.OrderbookLevel{}, fmt.Errorf("parse size: %w", err)
	}
	return models.OrderbookLevel{Price: price, Size: size}, nil
}
