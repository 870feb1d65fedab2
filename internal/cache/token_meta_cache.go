package cache

import (
	"context"
	"sync"

	"github.com/fachebot/starknet-launchpad/internal/model"
)

type TokenMeta struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// TokenMetaCache 代币元数据缓存, 确认后的元数据不再变化
type TokenMetaCache struct {
	tokenModel   *model.TokenModel
	tokenMetaMap sync.Map
}

func NewTokenMetaCache(tokenModel *model.TokenModel) *TokenMetaCache {
	return &TokenMetaCache{tokenModel: tokenModel}
}

func (c *TokenMetaCache) GetTokenMeta(ctx context.Context, contractAddress string) (TokenMeta, error) {
	meta, err := c.loadTokenMeta(ctx, contractAddress)
	if err != nil {
		return TokenMeta{}, err
	}
	return meta, nil
}

func (c *TokenMetaCache) loadTokenMeta(ctx context.Context, contractAddress string) (TokenMeta, error) {
	val, ok := c.tokenMetaMap.Load(contractAddress)
	if ok {
		return val.(TokenMeta), nil
	}

	token, err := c.tokenModel.FindByContractAddress(ctx, contractAddress)
	if err != nil {
		return TokenMeta{}, err
	}

	ret := TokenMeta{
		Name:     token.Name,
		Symbol:   token.Symbol,
		Decimals: token.Decimals,
	}
	c.tokenMetaMap.Store(contractAddress, ret)

	return ret, nil
}
