package swap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fachebot/starknet-launchpad/internal/dexagg/avnu"
	"github.com/fachebot/starknet-launchpad/internal/utils/stark"

	"github.com/shopspring/decimal"
)

// QuoteService 报价获取服务。十进制数量按18位精度转为定点整数后
// 向聚合器请求单条最优报价。
type QuoteService struct {
	avnuClient *avnu.Client
}

func NewQuoteService(avnuClient *avnu.Client) *QuoteService {
	return &QuoteService{avnuClient: avnuClient}
}

func (s *QuoteService) FetchQuotes(ctx context.Context, sellTokenAddress, buyTokenAddress, sellAmount string) ([]avnu.Quote, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(sellAmount))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, sellAmount)
	}

	quotes, err := s.avnuClient.Quote(ctx, avnu.QuoteRequest{
		SellTokenAddress: sellTokenAddress,
		BuyTokenAddress:  buyTokenAddress,
		SellAmount:       stark.FormatUnits(amount, 18),
		Size:             1,
	})
	if err != nil {
		var errRes *avnu.ErrorResponse
		if errors.As(err, &errRes) {
			return nil, &UpstreamError{Provider: "Swap", Message: errRes.Error()}
		}
		return nil, &UpstreamError{Provider: "Swap", Message: err.Error()}
	}

	return quotes, nil
}
