package logic

import (
	"context"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"coinsignals-api/internal/errorx"
	"coinsignals-api/internal/svc"
	"coinsignals-api/internal/types"
	"coinsignals-api/pkg/market"
)

type DataLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewDataLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DataLogic {
	return &DataLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Data returns the historical series, every indicator and the realtime
// consensus for one coin.
func (l *DataLogic) Data(req *types.DataRequest) (*market.Response, error) {
	coin, err := coinID(req.CoinID)
	if err != nil {
		return nil, err
	}
	if err := checkDays(req.Days); err != nil {
		return nil, err
	}

	resp, err := l.svcCtx.Market.Signals(l.ctx, coin, req.Days, strings.TrimSpace(req.Exchange))
	if err != nil {
		l.Errorf("data: coin=%s days=%d: %v", coin, req.Days, err)
		return nil, err
	}
	l.Infof("data: served coin=%s days=%d points=%d", coin, req.Days, len(resp.Historical))
	return resp, nil
}

func coinID(raw string) (string, error) {
	coin := market.NormalizeSymbol(raw)
	if coin == "" {
		return "", errorx.InvalidInputf("coin_id must not be empty")
	}
	return coin, nil
}

func checkDays(days int) error {
	if days < 1 || days > 365 {
		return errorx.InvalidInputf("days must be between 1 and 365, got %d", days)
	}
	return nil
}
