package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"coinsignals-api/internal/svc"
)

type CoinsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCoinsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CoinsLogic {
	return &CoinsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CoinsLogic) Coins() ([]string, error) {
	coins, err := l.svcCtx.Market.ListSupportedCoins(l.ctx)
	if err != nil {
		l.Errorf("coins: %v", err)
		return nil, err
	}
	l.Infof("coins: retrieved %d supported coins", len(coins))
	return coins, nil
}
