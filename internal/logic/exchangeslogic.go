package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"coinsignals-api/internal/svc"
)

type ExchangesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewExchangesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ExchangesLogic {
	return &ExchangesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ExchangesLogic) Exchanges() ([]string, error) {
	exchanges, err := l.svcCtx.Market.ListSupportedExchanges(l.ctx)
	if err != nil {
		l.Errorf("exchanges: %v", err)
		return nil, err
	}
	return exchanges, nil
}
