package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"coinsignals-api/internal/svc"
	"coinsignals-api/internal/types"
)

type RefreshLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewRefreshLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RefreshLogic {
	return &RefreshLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *RefreshLogic) Refresh() (*types.RefreshResponse, error) {
	l.svcCtx.Market.ClearCache()
	l.Info("refresh: cache cleared")
	return &types.RefreshResponse{Message: "Cache cleared successfully"}, nil
}
