package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"coinsignals-api/internal/svc"
	"coinsignals-api/internal/types"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

type HealthLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
	now    func() time.Time
}

func NewHealthLogic(ctx context.Context, svcCtx *svc.ServiceContext) *HealthLogic {
	return &HealthLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
		now:    time.Now,
	}
}

// Health reports the state of the cache, the provider chain and the
// indicator engine. Status is degraded when any of them is not healthy.
func (l *HealthLogic) Health() *types.HealthResponse {
	providers := l.svcCtx.Market.Providers()
	resp := &types.HealthResponse{
		Status:    StatusHealthy,
		Timestamp: l.now().UTC(),
		Services: map[string]types.ServiceHealth{
			"cache":       l.cacheHealth(),
			"market_data": marketHealth(len(providers)),
			"signals":     {Status: StatusHealthy},
		},
		Providers: providers,
	}
	for name, s := range resp.Services {
		if s.Status != StatusHealthy {
			resp.Status = StatusDegraded
			l.Errorf("health: %s is %s: %s", name, s.Status, s.Detail)
		}
	}
	return resp
}

func (l *HealthLogic) cacheHealth() types.ServiceHealth {
	if l.svcCtx.Cache == nil {
		return types.ServiceHealth{Status: StatusUnhealthy, Detail: "cache not initialised"}
	}
	return types.ServiceHealth{Status: StatusHealthy, Detail: fmt.Sprintf("%d entries", l.svcCtx.Cache.Len())}
}

func marketHealth(providers int) types.ServiceHealth {
	if providers == 0 {
		return types.ServiceHealth{Status: StatusUnhealthy, Detail: "no providers configured"}
	}
	return types.ServiceHealth{Status: StatusHealthy, Detail: fmt.Sprintf("%d providers", providers)}
}
