package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"coinsignals-api/internal/svc"
	"coinsignals-api/internal/types"
	"coinsignals-api/pkg/market"
)

const chainlinkCoin = "chainlink"

type VolumeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewVolumeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *VolumeLogic {
	return &VolumeLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Volume returns the daily volume of one coin. Fetch failures are reported
// inside the body with an empty series; only invalid input is an error.
func (l *VolumeLogic) Volume(req *types.VolumeRequest) (*types.VolumeResponse, error) {
	coin, err := coinID(req.CoinID)
	if err != nil {
		return nil, err
	}
	if err := checkDays(req.Days); err != nil {
		return nil, err
	}
	return l.volume(coin, req.Days), nil
}

// ChainlinkVolume is Volume fixed to chainlink.
func (l *VolumeLogic) ChainlinkVolume(req *types.ChainlinkVolumeRequest) (*types.VolumeResponse, error) {
	if err := checkDays(req.Days); err != nil {
		return nil, err
	}
	return l.volume(chainlinkCoin, req.Days), nil
}

func (l *VolumeLogic) volume(coin string, days int) *types.VolumeResponse {
	samples, err := l.svcCtx.Market.Volume(l.ctx, coin, days)
	if err != nil {
		l.Errorf("volume: coin=%s days=%d: %v", coin, days, err)
		return &types.VolumeResponse{CoinID: coin, VolumeData: []market.Sample{}, Error: err.Error()}
	}
	return &types.VolumeResponse{CoinID: coin, VolumeData: samples}
}
