package types

import (
	"time"

	"coinsignals-api/pkg/market"
)

type DataRequest struct {
	CoinID   string `form:"coin_id,default=bitcoin"`
	Days     int    `form:"days,default=30,range=[1:365]"`
	Exchange string `form:"exchange,optional"`
	Group    string `form:"group,optional"` // accepted for compatibility; every group gets the full indicator set
	Format   string `form:"format,default=json,options=json|msgpack"`
}

type VolumeRequest struct {
	CoinID string `form:"coin_id,default=bitcoin"`
	Days   int    `form:"days,default=20,range=[1:365]"`
}

type ChainlinkVolumeRequest struct {
	Days int `form:"days,default=20,range=[1:365]"`
}

type VolumeResponse struct {
	CoinID     string          `json:"coin_id"`
	VolumeData []market.Sample `json:"volume_data"`
	Error      string          `json:"error,omitempty"`
}

type RefreshResponse struct {
	Message string `json:"message"`
}

type ServiceHealth struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Services  map[string]ServiceHealth `json:"services"`
	Providers []market.ProviderInfo    `json:"providers"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
