package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"coinsignals-api/internal/logic"
	"coinsignals-api/internal/svc"
)

func HealthHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := logic.NewHealthLogic(r.Context(), svcCtx).Health()
		status := http.StatusOK
		if resp.Status != logic.StatusHealthy {
			status = http.StatusServiceUnavailable
		}
		httpx.WriteJsonCtx(r.Context(), w, status, resp)
	}
}
