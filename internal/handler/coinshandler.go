package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"coinsignals-api/internal/logic"
	"coinsignals-api/internal/svc"
)

func CoinsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewCoinsLogic(r.Context(), svcCtx)
		resp, err := l.Coins()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
