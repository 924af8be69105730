package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"coinsignals-api/internal/errorx"
	"coinsignals-api/internal/logic"
	"coinsignals-api/internal/svc"
	"coinsignals-api/internal/types"
)

func DataHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.DataRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.InvalidInput(err))
			return
		}

		l := logic.NewDataLogic(r.Context(), svcCtx)
		resp, err := l.Data(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		if req.Format == formatMsgpack {
			writeMsgpack(r.Context(), w, resp)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
