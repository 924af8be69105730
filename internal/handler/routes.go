package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"

	"coinsignals-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	httpx.SetErrorHandlerCtx(ErrorHandler)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/data",
				Handler: DataHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/coins",
				Handler: CoinsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/exchanges",
				Handler: ExchangesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/volume",
				Handler: VolumeHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/chainlink-volume",
				Handler: ChainlinkVolumeHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/refresh",
				Handler: RefreshHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/health",
				Handler: HealthHandler(serverCtx),
			},
		},
		rest.WithPrefix("/api"),
	)
}
