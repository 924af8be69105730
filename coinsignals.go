// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package main

import (
	"flag"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"

	"coinsignals-api/internal/cli"
	"coinsignals-api/internal/config"
	"coinsignals-api/internal/handler"
	"coinsignals-api/internal/svc"
	"coinsignals-api/internal/warmer"
)

var configFile = flag.String("f", "etc/coinsignals.yaml", "the config file")

func main() {
	flag.Parse()

	cfg := config.MustLoad(*configFile)

	server := rest.MustNewServer(cfg.RestConf)
	defer server.Stop()
	cli.LogConfigSummary(cfg)

	ctx := svc.NewServiceContext(*cfg, *configFile)
	handler.RegisterHandlers(server, ctx)

	w, err := warmer.New(cfg.Warmup, ctx.Market)
	logx.Must(err)
	if w != nil {
		w.Start()
		defer w.Stop()
	}

	fmt.Printf("Starting server at %s:%d...\n", cfg.Host, cfg.Port)
	server.Start()
}
