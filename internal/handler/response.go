package handler

import (
	"bytes"
	"context"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"coinsignals-api/internal/errorx"
)

const (
	formatMsgpack      = "msgpack"
	contentTypeMsgpack = "application/msgpack"
)

// ErrorHandler renders every handler error as {"error", "message"}.
func ErrorHandler(ctx context.Context, err error) (int, any) {
	status, body := errorx.Response(err)
	if status >= http.StatusInternalServerError {
		logx.WithContext(ctx).Errorf("request failed: %v", err)
	}
	return status, body
}

// writeMsgpack encodes v with its json field names so both formats share keys.
func writeMsgpack(ctx context.Context, w http.ResponseWriter, v any) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		httpx.ErrorCtx(ctx, w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeMsgpack)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logx.WithContext(ctx).Errorf("write msgpack response: %v", err)
	}
}
