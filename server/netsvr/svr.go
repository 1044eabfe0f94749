package netsvr

import (
	"net/http"

	"github.com/zintix-labs/reelspin/server/app"
)

// NetSvr 封裝「路由行為 + 服務啟停」。
//   - 只暴露給最外層組裝（server.Run / cmd）使用，handler 只面向 NetRouter。
//   - 目前實作基於 net/http + chi；換框架時提供相容 net/http handler 的實作即可。
//   - NetSvr 本身實作了 app.Component，可以直接交給 app.App 管理生命週期。
//   - 同時是 http.Handler，測試時可以直接丟給 httptest，不必真的監聽 port。
type NetSvr interface {
	NetRouter
	app.Component
	http.Handler
}

// NetRouter 定義純路由行為，讓子模組只操作路由而不持有啟停控制權。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)

	Group(path string, fn func(NetRouter))
}
