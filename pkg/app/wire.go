package app

import (
	"github.com/google/wire"
)

// AppComponents 收集 wire 注入的 Server 与 Closer
type AppComponents struct {
	Servers []Server
	Closers []Closer
}

// ProviderSet 导出给 wire 使用
var ProviderSet = wire.NewSet(
	NewBaseApp,
)

// InitApp 将组件绑定到 BaseApp
func InitApp(app *BaseApp, comps AppComponents) Application {
	app.AppendServer(comps.Servers...)
	app.AppendCloser(comps.Closers...)
	return app
}

// CloserFunc 函数式 Closer
type CloserFunc func() error

func (f CloserFunc) Close() error { return f() }
