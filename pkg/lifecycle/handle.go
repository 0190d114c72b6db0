package lifecycle

import "context"

// Handle 是管理器分发给单个后台服务的生命周期句柄。
// 服务通过Done()观察停机信号，并在退出时调用Close()注销自己。
type Handle struct {
	ctx context.Context

	// Close 注销服务并减少管理器的等待计数。
	// 它是幂等的，可以被defer安全调用。
	Close func()
}

// Ctx 返回与管理器生命周期绑定的上下文。
func (h *Handle) Ctx() context.Context {
	return h.ctx
}

// Done 返回一个在停机信号广播后关闭的channel。
func (h *Handle) Done() <-chan struct{} {
	return h.ctx.Done()
}
