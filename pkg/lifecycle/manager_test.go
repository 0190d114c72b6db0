package lifecycle

import (
	"testing"
	"time"
)

func TestNewServiceHandleRejectsDuplicate(t *testing.T) {
	m := NewManager()

	if _, err := m.NewServiceHandle("worker"); err != nil {
		t.Fatalf("注册服务失败: %v", err)
	}
	if _, err := m.NewServiceHandle("worker"); err == nil {
		t.Fatalf("重复注册应返回错误")
	}
}

func TestShutdownBroadcast(t *testing.T) {
	m := NewManager()
	handle, err := m.NewServiceHandle("worker")
	if err != nil {
		t.Fatalf("注册服务失败: %v", err)
	}

	stopped := make(chan struct{})
	go func() {
		defer handle.Close()
		<-handle.Done()
		close(stopped)
	}()

	m.Shutdown()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatalf("服务没有观察到停机信号")
	}

	if remaining := m.WaitWithTimeout(time.Second); remaining != nil {
		t.Fatalf("仍有服务未关闭: %v", remaining)
	}
}

func TestWaitWithTimeoutReportsStragglers(t *testing.T) {
	m := NewManager()
	if _, err := m.NewServiceHandle("slow-worker"); err != nil {
		t.Fatalf("注册服务失败: %v", err)
	}

	m.Shutdown()
	remaining := m.WaitWithTimeout(10 * time.Millisecond)
	if len(remaining) != 1 || remaining[0] != "slow-worker" {
		t.Fatalf("超时服务列表 = %v, want [slow-worker]", remaining)
	}
}
