// Package circuitbreaker 熔断器
//
// 用于保护可降级的外部依赖（目前是Redis详情缓存）：
// 连续失败达到阈值后打开熔断器，调用方直接走降级路径（查数据库），
// 不再为每个请求等待Redis超时。Timeout之后进入半开状态放一个探测请求，
// 成功则关闭，失败则重新打开。
//
//	CLOSED --连续失败>=Threshold--> OPEN --Timeout--> HALF_OPEN --成功--> CLOSED
//	                                  ^                    |
//	                                  +-------失败---------+
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpenState 熔断器打开，请求未执行
var ErrOpenState = errors.New("circuit breaker is open")

// Config 熔断器配置
type Config struct {
	// Threshold 连续失败多少次后打开，<=0时取5
	Threshold uint32

	// Timeout OPEN状态持续时间，<=0时取30s
	Timeout time.Duration

	// OnStateChange 状态变化回调（记录日志、更新指标），在锁内调用，不要阻塞
	OnStateChange func(name string, from, to State)
}

// CircuitBreaker 并发安全的熔断器
type CircuitBreaker struct {
	name      string
	threshold uint32
	timeout   time.Duration
	onChange  func(name string, from, to State)
	now       func() time.Time

	mu       sync.Mutex
	state    State
	failures uint32    // 连续失败次数
	openedAt time.Time // 最近一次打开的时间
	probing  bool      // 半开状态下是否已有探测请求在执行
}

// NewCircuitBreaker 创建熔断器
//
//	cb := circuitbreaker.NewCircuitBreaker("redis-book-cache", circuitbreaker.Config{
//	    Threshold: 5,
//	    Timeout:   30 * time.Second,
//	})
func NewCircuitBreaker(name string, cfg Config) *CircuitBreaker {
	if cfg.Threshold == 0 {
		cfg.Threshold = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &CircuitBreaker{
		name:      name,
		threshold: cfg.Threshold,
		timeout:   cfg.Timeout,
		onChange:  cfg.OnStateChange,
		now:       time.Now,
	}
}

// Execute 在熔断器保护下执行req
// 熔断器打开时直接返回ErrOpenState，req不会被调用
//
// 只有req返回的错误才计入失败，调用方需要把“正常的业务结果”
// （比如缓存未命中）当作成功返回
func (cb *CircuitBreaker) Execute(req func() error) error {
	if err := cb.before(); err != nil {
		return err
	}

	err := req()
	cb.after(err == nil)
	return err
}

func (cb *CircuitBreaker) before() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentState() {
	case StateOpen:
		return ErrOpenState
	case StateHalfOpen:
		// 半开状态只放行一个探测请求
		if cb.probing {
			return ErrOpenState
		}
		cb.probing = true
	}
	return nil
}

func (cb *CircuitBreaker) after(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := cb.currentState()
	if success {
		cb.failures = 0
		if state == StateHalfOpen {
			cb.setState(StateClosed)
		}
		return
	}

	cb.failures++
	switch state {
	case StateClosed:
		if cb.failures >= cb.threshold {
			cb.setState(StateOpen)
		}
	case StateHalfOpen:
		cb.setState(StateOpen)
	}
}

// currentState 处理OPEN超时，调用方需持有锁
func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen && !cb.now().Before(cb.openedAt.Add(cb.timeout)) {
		cb.setState(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) setState(to State) {
	from := cb.state
	if from == to {
		return
	}

	cb.state = to
	cb.probing = false
	switch to {
	case StateOpen:
		cb.openedAt = cb.now()
	case StateClosed:
		cb.failures = 0
	}

	if cb.onChange != nil {
		cb.onChange(cb.name, from, to)
	}
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentState()
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string {
	return cb.name
}
