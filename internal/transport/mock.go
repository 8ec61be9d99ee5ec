package transport

import (
	"context"
	"io"
	"sync"
	"time"
)

// MockTransport is a test double implementing Transport, used by the
// state machine and HTTP engine tests so they can exercise connect/send
// failure paths without a real socket.
type MockTransport struct {
	mu sync.Mutex

	ConnectErr error
	SendErr    error
	RecvErr    error
	RecvData   []byte // served byte-for-byte across Recv calls, then io.EOF

	connectCalls int
	sendCalls    [][]byte
	recvOffset   int
	closed       bool
}

// NewMockTransport returns a mock that succeeds at Connect/Send and
// serves RecvData until exhausted.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

func (m *MockTransport) Connect(_ context.Context, _ []string, _ int, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectCalls++
	return m.ConnectErr
}

func (m *MockTransport) Send(_ context.Context, p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.sendCalls = append(m.sendCalls, append([]byte(nil), p...))
	return nil
}

func (m *MockTransport) Recv(_ context.Context, buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecvErr != nil {
		return 0, m.RecvErr
	}
	if m.recvOffset >= len(m.RecvData) {
		return 0, io.EOF
	}
	n := copy(buf, m.RecvData[m.recvOffset:])
	m.recvOffset += n
	return n, nil
}

func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SendCalls returns a copy of every byte slice passed to Send, in order.
func (m *MockTransport) SendCalls() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([][]byte, len(m.sendCalls))
	copy(calls, m.sendCalls)
	return calls
}

// ConnectCalls returns how many times Connect was invoked.
func (m *MockTransport) ConnectCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectCalls
}

// Closed reports whether Close has been called.
func (m *MockTransport) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ Transport = (*MockTransport)(nil)
