package testutil

import (
	"context"
	"sync"

	"github.com/mohessea007/FNE/internal/httpclient"
)

// MockHTTPClient is a scripted httpclient.Client. Responses are consumed in
// FIFO order; when the queue is empty the default response is replayed. Every
// request is recorded for assertions.
type MockHTTPClient struct {
	mu sync.Mutex

	queue           []scriptedResponse
	defaultResponse *httpclient.Response
	defaultErr      error

	Requests []*httpclient.Request
}

type scriptedResponse struct {
	resp *httpclient.Response
	err  error
}

func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{}
}

// EnqueueResponse scripts the next successful response.
func (m *MockHTTPClient) EnqueueResponse(resp *httpclient.Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, scriptedResponse{resp: resp})
}

// EnqueueError scripts the next call to fail.
func (m *MockHTTPClient) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, scriptedResponse{err: err})
}

// SetDefault sets the response replayed once the queue is drained.
func (m *MockHTTPClient) SetDefault(resp *httpclient.Response, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResponse = resp
	m.defaultErr = err
}

func (m *MockHTTPClient) Send(_ context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)

	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next.resp, next.err
	}
	return m.defaultResponse, m.defaultErr
}

// CallCount returns the number of requests sent so far.
func (m *MockHTTPClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// LastRequest returns the most recent request, or nil.
func (m *MockHTTPClient) LastRequest() *httpclient.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil
	}
	return m.Requests[len(m.Requests)-1]
}

var _ httpclient.Client = (*MockHTTPClient)(nil)
