package webclient

import (
	"context"
	"net/url"
	"sync"
)

type postCall struct {
	Path   string
	Values url.Values
}

// fakeRequester answers from per-path responses and records every call.
type fakeRequester struct {
	mu        sync.Mutex
	responses map[string]*Response
	errs      map[string]error
	gets      []string
	posts     []postCall
}

func newFakeRequester() *fakeRequester {
	return &fakeRequester{responses: map[string]*Response{}, errs: map[string]error{}}
}

func (f *fakeRequester) respond(path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[path] = &Response{StatusCode: status, Body: []byte(body)}
	delete(f.errs, path)
}

func (f *fakeRequester) fail(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[path] = err
}

func (f *fakeRequester) answer(path string) (*Response, error) {
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	if resp, ok := f.responses[path]; ok {
		return resp, nil
	}
	return &Response{StatusCode: 404, Body: []byte("Not Found")}, nil
}

func (f *fakeRequester) Get(ctx context.Context, path string) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, path)
	return f.answer(path)
}

func (f *fakeRequester) PostForm(ctx context.Context, path string, values url.Values) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, postCall{Path: path, Values: values})
	return f.answer(path)
}

func (f *fakeRequester) postCalls() []postCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]postCall(nil), f.posts...)
}

func (f *fakeRequester) getCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.gets...)
}
