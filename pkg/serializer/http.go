// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/NVIDIA/layoutcheck/pkg/defaults"
	lcerrors "github.com/NVIDIA/layoutcheck/pkg/errors"
)

// HttpReaderUserAgent is sent with every remote recipe or input fetch.
const HttpReaderUserAgent = "layoutcheck/1.0"

// HttpReaderDefaultTimeout bounds a whole fetch, body included.
var HttpReaderDefaultTimeout = defaults.HTTPClientTimeout

// HttpReaderOption configures an HttpReader.
type HttpReaderOption func(*HttpReader)

// HttpReader fetches recipes and input files over HTTP(S).
//
// Bodies larger than MaxBytes are rejected rather than truncated: a cut
// recipe or input would otherwise surface later as a misleading verdict.
type HttpReader struct {
	UserAgent string
	MaxBytes  int64
	Client    *http.Client

	timeout  time.Duration
	insecure *bool
}

func WithUserAgent(userAgent string) HttpReaderOption {
	return func(r *HttpReader) { r.UserAgent = userAgent }
}

func WithTotalTimeout(timeout time.Duration) HttpReaderOption {
	return func(r *HttpReader) { r.timeout = timeout }
}

// WithMaxBytes caps the accepted body size. Zero or less disables the cap.
func WithMaxBytes(n int64) HttpReaderOption {
	return func(r *HttpReader) { r.MaxBytes = n }
}

func WithInsecureSkipVerify(skip bool) HttpReaderOption {
	return func(r *HttpReader) { r.insecure = &skip }
}

// WithClient replaces the default client. Timeout and TLS options still
// apply when its transport is a *http.Transport.
func WithClient(client *http.Client) HttpReaderOption {
	return func(r *HttpReader) { r.Client = client }
}

// NewHttpReader returns a reader with bounded timeouts and body size.
func NewHttpReader(options ...HttpReaderOption) *HttpReader {
	r := &HttpReader{
		UserAgent: HttpReaderUserAgent,
		MaxBytes:  defaults.MaxRequestBodyBytes,
	}
	for _, opt := range options {
		opt(r)
	}

	if r.UserAgent == "" {
		r.UserAgent = HttpReaderUserAgent
	}
	if r.Client == nil {
		r.Client = &http.Client{Timeout: HttpReaderDefaultTimeout, Transport: newTransport()}
	}
	if r.timeout > 0 {
		r.Client.Timeout = r.timeout
	}
	if tr, ok := r.Client.Transport.(*http.Transport); ok && tr != nil {
		if tr.TLSClientConfig == nil {
			tr.TLSClientConfig = &tls.Config{}
		}
		tr.TLSClientConfig.MinVersion = tls.VersionTLS12
		if r.insecure != nil {
			tr.TLSClientConfig.InsecureSkipVerify = *r.insecure
		}
	}
	return r
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   defaults.HTTPConnectTimeout,
		KeepAlive: defaults.HTTPKeepAlive,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		ExpectContinueTimeout: defaults.HTTPExpectContinueTimeout,
		ForceAttemptHTTP2:     true,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
	}
}

// Open issues a GET for url and returns the body for streaming. Reading
// past MaxBytes fails with an INVALID_REQUEST error. The caller closes it.
func (r *HttpReader) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	if url == "" {
		return nil, lcerrors.New(lcerrors.ErrCodeInvalidRequest, "url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, lcerrors.Wrap(lcerrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid url %q", url), err)
	}
	req.Header.Set("User-Agent", r.UserAgent)

	resp, err := r.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, lcerrors.Wrap(lcerrors.ErrCodeTimeout, fmt.Sprintf("fetch of %s canceled", url), err)
		}
		return nil, lcerrors.Wrap(lcerrors.ErrCodeUnavailable, fmt.Sprintf("failed to fetch %s", url), err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, lcerrors.NewWithContext(statusCode(resp.StatusCode),
			fmt.Sprintf("failed to fetch %s: %s", url, resp.Status),
			map[string]any{"url": url, "status": resp.StatusCode})
	}

	if r.MaxBytes <= 0 {
		return resp.Body, nil
	}
	return &cappedBody{body: resp.Body, remaining: r.MaxBytes, limit: r.MaxBytes, url: url}, nil
}

// ReadWithContext fetches url and returns the whole body.
func (r *HttpReader) ReadWithContext(ctx context.Context, url string) ([]byte, error) {
	body, err := r.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		if lcerrors.CodeOf(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return data, nil
}

func statusCode(status int) lcerrors.ErrorCode {
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return lcerrors.ErrCodeNotFound
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return lcerrors.ErrCodeUnavailable
	default:
		return lcerrors.ErrCodeInvalidRequest
	}
}

// cappedBody fails once more than limit bytes have been read.
type cappedBody struct {
	body      io.ReadCloser
	remaining int64
	limit     int64
	url       string
}

func (c *cappedBody) Read(p []byte) (int, error) {
	if c.remaining < 0 {
		return 0, c.tooLarge()
	}
	// read one byte past the limit to tell "exactly limit" from "over"
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.body.Read(p)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return n + int(c.remaining), c.tooLarge()
	}
	return n, err
}

func (c *cappedBody) Close() error { return c.body.Close() }

func (c *cappedBody) tooLarge() error {
	return lcerrors.NewWithContext(lcerrors.ErrCodeInvalidRequest,
		fmt.Sprintf("response from %s exceeds %d bytes", c.url, c.limit),
		map[string]any{"url": c.url, "limit": c.limit})
}
