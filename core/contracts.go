package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

// ParamSource exposes the path parameters captured by the router.
type ParamSource interface {
	Param(name string) (string, bool)
}

type ParamSourceFunc func(name string) (string, bool)

func (f ParamSourceFunc) Param(name string) (string, bool) {
	return f(name)
}

// MapParams is a ParamSource backed by a plain map.
type MapParams map[string]string

func (p MapParams) Param(name string) (string, bool) {
	value, ok := p[name]
	return value, ok
}

type OriginAccessChecker interface {
	CheckOriginAccess(ctx context.Context, sessionID string, origin string) (bool, error)
}

type OriginAccessCheckerFunc func(ctx context.Context, sessionID string, origin string) (bool, error)

func (f OriginAccessCheckerFunc) CheckOriginAccess(ctx context.Context, sessionID string, origin string) (bool, error) {
	return f(ctx, sessionID, origin)
}

// Encryptor is the keyed transform used to seal integration bodies.
type Encryptor interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
}

// Requester sends one request to the backend and waits for its correlated
// response. Failures carry a backend error code, see BackendErrorCode.
type Requester[Req any, Res any] interface {
	Request(ctx context.Context, req Req) (Res, error)
}

type RequesterFunc[Req any, Res any] func(ctx context.Context, req Req) (Res, error)

func (f RequesterFunc[Req, Res]) Request(ctx context.Context, req Req) (Res, error) {
	return f(ctx, req)
}

// Backend groups the requesters for the record store protocol.
type Backend struct {
	GetNames Requester[GetNamesRequest, OriginIntegrationNames]
	Create   Requester[CreateRequest, NetOK]
	Delete   Requester[DeleteRequest, NetOK]
}

func (b Backend) validate() error {
	if b.GetNames == nil || b.Create == nil || b.Delete == nil {
		return errBackendIncomplete
	}
	return nil
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}
