package xhttp

import (
	"net"
	"os"
	"reflect"
	"runtime"
	"time"

	"github.com/nimasrn/record-shop/pkg/logger"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/prefork"
)

type Prefork = prefork.Prefork
type Server = fasthttp.Server

// ServerOption holds the fasthttp settings the engine exposes. Zero fields
// take the value from DefaultServerOption.
type ServerOption struct {
	Name string

	// ReadTimeout and WriteTimeout bound a whole request read and response
	// write on one connection.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// IdleTimeout closes keep-alive connections nobody uses; long idle
	// connections end in "too many open files" under load.
	IdleTimeout time.Duration

	// ReadBufferSize also caps the request header size.
	ReadBufferSize     int
	WriteBufferSize    int
	MaxRequestBodySize int

	Concurrency   int
	MaxConnsPerIP int

	// RecoverThreshold is how many crashed children prefork restarts.
	RecoverThreshold int
}

func DefaultServerOption() ServerOption {
	return ServerOption{
		Name:               "record-shop",
		ReadTimeout:        2500 * time.Millisecond,
		WriteTimeout:       2500 * time.Millisecond,
		IdleTimeout:        10 * time.Second,
		ReadBufferSize:     4 * 1024,
		WriteBufferSize:    4 * 1024,
		MaxRequestBodySize: 4 * 1024 * 1024,
		Concurrency:        30_000,
		MaxConnsPerIP:      10_000,
		RecoverThreshold:   100,
	}
}

func (o ServerOption) withDefaults() ServerOption {
	def := DefaultServerOption()
	if o.Name == "" {
		o.Name = def.Name
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = def.ReadTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = def.WriteTimeout
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = def.IdleTimeout
	}
	if o.ReadBufferSize <= 0 {
		o.ReadBufferSize = def.ReadBufferSize
	}
	if o.WriteBufferSize <= 0 {
		o.WriteBufferSize = def.WriteBufferSize
	}
	if o.MaxRequestBodySize <= 0 {
		o.MaxRequestBodySize = def.MaxRequestBodySize
	}
	if o.Concurrency <= 0 {
		o.Concurrency = def.Concurrency
	}
	if o.MaxConnsPerIP <= 0 {
		o.MaxConnsPerIP = def.MaxConnsPerIP
	}
	if o.RecoverThreshold <= 0 {
		o.RecoverThreshold = def.RecoverThreshold
	}
	return o
}

type Engine struct {
	*Router
	*Server
	*Prefork
	option ServerOption
	middle []MiddlewareFunc
}

func newServer(o ServerOption) *fasthttp.Server {
	return &fasthttp.Server{
		Handler:            NotFoundHandler,
		ErrorHandler:       errorHandler,
		Name:               o.Name,
		Concurrency:        o.Concurrency,
		ReadBufferSize:     o.ReadBufferSize,
		WriteBufferSize:    o.WriteBufferSize,
		ReadTimeout:        o.ReadTimeout,
		WriteTimeout:       o.WriteTimeout,
		IdleTimeout:        o.IdleTimeout,
		MaxConnsPerIP:      o.MaxConnsPerIP,
		MaxRequestBodySize: o.MaxRequestBodySize,

		MaxIdleWorkerDuration: time.Minute,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    2 * time.Hour,

		SleepWhenConcurrencyLimitsExceeded: 100 * time.Millisecond,
		DisablePreParseMultipartForm:       true,
		LogAllErrors:                       true,
		NoDefaultServerHeader:              true,
		NoDefaultDate:                      true,
		NoDefaultContentType:               true,
		CloseOnShutdown:                    true,
		Logger:                             logger.GetLogger(),
	}
}

// errorHandler answers requests fasthttp could not parse.
func errorHandler(ctx *RequestCtx, err error) {
	status := StatusBadRequest
	if _, ok := err.(*fasthttp.ErrSmallBuffer); ok {
		status = fasthttp.StatusRequestHeaderFieldsTooLarge
	} else if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		status = StatusRequestTimeout
	}
	WriteMessage(ctx, status, StatusText(status))
}

func NewServer(options ServerOption) *Engine {
	options = options.withDefaults()
	return &Engine{
		Server: newServer(options),
		Router: NewRouter(),
		option: options,
	}
}

// CreateServer returns an engine with default options and the JSON
// not-found handlers.
func CreateServer() *Engine {
	s := NewServer(DefaultServerOption())
	s.Router = CreateDefaultRouter()
	return s
}

func (e *Engine) ListenAndServe(addr string) error {
	if err := e.DoRouting(); err != nil {
		return err
	}
	e.Server.Logger.Printf("[xhttp] server is listening on %s", addr)
	return e.Server.ListenAndServe(addr)
}

// Serve accepts connections from ln, which lets tests use an in-memory listener.
func (e *Engine) Serve(ln net.Listener) error {
	if err := e.DoRouting(); err != nil {
		return err
	}
	return e.Server.Serve(ln)
}

func (e *Engine) PreforkListenAndServe(addr string) error {
	if err := e.DoRouting(); err != nil {
		return err
	}
	e.Prefork = prefork.New(e.Server)
	e.Prefork.Reuseport = true
	e.Prefork.RecoverThreshold = e.option.RecoverThreshold
	e.Prefork.Logger = e.Server.Logger
	e.Prefork.Logger.Printf("[xhttp] server is listening on %s (prefork)", addr)
	return e.Prefork.ListenAndServe(addr)
}

// DoRouting wraps the router in the middleware chain and logs every route.
func (e *Engine) DoRouting() error {
	for method, routes := range e.Router.List() {
		for _, r := range routes {
			e.Server.Logger.Printf("[xhttp] method: %s, path: %s", method, r)
		}
	}

	e.Server.Handler = e.Router.Handler
	// the first middleware registered with Use is the outermost one
	for i := len(e.middle) - 1; i >= 0; i-- {
		m := e.middle[i]
		e.Server.Handler = m(e.Server.Handler)
		e.Server.Logger.Printf("[xhttp] middleware %d registered - %s", i+1, runtime.FuncForPC(reflect.ValueOf(m).Pointer()).Name())
	}
	return nil
}

// Use appends middleware to the chain run for every request.
//
//	s.Use(xhttp.RequestIDMiddleware)
//	s.Use(xhttp.TimeoutMiddleware(5 * time.Second))
func (e *Engine) Use(middleware MiddlewareFunc) {
	e.middle = append(e.middle, middleware)
}

// Shutdown stops accepting connections and waits for open ones to finish.
func (e *Engine) Shutdown() {
	e.Server.Logger.Printf("[xhttp] server is shutting down, process id: %d isChild: %v", os.Getpid(), prefork.IsChild())
	if e.Prefork != nil {
		e.Prefork.RecoverThreshold = 0
	}
	if err := e.Server.Shutdown(); err != nil {
		e.Server.Logger.Printf("[xhttp] error while shutting down: %v", err)
	}
}
