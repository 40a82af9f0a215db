// Copyright 2015 Comcast Cable Communications Management, LLC
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
//
// End Copyright

package service

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidwall/pretty"

	"github.com/playrules/rulesys/core"
)

var BeGraceful = true

// Server is the HTTP facade over a Service (spec.md §4.8/SPEC_FULL.md
// §4.8): POST /rules, POST /events?session=ID, GET/POST
// /state?session=ID, GET /healthz.
type Server struct {
	Ctx        *core.Context
	Service    *Service
	pending    int32
	maxPending int32
	listener   net.Listener
	connStates *ConnStates
}

func NewServer(ctx *core.Context, service *Service) *Server {
	return &Server{Ctx: ctx, Service: service, connStates: NewConnStates()}
}

func (s *Server) Pending() int32 { return atomic.LoadInt32(&s.pending) }

func (s *Server) incPending(add bool) {
	inc := int32(1)
	if !add {
		inc = -1
	}
	atomic.AddInt32(&s.pending, inc)
}

func (s *Server) MaxPending() int32 { return atomic.LoadInt32(&s.maxPending) }

func (s *Server) SetMaxPending(max int32) {
	core.Log(core.INFO, s.Ctx, "service.Server.SetMaxPending", "max", max)
	atomic.StoreInt32(&s.maxPending, max)
}

func (s *Server) Maxed() (bool, int32) {
	max := s.MaxPending()
	pending := s.Pending()
	if max == 0 {
		return false, pending
	}
	return max <= pending, pending
}

// Listener wraps a net.Listener with a pending-request drain so
// Server.Start can shut down gracefully instead of dropping in-flight
// connections.
type Listener struct {
	ctx     *core.Context
	l       net.Listener
	server  *Server
	ctl     chan string
	mode    string
}

func NewListener(ctx *core.Context, s *Server, addr string) (*Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ctx: ctx, l: l, server: s, ctl: make(chan string, 5)}, nil
}

func (l *Listener) Drain(d time.Duration) int {
	pause := 250 * time.Millisecond
	waited := time.Duration(0)
	var n int32
	for {
		_, n = l.server.Maxed()
		if n <= 0 || d <= waited {
			break
		}
		time.Sleep(pause)
		waited += pause
	}
	core.Log(core.INFO, l.ctx, "service.Listener.Drain", "pending", n, "waited", waited.String())
	return int(n)
}

func (l *Listener) Stop(d time.Duration) error {
	core.Log(core.INFO, l.ctx, "service.Listener.Stop")
	l.ctl <- "stop"
	l.Drain(d)
	l.mode = "stopped"
	return nil
}

func tooMany(c net.Conn) {
	w := bufio.NewWriter(c)
	w.WriteString("HTTP/1.1 429 Too Many Requests\r\n")
	w.WriteString("Content-Length: 0\r\n")
	w.WriteString("Connection: close\r\n\r\n")
	w.Flush()
	c.Close()
}

type TooManyConnectionsError struct{}

func (e *TooManyConnectionsError) Error() string   { return "too many connections" }
func (e *TooManyConnectionsError) Temporary() bool { return true }
func (e *TooManyConnectionsError) Timeout() bool   { return false }

var ErrTooManyConnections = &TooManyConnectionsError{}

func (l *Listener) Accept() (net.Conn, error) {
	select {
	case op := <-l.ctl:
		l.mode = op
	default:
	}

	switch l.mode {
	case "stop":
		return nil, fmt.Errorf("service stopping")
	case "stopped":
		return nil, fmt.Errorf("service stopped")
	}

	maxed, n := l.server.Maxed()
	c, err := l.l.Accept()
	if err != nil {
		return nil, err
	}
	if maxed {
		core.Log(core.WARN, l.ctx, "service.Listener.Accept", "maxed", n)
		tooMany(c)
		return nil, ErrTooManyConnections
	}
	return c, nil
}

func (l *Listener) Close() error   { return l.l.Close() }
func (l *Listener) Addr() net.Addr { return l.l.Addr() }

type ConnStates struct {
	sync.Mutex
	counts map[string]int64
}

func NewConnStates() *ConnStates { return &ConnStates{counts: make(map[string]int64)} }

func (cs *ConnStates) Inc(state string) {
	cs.Lock()
	cs.counts[state]++
	cs.Unlock()
}

func (cs *ConnStates) Get() map[string]int64 {
	cs.Lock()
	defer cs.Unlock()
	acc := make(map[string]int64, len(cs.counts))
	for p, v := range cs.counts {
		acc[p] = v
	}
	return acc
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	bs, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, `{"error":%q}`, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(pretty.Pretty(bs))
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if problem, ok := err.(core.Problem); ok && problem.IsFatal() {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.incPending(true)
	ctx := s.Ctx.SubContext()
	timer := core.NewTimer(ctx, "service.Server.ServeHTTP")
	defer func() {
		if r.Body != nil {
			r.Body.Close()
		}
		s.incPending(false)
		timer.Stop()
	}()

	session := r.URL.Query().Get("session")

	switch {
	case r.URL.Path == "/healthz" && r.Method == http.MethodGet:
		if err := s.Service.Healthz(ctx); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "good", "version": APIVersion})

	case r.URL.Path == "/rules" && r.Method == http.MethodPost:
		body, err := ioutil.ReadAll(r.Body)
		if err != nil {
			writeError(w, err)
			return
		}
		diag, err := s.Service.AddRules(ctx, session, string(body))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, diag)

	case r.URL.Path == "/events" && r.Method == http.MethodPost:
		body, err := ioutil.ReadAll(r.Body)
		if err != nil {
			writeError(w, err)
			return
		}
		raw, err := core.ParseJSON(ctx, body)
		if err != nil {
			writeError(w, err)
			return
		}
		reports, err := s.Service.PostEvent(ctx, session, raw)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reports)

	case r.URL.Path == "/state" && r.Method == http.MethodGet:
		blob, err := s.Service.GetStateBlob(ctx, session)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(pretty.Pretty(blob))

	case r.URL.Path == "/state" && r.Method == http.MethodPost:
		blob, err := ioutil.ReadAll(r.Body)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.Service.PostStateBlob(ctx, session, blob); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "okay"})

	default:
		http.NotFound(w, r)
	}
}

func (s *Server) Start(ctx *core.Context, addr string) error {
	server := &http.Server{
		Handler:        s,
		MaxHeaderBytes: 1 << 20,
		ConnState: func(c net.Conn, state http.ConnState) {
			s.connStates.Inc(state.String())
		},
	}
	core.Log(core.INFO, ctx, "service.Server.Start", "addr", addr)

	if !BeGraceful {
		return server.ListenAndServe()
	}
	l, err := NewListener(ctx, s, addr)
	if err != nil {
		return err
	}
	s.Service.Stopper = func(ctx *core.Context, d time.Duration) error {
		return l.Stop(d)
	}
	s.listener = l
	server.Serve(l)
	n := l.Drain(5 * time.Second)
	if n == 0 {
		return nil
	}
	return fmt.Errorf("killing %d pending requests", n)
}
