// Package transport provides the stdio listener for the MCP server.
package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/exp/jsonrpc2"
)

// compatibility check
var (
	_ jsonrpc2.Listener  = (*Stdio)(nil)
	_ jsonrpc2.Dialer    = (*Stdio)(nil)
	_ io.ReadWriteCloser = (*Stdio)(nil)
)

// Stdio implements jsonrpc2.Listener, jsonrpc2.Dialer and io.ReadWriteCloser over a single
// pair of streams. It yields exactly one connection.
type Stdio struct {
	in        io.ReadCloser
	out       io.WriteCloser
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	closeErr  error
	writeMu   sync.Mutex

	acceptMu sync.Mutex
	accepted bool
}

// Accept returns the stream on the first call. Later calls block until the
// listener is closed and then return io.EOF.
func (s *Stdio) Accept(ctx context.Context) (io.ReadWriteCloser, error) {
	s.acceptMu.Lock()
	first := !s.accepted
	s.accepted = true
	s.acceptMu.Unlock()

	select {
	case <-s.ctx.Done():
		return nil, io.EOF
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if first {
		return s, nil
	}
	select {
	case <-s.ctx.Done():
		return nil, io.EOF
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Dial implements the jsonrpc2.Dialer#Dial
func (s *Stdio) Dial(_ context.Context) (io.ReadWriteCloser, error) {
	return s, nil
}

// Dialer implements the jsonrpc2.Listener#Dialer
func (s *Stdio) Dialer() jsonrpc2.Dialer {
	return s
}

// Read implements the io.Reader#Read. EOF on input shuts the listener down.
func (s *Stdio) Read(p []byte) (n int, err error) {
	n, err = s.in.Read(p)
	if errors.Is(err, io.EOF) {
		s.cancel()
	}
	return n, err
}

// Write implements the io.Writer#Write
func (s *Stdio) Write(p []byte) (n int, err error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.out.Write(p)
}

// Close closes both streams and the listener. Calling it more than once is a no-op.
func (s *Stdio) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.closeErr = errors.Join(s.in.Close(), s.out.Close())
	})
	return s.closeErr
}

// Context is canceled once the listener is closed or input reaches EOF.
func (s *Stdio) Context() context.Context {
	return s.ctx
}

type stdioOptions struct {
	in  io.ReadCloser
	out io.WriteCloser
}

// StdioOption options for the Stdio listener.
type StdioOption func(*stdioOptions)

// StdioWithReadCloser replaces os.Stdin.
func StdioWithReadCloser(in io.ReadCloser) StdioOption {
	return func(o *stdioOptions) {
		o.in = in
	}
}

// StdioWithWriteCloser replaces os.Stdout.
func StdioWithWriteCloser(out io.WriteCloser) StdioOption {
	return func(o *stdioOptions) {
		o.out = out
	}
}

// NewStdio returns a new Stdio listener bound to ctx.
func NewStdio(ctx context.Context, options ...StdioOption) *Stdio {
	o := &stdioOptions{
		in:  os.Stdin,
		out: os.Stdout,
	}
	for _, opt := range options {
		opt(o)
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Stdio{
		in:     o.in,
		out:    o.out,
		ctx:    ctx,
		cancel: cancel,
	}
}

// DefaultStdioFramer returns the framer for newline-delimited JSON messages.
func DefaultStdioFramer() jsonrpc2.Framer {
	return &stdioFramer{
		Framer: jsonrpc2.RawFramer(),
	}
}

// compatibility check
var _ jsonrpc2.Framer = (*stdioFramer)(nil)

// stdioFramer reads raw JSON values and writes each message followed by '\n'.
type stdioFramer struct {
	jsonrpc2.Framer
}

// Writer implements the jsonrpc2.Framer#Writer
func (f stdioFramer) Writer(w io.Writer) jsonrpc2.Writer {
	return &stdioWriter{
		framer: f.Framer,
		w:      w,
	}
}

// compatibility check
var _ jsonrpc2.Writer = (*stdioWriter)(nil)

type stdioWriter struct {
	framer jsonrpc2.Framer
	w      io.Writer
}

// stdioDelimiter separates messages on the stream.
const stdioDelimiter byte = '\n'

// Write encodes the message into one buffer so a single Write puts the whole line on the stream.
func (s *stdioWriter) Write(ctx context.Context, message jsonrpc2.Message) (int64, error) {
	var buf bytes.Buffer
	if _, err := s.framer.Writer(&buf).Write(ctx, message); err != nil {
		return 0, err
	}
	buf.WriteByte(stdioDelimiter)
	n, err := s.w.Write(buf.Bytes())
	return int64(n), err
}
