// Package bridge exposes the engine through the request/response messages
// exchanged with the profile storage and UI layer.
//
//	{"type":"CAPTURE_FIELDS"}                 -> {"ok":true,"data":{...}}
//	{"type":"FILL_FIELDS","data":{...}}       -> {"ok":true,"filled":3}
//
// Failures answer {"ok":false,"reason":"..."}.
package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Lenersebastian/sebov-autofill/pkg/autofill"
	"github.com/Lenersebastian/sebov-autofill/pkg/dom"
	"github.com/Lenersebastian/sebov-autofill/pkg/snapshot"
)

// Message types.
const (
	TypeCapture = "CAPTURE_FIELDS"
	TypeFill    = "FILL_FIELDS"
)

// maxLineSize bounds one request line in Serve.
const maxLineSize = 10 * 1024 * 1024

// Request is one message from the messaging layer.
type Request struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Response answers a Request. Data is set for captures, Filled for fills.
type Response struct {
	OK     bool
	Data   snapshot.FieldSnapshot
	Filled *int
	Reason string
}

// MarshalJSON keeps empty snapshots and zero counts on the wire while
// omitting the fields that do not belong to the response kind.
func (r Response) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{"ok": r.OK}
	if r.Data != nil {
		out["data"] = map[string]string(r.Data)
	}
	if r.Filled != nil {
		out["filled"] = *r.Filled
	}
	if r.Reason != "" {
		out["reason"] = r.Reason
	}
	return json.Marshal(out)
}

// Logger is the logging surface of the handler.
type Logger interface {
	Debugf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// Handler answers requests against one document.
type Handler struct {
	engine *autofill.Engine
	doc    dom.Document
	log    Logger
}

// NewHandler creates a handler. logger may be nil.
func NewHandler(engine *autofill.Engine, doc dom.Document, logger Logger) *Handler {
	return &Handler{engine: engine, doc: doc, log: logger}
}

// Handle answers one request. It never returns a transport error; every
// failure becomes an ok:false response.
func (h *Handler) Handle(ctx context.Context, req Request) Response {
	switch req.Type {
	case TypeCapture:
		snap, err := h.engine.Capture(ctx, h.doc)
		if err != nil {
			h.warnf("capture failed: %v", err)
			return failure(err)
		}
		return Response{OK: true, Data: snap}

	case TypeFill:
		snap, err := decodeSnapshot(req.Data)
		if err != nil {
			h.warnf("fill rejected: %v", err)
			return failure(err)
		}
		filled, err := h.engine.Fill(ctx, h.doc, snap)
		if err != nil {
			h.warnf("fill failed: %v", err)
			return failure(err)
		}
		return Response{OK: true, Filled: &filled}

	default:
		return Response{Reason: "Unknown message"}
	}
}

// Serve reads one JSON request per line from r and writes one JSON
// response per line to w until r is exhausted or ctx is done.
func (h *Handler) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp Response
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			resp = failure(fmt.Errorf("invalid request: %w", err))
		} else {
			h.debugf("handling %s", req.Type)
			resp = h.Handle(ctx, req)
		}

		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read requests: %w", err)
	}
	return nil
}

// decodeSnapshot treats a missing or null payload as an empty snapshot.
func decodeSnapshot(data json.RawMessage) (snapshot.FieldSnapshot, error) {
	if len(data) == 0 {
		return snapshot.FieldSnapshot{}, nil
	}
	return snapshot.Parse(data)
}

func failure(err error) Response {
	reason := err.Error()
	switch {
	case errors.Is(err, snapshot.ErrInvalidShape):
		reason = "Invalid snapshot: " + reason
	case errors.Is(err, autofill.ErrNoDocument):
		reason = "Cannot read page: " + reason
	}
	return Response{Reason: reason}
}

func (h *Handler) debugf(format string, v ...interface{}) {
	if h.log != nil {
		h.log.Debugf(format, v...)
	}
}

func (h *Handler) warnf(format string, v ...interface{}) {
	if h.log != nil {
		h.log.Warnf(format, v...)
	}
}
