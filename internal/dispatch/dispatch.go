// Package dispatch routes endpoint requests to the note operations of a
// user's workbook and turns every outcome into a response envelope.
package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/mesh-intelligence/playnotes/internal/notes"
	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// Dispatcher executes requests against the workbooks of configured users.
// Requests that touch the same workbook run one at a time, including
// requests of different users mapped to one workbook.
type Dispatcher struct {
	store     types.Store
	workbooks map[string]string
	sheetName string
	clock     types.Clock
	logger    *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock sets the clock used for default timestamps.
func WithClock(c types.Clock) Option {
	return func(d *Dispatcher) { d.clock = c }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// New creates a Dispatcher serving the users in cfg. The clock defaults to
// the wall clock in cfg's time zone.
func New(store types.Store, cfg types.Config, opts ...Option) (*Dispatcher, error) {
	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = types.DefaultSheetName
	}
	d := &Dispatcher{
		store:     store,
		workbooks: cfg.UserWorkbooks(),
		sheetName: sheetName,
		logger:    slog.Default(),
		locks:     make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.clock == nil {
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}
		d.clock = types.SystemClock{Location: loc}
	}
	return d, nil
}

// DispatchJSON decodes body as a Request and dispatches it. An empty body is
// treated as an empty request.
func (d *Dispatcher) DispatchJSON(body []byte) types.Response {
	var req types.Request
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			err = types.Validationf("invalid request body: %v", err)
			d.logger.Warn("request rejected", "kind", types.Classify(err), "error", err)
			return types.Failed(err)
		}
	}
	return d.Dispatch(req)
}

// Dispatch executes req and returns its envelope. It never panics; a panic
// inside an operation becomes an internal error carrying the stack.
func (d *Dispatcher) Dispatch(req types.Request) (resp types.Response) {
	defer func() {
		if r := recover(); r != nil {
			stack := string(debug.Stack())
			d.logger.Error("panic recovered",
				"user", req.User, "action", req.Action, "error", r)
			resp = types.Response{
				OK:    false,
				Error: fmt.Sprintf("%v: %v", types.ErrInternal, r),
				Stack: stack,
			}
		}
	}()

	d.logger.Info("dispatch", "user", req.User, "action", req.Action, "id", requestID(req))

	resp, err := d.handle(req)
	if err != nil {
		kind := types.Classify(err)
		if kind == types.ErrInternal {
			d.logger.Error("request failed",
				"user", req.User, "action", req.Action, "kind", kind, "error", err)
		} else {
			d.logger.Warn("request failed",
				"user", req.User, "action", req.Action, "kind", kind, "error", err)
		}
		return types.Failed(err)
	}
	return resp
}

func (d *Dispatcher) handle(req types.Request) (types.Response, error) {
	if req.User == "" {
		return types.Response{}, types.Validationf("user is required")
	}
	workbookID, ok := d.workbooks[req.User]
	if !ok {
		return types.Response{}, &types.RequestError{
			Kind:    types.ErrUnknownUser,
			Message: "Unknown user: " + req.User,
		}
	}

	unlock := d.lock(workbookID)
	defer unlock()

	wb, err := d.store.OpenWorkbook(workbookID)
	if err != nil {
		return types.Response{}, fmt.Errorf("open workbook of %s: %w", req.User, err)
	}
	sheet, err := notes.OpenSheet(wb, d.sheetName)
	if err != nil {
		return types.Response{}, err
	}

	switch req.Action {
	case types.ActionExists:
		id := string(req.ID)
		if id == "" {
			return types.Response{}, types.Validationf("id required")
		}
		found, err := notes.Exists(sheet, id)
		if err != nil {
			return types.Response{}, err
		}
		return types.ExistsResult(found), nil

	case types.ActionUpsertNote:
		rec, err := recordFromInput(req.Record)
		if err != nil {
			return types.Response{}, err
		}
		if err := notes.Upsert(sheet, rec, d.clock); err != nil {
			return types.Response{}, err
		}
		return types.Succeeded(), nil

	case types.ActionAddTrack:
		added, err := notes.AddTracks(sheet, string(req.ID), req.Items)
		if err != nil {
			return types.Response{}, err
		}
		return types.AddedResult(added), nil
	}

	return types.Response{}, &types.RequestError{
		Kind:    types.ErrUnknownAction,
		Message: "Unknown action: " + req.Action,
	}
}

// lock acquires the mutex of a workbook and returns its release.
func (d *Dispatcher) lock(workbookID string) func() {
	d.mu.Lock()
	m, ok := d.locks[workbookID]
	if !ok {
		m = &sync.Mutex{}
		d.locks[workbookID] = m
	}
	d.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func requestID(req types.Request) string {
	if req.ID != "" {
		return string(req.ID)
	}
	if req.Record != nil {
		return string(req.Record.ID)
	}
	return ""
}
