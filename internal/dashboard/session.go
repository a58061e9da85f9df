package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"crmdash/internal/chart"
	"crmdash/internal/filter"
	"crmdash/internal/ingest"
	"crmdash/internal/nav"
	"crmdash/internal/persist"
	"crmdash/internal/table"
	"crmdash/internal/util/logx"
	"crmdash/internal/view"
)

var ErrNoRows = errors.New("dashboard: no data")

// Op names a gateway request.
type Op string

const (
	OpFetch  Op = "fetch"
	OpUpload Op = "upload"
	OpSort   Op = "sort"
)

// Ticket identifies one gateway request. Only the latest ticket may apply.
type Ticket uint64

// Event is sent to listeners after every mutation.
type Event struct {
	Kind     string // restore|fetch|upload|sort|delete|append
	Revision uint64
}

// Session wires the store, persistence, gateway and view controllers together.
type Session struct {
	mu        sync.Mutex
	seq       Ticket
	listeners []func(Event)

	store   *table.Store
	adapter *persist.Adapter
	gw      ingest.Gateway
	nav     *nav.Controller
	filter  *filter.Controller
	actions *view.Actions
	charts  *chart.Engine
}

func New(store *table.Store, adapter *persist.Adapter, gw ingest.Gateway, sink chart.Sink) *Session {
	s := &Session{store: store, adapter: adapter, gw: gw, filter: filter.NewController()}
	s.charts = chart.NewEngine(sink)
	s.nav = nav.NewController(store, s.charts)
	s.actions = view.NewActions(s)
	return s
}

func (s *Session) Store() *table.Store        { return s.store }
func (s *Session) Filter() *filter.Controller { return s.filter }
func (s *Session) Actions() *view.Actions     { return s.actions }
func (s *Session) Nav() *nav.Controller       { return s.nav }
func (s *Session) Gateway() ingest.Gateway    { return s.gw }

// Subscribe registers fn for mutation events.
func (s *Session) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Start restores the saved snapshot, or fetches from the gateway when there
// is none. A failed fetch leaves the table empty.
func (s *Session) Start(ctx context.Context) {
	if rows, schema, ok := s.adapter.Restore(); ok {
		s.store.Replace(rows, schema)
		logx.Infof("dashboard: restored %d rows", s.store.Len())
		s.notify("restore")
		return
	}
	if err := s.Fetch(ctx); err != nil {
		logx.Warnf("dashboard: initial fetch failed: %v", err)
		s.store.Replace(nil, nil)
	}
}

// Begin issues a ticket for a gateway request. It fails while a delete
// confirmation is open.
func (s *Session) Begin() (Ticket, error) {
	if err := s.actions.Guard(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq, nil
}

// Apply adopts a gateway response for ticket t. Responses for an older ticket
// return ingest.ErrStale and change nothing; failures leave the table as is.
// While a delete confirmation is open the response is refused with
// view.ErrConfirmationPending. The ticket check and the replace share s.mu
// with Append and Delete.
func (s *Session) Apply(t Ticket, op Op, res ingest.Result, err error) error {
	s.mu.Lock()
	if t != s.seq {
		current := s.seq
		s.mu.Unlock()
		logx.Debugf("dashboard: %s response for ticket %d dropped (current %d)", op, t, current)
		return ingest.ErrStale
	}
	if err != nil {
		s.mu.Unlock()
		logx.Warnf("dashboard: %s failed: %v", op, err)
		return err
	}
	if gerr := s.actions.Guard(); gerr != nil {
		s.mu.Unlock()
		logx.Warnf("dashboard: %s response refused: %v", op, gerr)
		return gerr
	}
	schema := res.Schema
	if schema == nil {
		_, schema = s.store.Get()
	}
	s.store.Replace(res.Rows, schema)
	s.mu.Unlock()
	logx.Infof("dashboard: %s applied, %d rows", op, s.store.Len())
	s.commit(string(op))
	return nil
}

func (s *Session) Fetch(ctx context.Context) error {
	t, err := s.Begin()
	if err != nil {
		return err
	}
	res, err := s.gw.Fetch(ctx)
	return s.Apply(t, OpFetch, res, err)
}

// Import uploads a spreadsheet and replaces the table with the response.
func (s *Session) Import(ctx context.Context, filename string, r io.Reader) error {
	t, err := s.Begin()
	if err != nil {
		return err
	}
	res, err := s.gw.Upload(ctx, filename, r)
	return s.Apply(t, OpUpload, res, err)
}

// Sort asks the gateway to reorder the current rows by column.
func (s *Session) Sort(ctx context.Context, column, order string) error {
	rows, err := s.SortInput()
	if err != nil {
		return err
	}
	t, err := s.Begin()
	if err != nil {
		return err
	}
	res, err := s.gw.Sort(ctx, rows, column, order)
	return s.Apply(t, OpSort, res, err)
}

// SortInput returns the rows to send with a sort request.
func (s *Session) SortInput() ([]table.Row, error) {
	rows, _ := s.store.Get()
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

// Row implements view.Target.
func (s *Session) Row(i int) (table.Row, bool) { return s.store.At(i) }

// Delete removes row i. It is reached through a confirmed view action.
func (s *Session) Delete(i int) (table.Row, error) {
	s.mu.Lock()
	r, err := s.store.DeleteAt(i)
	if err != nil {
		s.mu.Unlock()
		logx.Warnf("dashboard: delete %d: %v", i, err)
		return nil, err
	}
	s.seq++
	s.mu.Unlock()
	s.commit("delete")
	return r, nil
}

// Append adds followed rows at the end of the table.
func (s *Session) Append(rows ...table.Row) error {
	if len(rows) == 0 {
		return nil
	}
	s.mu.Lock()
	if err := s.actions.Guard(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.store.Append(rows...)
	s.seq++
	s.mu.Unlock()
	s.commit("append")
	return nil
}

// Follow appends rows written to path until ctx ends.
func (s *Session) Follow(ctx context.Context, path string) {
	rows, errs := ingest.Follow(ctx, path)
	go func() {
		for {
			select {
			case r, ok := <-rows:
				if !ok {
					return
				}
				if err := s.Append(r); err != nil {
					logx.Warnf("dashboard: followed row not added: %v", err)
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logx.Warnf("dashboard: follow %s: %v", path, err)
			}
		}
	}()
}

func (s *Session) commit(kind string) {
	rows, schema := s.store.Get()
	s.adapter.Save(rows, schema)
	s.notify(kind)
}

func (s *Session) notify(kind string) {
	ev := Event{Kind: kind, Revision: s.store.Revision()}
	s.mu.Lock()
	ls := append([]func(Event){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range ls {
		fn(ev)
	}
}

// Outcome is the user notification for a finished gateway request.
func Outcome(op Op, column string, err error) view.Notice {
	if errors.Is(err, ingest.ErrStale) {
		return view.Notice{}
	}
	if errors.Is(err, view.ErrConfirmationPending) {
		return view.Notice{Level: view.Warning, Text: "Finish the pending delete first"}
	}
	reason := ""
	if err != nil {
		reason = err.Error()
		var ie *ingest.IngestionError
		if errors.As(err, &ie) {
			reason = ie.Reason()
		}
	}
	switch op {
	case OpUpload:
		if err != nil {
			return view.Notice{Level: view.Error, Text: "Error importing CSV: " + reason}
		}
		return view.Notice{Level: view.Success, Text: "CSV imported successfully!"}
	case OpSort:
		if err != nil {
			return view.Notice{Level: view.Error, Text: "Error sorting data: " + reason}
		}
		return view.Notice{Level: view.Success, Text: fmt.Sprintf("Data sorted by %s", column)}
	default:
		if err != nil {
			return view.Notice{Level: view.Error, Text: "Error loading data: " + reason}
		}
		return view.Notice{Level: view.Success, Text: "Data refreshed"}
	}
}
